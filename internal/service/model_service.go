package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cinerec/internal/models"
	"cinerec/internal/recommender"
	"cinerec/internal/repository"
)

// Snapshot agrupa las tablas cargadas y los dos artefactos construidos
// sobre ellas. Inmutable: los handlers lo comparten sin locks.
type Snapshot struct {
	Movies  []models.MovieDoc
	Ratings []models.RatingDoc
	Content *recommender.ContentModel
	CF      *recommender.CFBundle
	BuiltAt time.Time
}

// ModelService memoiza los artefactos de recomendación. Los builds son
// O(M²) y O(U²) sobre el dataset completo, así que se hacen una sola vez
// por proceso (o hasta que un admin fuerce el rebuild); el mutex garantiza
// a lo sumo un build en vuelo.
type ModelService struct {
	movies  *repository.MovieRepository
	ratings *repository.RatingRepository

	mu   sync.Mutex
	snap *Snapshot
}

func NewModelService(m *repository.MovieRepository, r *repository.RatingRepository) *ModelService {
	return &ModelService{movies: m, ratings: r}
}

// Snapshot devuelve el snapshot vigente, construyéndolo si todavía no hay.
func (s *ModelService) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap != nil {
		return s.snap, nil
	}
	return s.buildLocked(ctx)
}

// Rebuild descarta el snapshot y construye uno nuevo desde Mongo.
func (s *ModelService) Rebuild(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = nil
	return s.buildLocked(ctx)
}

func (s *ModelService) buildLocked(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando catálogo: %w", err)
	}
	ratings, err := s.ratings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando ratings: %w", err)
	}

	snap := &Snapshot{
		Movies:  movies,
		Ratings: ratings,
		Content: recommender.BuildContentModel(movies),
		CF:      recommender.BuildCFBundle(ratings),
		BuiltAt: time.Now(),
	}
	s.snap = snap

	log.Printf("[models] build listo: %d películas, %d usuarios, %d ratings, %s",
		len(movies), snap.CF.Raw.Rows, len(ratings), time.Since(start))
	return snap, nil
}

// Summary arma el resumen para el endpoint admin. No dispara un build.
func (s *ModelService) Summary(ctx context.Context) *models.ModelSummary {
	s.mu.Lock()
	snap := s.snap
	s.mu.Unlock()

	if snap == nil {
		return &models.ModelSummary{}
	}
	return &models.ModelSummary{
		Movies:       len(snap.Movies),
		Users:        snap.CF.Raw.Rows,
		Items:        snap.CF.Raw.Cols,
		Ratings:      snap.CF.Raw.NNZ(),
		Genres:       len(snap.Content.Genres),
		BuiltAt:      snap.BuiltAt.UTC().Format(time.RFC3339),
		ContentReady: snap.Content != nil,
		CFReady:      snap.CF != nil,
	}
}
