package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinerec/internal/cache"
	"cinerec/internal/models"
	"cinerec/internal/recommender"
	"cinerec/internal/repository"
)

const (
	MaxTopN = 50 // por seguridad, no deja pedir 1000 ítems
	MaxK    = 200

	cacheTTLSeconds = 60 * 60
)

// RecommendService junta las dos tuberías sobre el mismo snapshot: cache
// Redis adelante, historial en Mongo para la CF.
type RecommendService struct {
	modelSvc *ModelService
	recRepo  *repository.RecommendationRepository

	defaultTopN       int
	defaultK          int
	minRatingsPerItem int
}

func NewRecommendService(
	modelSvc *ModelService,
	recRepo *repository.RecommendationRepository,
	defaultTopN, defaultK, minRatingsPerItem int,
) *RecommendService {
	return &RecommendService{
		modelSvc:          modelSvc,
		recRepo:           recRepo,
		defaultTopN:       defaultTopN,
		defaultK:          defaultK,
		minRatingsPerItem: minRatingsPerItem,
	}
}

// ====== content-based ======

type TitleRecRequest struct {
	Title   string
	TopN    int
	Refresh bool
}

func titleCacheKey(req TitleRecRequest) string {
	return fmt.Sprintf("rec:title:%s:n:%d", req.Title, req.TopN)
}

func (s *RecommendService) RecommendByTitle(ctx context.Context, req TitleRecRequest) ([]models.ContentRec, error) {
	// 0 significa "no especificado"; valores negativos llegan al core y
	// rebotan con InvalidArgument
	if req.TopN == 0 {
		req.TopN = s.defaultTopN
	} else if req.TopN > MaxTopN {
		req.TopN = MaxTopN
	}

	var cached []models.ContentRec
	if !req.Refresh {
		if ok, err := cache.GetJSON(ctx, titleCacheKey(req), &cached); err == nil && ok {
			return cached, nil
		}
	}

	snap, err := s.modelSvc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := snap.Content.RecommendByTitle(req.Title, snap.Movies, req.TopN)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, titleCacheKey(req), recs, cacheTTLSeconds); err != nil {
		log.Printf("error cacheando recomendación content en Redis: %v", err)
	}
	return recs, nil
}

// ====== colaborativa (user-based) ======

type UserRecRequest struct {
	UserID  int
	TopN    int
	K       int
	Refresh bool
}

func userCacheKey(req UserRecRequest) string {
	// cachea por usuario + n + k (refresh solo decide si usar el cache)
	return fmt.Sprintf("rec:user:%d:n:%d:k:%d", req.UserID, req.TopN, req.K)
}

func (s *RecommendService) RecommendForUser(ctx context.Context, req UserRecRequest) (*models.CFResult, error) {
	if req.TopN == 0 {
		req.TopN = s.defaultTopN
	} else if req.TopN > MaxTopN {
		req.TopN = MaxTopN
	}
	if req.K == 0 {
		req.K = s.defaultK
	} else if req.K > MaxK {
		req.K = MaxK
	}

	var cached models.CFResult
	if !req.Refresh {
		if ok, err := cache.GetJSON(ctx, userCacheKey(req), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	snap, err := s.modelSvc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	res, err := recommender.RecommendForUser(
		req.UserID, snap.CF, snap.Movies, snap.Ratings,
		req.TopN, req.K, s.minRatingsPerItem,
	)
	if err != nil {
		return nil, err
	}

	// historial en Mongo (no rompemos la respuesta si falla)
	if s.recRepo != nil {
		hist := &models.Recommendation{
			UserID:           req.UserID,
			Algo:             "user-knn",
			SimilarityMetric: "cosine",
			Params: map[string]any{
				"n":          req.TopN,
				"k":          req.K,
				"minRatings": s.minRatingsPerItem,
			},
			Fallback:  res.Fallback,
			Items:     res.Items,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("error guardando recomendación en Mongo: %v", err)
		}
	}

	if err := cache.SetJSON(ctx, userCacheKey(req), res, cacheTTLSeconds); err != nil {
		log.Printf("error cacheando recomendación en Redis: %v", err)
	}
	return res, nil
}

// History lista el historial CF guardado para un usuario.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.recRepo.FindByUser(ctx, userID, limit)
}

// RebuildModels fuerza la reconstrucción de artefactos e invalida el cache
// de respuestas.
func (s *RecommendService) RebuildModels(ctx context.Context) (*models.ModelSummary, error) {
	if _, err := s.modelSvc.Rebuild(ctx); err != nil {
		return nil, err
	}
	if err := cache.DeleteByPrefix(ctx, "rec:"); err != nil {
		log.Printf("error invalidando cache de recomendaciones: %v", err)
	}
	return s.modelSvc.Summary(ctx), nil
}
