package recommender

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cinerec/internal/models"
)

// Sentinel del dataset MovieLens para películas sin géneros.
const noGenresSentinel = "(no genres listed)"

// ContentModel es el índice content-based: matriz densa M×M de coseno
// sobre vectores binarios de géneros, más el mapa título -> índice de fila.
// De solo lectura después del build, seguro para requests concurrentes.
// Memoria O(M²): bien hasta decenas de miles de películas, más allá la
// matriz densa es el cuello de botella.
type ContentModel struct {
	Sim      [][]float64
	TitleIdx map[string]int
	Genres   []string // universo de géneros, orden de primera aparición
}

// ParseGenres separa el campo crudo de movies.csv. Vacío o el sentinel
// "(no genres listed)" producen lista vacía.
func ParseGenres(raw string) []string {
	if raw == "" || raw == noGenresSentinel {
		return nil
	}
	var out []string
	for _, g := range strings.Split(raw, "|") {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// BuildContentModel vectoriza los géneros y calcula la matriz completa de
// similitud coseno. Función pura del catálogo: sin efectos, sin I/O.
//
// Títulos duplicados: el índice del último visto gana (igual que el mapa
// title->idx clásico de MovieLens). Queda documentado y testeado; el
// movieId sigue estando en el resultado para desambiguar a ojo.
func BuildContentModel(movies []models.MovieDoc) *ContentModel {
	m := len(movies)

	// universo de géneros en orden de primera aparición, estable dentro
	// del build para que todos los vectores compartan layout
	genreIdx := make(map[string]int)
	var genres []string
	for _, mv := range movies {
		for _, g := range mv.Genres {
			if _, ok := genreIdx[g]; !ok {
				genreIdx[g] = len(genres)
				genres = append(genres, g)
			}
		}
	}

	// vectores binarios por película
	vecs := make([][]float64, m)
	norms := make([]float64, m)
	for i, mv := range movies {
		v := make([]float64, len(genres))
		for _, g := range mv.Genres {
			v[genreIdx[g]] = 1
		}
		vecs[i] = v
		norms[i] = math.Sqrt(float64(len(mv.Genres)))
	}

	// coseno todos-contra-todos; la matriz es simétrica así que solo se
	// calcula el triángulo superior. Con vector cero la similitud es 0
	// (nada de NaN); la diagonal se fija en 1.
	sim := make([][]float64, m)
	for i := range sim {
		sim[i] = make([]float64, m)
		sim[i][i] = 1
	}
	for i := 0; i < m; i++ {
		if norms[i] == 0 {
			continue
		}
		for j := i + 1; j < m; j++ {
			if norms[j] == 0 {
				continue
			}
			var dot float64
			for g, x := range vecs[i] {
				dot += x * vecs[j][g]
			}
			s := dot / (norms[i] * norms[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}

	titleIdx := make(map[string]int, m)
	for i, mv := range movies {
		titleIdx[mv.Title] = i
	}

	return &ContentModel{Sim: sim, TitleIdx: titleIdx, Genres: genres}
}

// RecommendByTitle rankea el resto del catálogo por similitud contra la
// película pedida. movies tiene que ser el mismo slice (mismo orden) con el
// que se construyó el modelo.
func (cm *ContentModel) RecommendByTitle(title string, movies []models.MovieDoc, topN int) ([]models.ContentRec, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("topN debe ser positivo, vino %d: %w", topN, ErrInvalidArgument)
	}
	idx, ok := cm.TitleIdx[title]
	if !ok {
		return nil, fmt.Errorf("título %q no está en el catálogo: %w", title, ErrNotFound)
	}

	row := cm.Sim[idx]
	order := make([]int, 0, len(movies)-1)
	for i := range movies {
		if i != idx {
			order = append(order, i)
		}
	}
	// estable: empates se resuelven por orden original del catálogo
	sort.SliceStable(order, func(a, b int) bool { return row[order[a]] > row[order[b]] })

	if len(order) > topN {
		order = order[:topN]
	}
	recs := make([]models.ContentRec, 0, len(order))
	for r, i := range order {
		recs = append(recs, models.ContentRec{
			Rank:    r + 1,
			MovieID: movies[i].MovieID,
			Title:   movies[i].Title,
			Genres:  movies[i].Genres,
		})
	}
	return recs, nil
}
