package recommender

import (
	"errors"
	"reflect"
	"testing"

	"cinerec/internal/models"
)

func catalogoABC() []models.MovieDoc {
	return []models.MovieDoc{
		{MovieID: 1, Title: "A (2000)", Genres: []string{"Action", "Comedy"}},
		{MovieID: 2, Title: "B (2001)", Genres: []string{"Action"}},
		{MovieID: 3, Title: "C (2002)", Genres: []string{"Comedy"}},
	}
}

func TestParseGenres(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"Action|Comedy", []string{"Action", "Comedy"}},
		{"Drama", []string{"Drama"}},
		{"", nil},
		{"(no genres listed)", nil},
	}
	for _, c := range cases {
		got := ParseGenres(c.raw)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseGenres(%q) = %v, esperaba %v", c.raw, got, c.want)
		}
	}
}

func TestSelfSimilarityEsUno(t *testing.T) {
	movies := catalogoABC()
	// incluye una película sin géneros: la diagonal igual tiene que ser 1
	movies = append(movies, models.MovieDoc{MovieID: 4, Title: "D (2003)", Genres: nil})
	cm := BuildContentModel(movies)

	for i := range movies {
		if cm.Sim[i][i] != 1 {
			t.Errorf("sim[%d][%d] = %f, esperaba 1", i, i, cm.Sim[i][i])
		}
	}
}

func TestMatrizSimetrica(t *testing.T) {
	cm := BuildContentModel(catalogoABC())
	for i := range cm.Sim {
		for j := range cm.Sim {
			if cm.Sim[i][j] != cm.Sim[j][i] {
				t.Errorf("sim[%d][%d]=%f != sim[%d][%d]=%f", i, j, cm.Sim[i][j], j, i, cm.Sim[j][i])
			}
		}
	}
}

func TestVectorCeroSimilitudCero(t *testing.T) {
	movies := append(catalogoABC(), models.MovieDoc{MovieID: 4, Title: "D (2003)", Genres: nil})
	cm := BuildContentModel(movies)
	for j := 0; j < 3; j++ {
		if cm.Sim[3][j] != 0 {
			t.Errorf("sim con vector cero: sim[3][%d] = %f, esperaba 0", j, cm.Sim[3][j])
		}
	}
}

func TestRecommendByTitleEscenarioCompartido(t *testing.T) {
	movies := catalogoABC()
	cm := BuildContentModel(movies)

	recs, err := cm.RecommendByTitle("A (2000)", movies, 2)
	if err != nil {
		t.Fatalf("error inesperado: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, esperaba 2", len(recs))
	}

	// B y C comparten exactamente un género con A, ambas con sim > 0
	got := map[string]bool{recs[0].Title: true, recs[1].Title: true}
	if !got["B (2001)"] || !got["C (2002)"] {
		t.Errorf("esperaba B y C, vino %v", got)
	}
	idxA := cm.TitleIdx["A (2000)"]
	for _, title := range []string{"B (2001)", "C (2002)"} {
		if s := cm.Sim[idxA][cm.TitleIdx[title]]; s <= 0 {
			t.Errorf("sim(A, %s) = %f, esperaba > 0", title, s)
		}
	}

	// ranks 1-based en orden
	for i, r := range recs {
		if r.Rank != i+1 {
			t.Errorf("rank[%d] = %d, esperaba %d", i, r.Rank, i+1)
		}
	}
}

func TestRecommendByTitleNoIncluyeConsultada(t *testing.T) {
	movies := catalogoABC()
	cm := BuildContentModel(movies)

	recs, err := cm.RecommendByTitle("A (2000)", movies, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if r.Title == "A (2000)" {
			t.Errorf("la película consultada apareció en su propio resultado")
		}
	}
	// pedí 10 pero solo hay otras 2: min(N, M-1)
	if len(recs) != 2 {
		t.Errorf("len = %d, esperaba 2", len(recs))
	}
}

func TestRecommendByTitleCatalogoDeUna(t *testing.T) {
	movies := []models.MovieDoc{{MovieID: 1, Title: "Sola (1999)", Genres: []string{"Drama"}}}
	cm := BuildContentModel(movies)

	recs, err := cm.RecommendByTitle("Sola (1999)", movies, 5)
	if err != nil {
		t.Fatalf("catálogo de una película no es error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("len = %d, esperaba 0", len(recs))
	}
}

func TestRecommendByTitleNotFound(t *testing.T) {
	movies := catalogoABC()
	cm := BuildContentModel(movies)

	_, err := cm.RecommendByTitle("No Existe (1900)", movies, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("esperaba ErrNotFound, vino %v", err)
	}
}

func TestRecommendByTitleTopNInvalido(t *testing.T) {
	movies := catalogoABC()
	cm := BuildContentModel(movies)

	for _, n := range []int{0, -3} {
		_, err := cm.RecommendByTitle("A (2000)", movies, n)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("topN=%d: esperaba ErrInvalidArgument, vino %v", n, err)
		}
	}
}

func TestTitulosDuplicadosGanaElUltimo(t *testing.T) {
	movies := []models.MovieDoc{
		{MovieID: 1, Title: "Repetida (2010)", Genres: []string{"Action"}},
		{MovieID: 2, Title: "Otra (2011)", Genres: []string{"Comedy"}},
		{MovieID: 3, Title: "Repetida (2010)", Genres: []string{"Horror"}},
	}
	cm := BuildContentModel(movies)

	// el mapa título->índice colapsa duplicados al último visto
	if idx := cm.TitleIdx["Repetida (2010)"]; idx != 2 {
		t.Fatalf("TitleIdx apunta a %d, esperaba 2 (último visto)", idx)
	}

	// y la consulta resuelve contra ese índice: movieId 1 sí puede salir
	// como recomendación porque solo quedó sombreado en el lookup
	recs, err := cm.RecommendByTitle("Repetida (2010)", movies, 2)
	if err != nil {
		t.Fatal(err)
	}
	ids := []int{recs[0].MovieID, recs[1].MovieID}
	for _, id := range ids {
		if id == 3 {
			t.Errorf("la fila consultada (movieId 3) apareció en el resultado")
		}
	}
}

func TestEmpatesPorOrdenDeCatalogo(t *testing.T) {
	// B y C empatan en similitud con A; el orden del catálogo desempata
	movies := []models.MovieDoc{
		{MovieID: 1, Title: "A (2000)", Genres: []string{"Action"}},
		{MovieID: 2, Title: "B (2001)", Genres: []string{"Action"}},
		{MovieID: 3, Title: "C (2002)", Genres: []string{"Action"}},
	}
	cm := BuildContentModel(movies)

	recs, err := cm.RecommendByTitle("A (2000)", movies, 2)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].MovieID != 2 || recs[1].MovieID != 3 {
		t.Errorf("empates fuera de orden: %v", recs)
	}
}
