package recommender

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"cinerec/internal/models"
)

// fixture chico: 3 usuarios, 2 ítems
func ratingsBase() []models.RatingDoc {
	return []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 2},
		{UserID: 3, MovieID: 10, Rating: 1},
	}
}

func peliculas() []models.MovieDoc {
	return []models.MovieDoc{
		{MovieID: 10, Title: "Diez (1990)", Genres: []string{"Drama"}},
		{MovieID: 20, Title: "Veinte (1991)", Genres: []string{"Comedy"}},
		{MovieID: 30, Title: "Treinta (1992)", Genres: []string{"Action"}},
	}
}

func TestBuildCFBundleIndicesDeterministicos(t *testing.T) {
	b := BuildCFBundle(ratingsBase())

	// ids ordenados ascendente definen los índices: fila 0 = userId más chico
	if !reflect.DeepEqual(b.UserIDs, []int{1, 2, 3}) {
		t.Errorf("UserIDs = %v", b.UserIDs)
	}
	if !reflect.DeepEqual(b.ItemIDs, []int{10, 20}) {
		t.Errorf("ItemIDs = %v", b.ItemIDs)
	}
	if b.UserIdx[1] != 0 || b.ItemIdx[10] != 0 {
		t.Errorf("fila/columna 0 no corresponde al id más chico: %v %v", b.UserIdx, b.ItemIdx)
	}
}

func TestBuildCFBundleReproducible(t *testing.T) {
	a := BuildCFBundle(ratingsBase())
	b := BuildCFBundle(ratingsBase())

	if !reflect.DeepEqual(a.UserIdx, b.UserIdx) || !reflect.DeepEqual(a.ItemIdx, b.ItemIdx) {
		t.Errorf("mapeos distintos entre builds")
	}
	if !reflect.DeepEqual(a.Raw, b.Raw) || !reflect.DeepEqual(a.Centered, b.Centered) {
		t.Errorf("matrices distintas entre builds")
	}
	if !reflect.DeepEqual(a.UserMeans, b.UserMeans) {
		t.Errorf("medias distintas entre builds")
	}
}

func TestMediasYCentrado(t *testing.T) {
	b := BuildCFBundle(ratingsBase())

	// usuario 1: media (5+3)/2 = 4.0, fila centrada [+1, -1]
	if b.UserMeans[0] != 4.0 {
		t.Errorf("media usuario 1 = %f, esperaba 4.0", b.UserMeans[0])
	}
	cols, vals := b.Centered.Row(0)
	if !reflect.DeepEqual(cols, []int{0, 1}) {
		t.Fatalf("columnas fila 0 = %v", cols)
	}
	if vals[0] != 1.0 || vals[1] != -1.0 {
		t.Errorf("fila centrada usuario 1 = %v, esperaba [+1 -1]", vals)
	}

	// el centrado no materializa entradas ausentes: usuario 3 solo tiene
	// una entrada presente
	cols3, vals3 := b.Centered.Row(2)
	if len(cols3) != 1 || len(vals3) != 1 {
		t.Errorf("el centrado materializó entradas ausentes: %v %v", cols3, vals3)
	}
	if vals3[0] != 0 { // 1 - media(1.0)
		t.Errorf("centrado usuario 3 = %f, esperaba 0", vals3[0])
	}
	if b.Raw.NNZ() != 5 || b.Centered.NNZ() != 5 {
		t.Errorf("nnz cambió al centrar: raw=%d centered=%d", b.Raw.NNZ(), b.Centered.NNZ())
	}
}

func TestBuildCFBundleSinRatings(t *testing.T) {
	b := BuildCFBundle(nil)
	if b.Raw.Rows != 0 || b.Raw.Cols != 0 || len(b.UserMeans) != 0 {
		t.Errorf("bundle vacío con dimensiones raras: %+v", b)
	}
}

func TestDuplicadoGanaElUltimoEvento(t *testing.T) {
	rs := append(ratingsBase(), models.RatingDoc{UserID: 3, MovieID: 10, Rating: 2.5})
	b := BuildCFBundle(rs)
	v, ok := b.Raw.Get(b.UserIdx[3], b.ItemIdx[10])
	if !ok || v != 2.5 {
		t.Errorf("rating duplicado: vino (%f,%v), esperaba el último (2.5)", v, ok)
	}
}

func TestRecommendForUserNotFound(t *testing.T) {
	b := BuildCFBundle(ratingsBase())
	_, err := RecommendForUser(999, b, peliculas(), ratingsBase(), 5, 2, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("esperaba ErrNotFound, vino %v", err)
	}
}

func TestRecommendForUserArgumentosInvalidos(t *testing.T) {
	b := BuildCFBundle(ratingsBase())
	if _, err := RecommendForUser(1, b, peliculas(), ratingsBase(), 0, 2, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("topN=0: esperaba ErrInvalidArgument, vino %v", err)
	}
	if _, err := RecommendForUser(1, b, peliculas(), ratingsBase(), 5, -1, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("k=-1: esperaba ErrInvalidArgument, vino %v", err)
	}
}

func TestNoRecomiendaLoYaCalificado(t *testing.T) {
	rs := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 1, MovieID: 30, Rating: 4},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 2},
		{UserID: 3, MovieID: 10, Rating: 5},
		{UserID: 3, MovieID: 20, Rating: 3},
	}
	b := BuildCFBundle(rs)

	res, err := RecommendForUser(2, b, peliculas(), rs, 10, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range res.Items {
		if it.MovieID == 10 || it.MovieID == 20 {
			t.Errorf("recomendó una película ya calificada: %d", it.MovieID)
		}
	}
}

func TestPrediccionPonderada(t *testing.T) {
	rs := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 1, MovieID: 30, Rating: 4},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 2},
		{UserID: 2, MovieID: 30, Rating: 5},
		{UserID: 3, MovieID: 10, Rating: 5},
		{UserID: 3, MovieID: 20, Rating: 3},
	}
	b := BuildCFBundle(rs)

	res, err := RecommendForUser(3, b, peliculas(), rs, 5, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Fallback {
		t.Fatal("no debía caer al fallback")
	}
	if len(res.Items) != 1 || res.Items[0].MovieID != 30 {
		t.Fatalf("esperaba solo el ítem 30, vino %+v", res.Items)
	}
	if res.Items[0].NumRatings != nil {
		t.Errorf("la forma primaria no lleva num_ratings")
	}

	// r̂ = mean(3) + [sim1·(4-mean1) + sim2·(5-mean2)] / (|sim1|+|sim2|+eps)
	mean1, mean2, mean3 := 4.0, 11.0/3.0, 4.0
	// sims calculados a mano sobre las filas centradas: la de los usuarios
	// 1 y 3 son colineales en los ítems 10 y 20
	sim1 := 1.0
	sim2 := 3 / math.Sqrt(21)
	want := mean3 + (sim1*(4-mean1)+sim2*(5-mean2))/(math.Abs(sim1)+math.Abs(sim2)+denomEps)
	if got := res.Items[0].PredictedRating; math.Abs(got-want) > 1e-9 {
		t.Errorf("predicción = %f, esperaba %f", got, want)
	}
}

func TestSimilitudesCeroNoProducenNaN(t *testing.T) {
	// el usuario 3 queda con fila centrada de norma cero: todas sus
	// similitudes son 0 y el denominador solo sobrevive por el epsilon
	rs := ratingsBase()
	b := BuildCFBundle(rs)

	res, err := RecommendForUser(3, b, peliculas(), rs, 5, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Fallback {
		t.Fatal("hay candidatos (ítem 20), no debía caer al fallback")
	}
	if len(res.Items) != 1 || res.Items[0].MovieID != 20 {
		t.Fatalf("esperaba el ítem 20, vino %+v", res.Items)
	}
	got := res.Items[0].PredictedRating
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("predicción indefinida: %f", got)
	}
	// num = 0 => la predicción colapsa a la media del usuario
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("predicción = %f, esperaba 1.0 (media del usuario)", got)
	}
}

func TestFallbackPorPopularidad(t *testing.T) {
	// los tres usuarios calificaron exactamente los mismos ítems: ningún
	// vecino aporta candidatos y la salida cambia de forma
	rs := []models.RatingDoc{
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 3},
		{UserID: 2, MovieID: 10, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 4},
		{UserID: 3, MovieID: 10, Rating: 3},
		{UserID: 3, MovieID: 20, Rating: 5},
	}
	b := BuildCFBundle(rs)

	res, err := RecommendForUser(1, b, peliculas(), rs, 5, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fallback {
		t.Fatal("esperaba la forma de fallback")
	}
	if len(res.Items) != 2 {
		t.Fatalf("len = %d, esperaba 2", len(res.Items))
	}
	for _, it := range res.Items {
		if it.NumRatings == nil {
			t.Errorf("fallback sin num_ratings: %+v", it)
		} else if *it.NumRatings != 3 {
			t.Errorf("num_ratings = %d, esperaba 3", *it.NumRatings)
		}
	}
	// item 10: media 4.0; item 20: media 4.0; empate en media y count,
	// desempata movieId ascendente
	if res.Items[0].MovieID != 10 || res.Items[1].MovieID != 20 {
		t.Errorf("orden del fallback: %+v", res.Items)
	}

	// con umbral más alto que el count, el fallback queda vacío:
	// resultado vacío válido, no error
	res2, err := RecommendForUser(1, b, peliculas(), rs, 5, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !res2.Fallback || len(res2.Items) != 0 {
		t.Errorf("esperaba fallback vacío, vino %+v", res2)
	}
}

func TestFallbackOrdenaPorMediaYCount(t *testing.T) {
	rs := []models.RatingDoc{
		// ítem 10: media 5.0, count 2; ítem 20: media 4.0, count 3
		{UserID: 1, MovieID: 10, Rating: 5},
		{UserID: 2, MovieID: 10, Rating: 5},
		{UserID: 1, MovieID: 20, Rating: 4},
		{UserID: 2, MovieID: 20, Rating: 4},
		{UserID: 3, MovieID: 20, Rating: 4},
	}
	byID := moviesByID(peliculas())
	res := popularityFallback(rs, byID, 5, 2)
	if len(res.Items) != 2 || res.Items[0].MovieID != 10 || res.Items[1].MovieID != 20 {
		t.Errorf("orden: %+v", res.Items)
	}
	if res.Items[0].PredictedRating != 5.0 {
		t.Errorf("el fallback reporta la media cruda como predicted_rating")
	}
}
