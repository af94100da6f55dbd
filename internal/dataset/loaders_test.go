package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMovies(t *testing.T) {
	csv := `movieId,title,genres
1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
2,"American President, The (1995)",Comedy|Drama|Romance
3,Sin Género (2001),(no genres listed)
`
	path := writeTemp(t, "movies.csv", csv)

	movies, err := LoadMovies(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 3 {
		t.Fatalf("len = %d, esperaba 3", len(movies))
	}

	ts := movies[0]
	if ts.MovieID != 1 || ts.Title != "Toy Story (1995)" {
		t.Errorf("fila 0: %+v", ts)
	}
	want := []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}
	if !reflect.DeepEqual(ts.Genres, want) {
		t.Errorf("genres = %v, esperaba %v", ts.Genres, want)
	}
	if ts.Year == nil || *ts.Year != 1995 {
		t.Errorf("year = %v, esperaba 1995", ts.Year)
	}

	// título con coma viene entrecomillado en el CSV
	if movies[1].Title != "American President, The (1995)" {
		t.Errorf("título con coma: %q", movies[1].Title)
	}

	// el sentinel de MovieLens queda como lista vacía
	if len(movies[2].Genres) != 0 {
		t.Errorf("sentinel: genres = %v, esperaba vacío", movies[2].Genres)
	}
}

func TestLoadRatings(t *testing.T) {
	csv := `userId,movieId,rating,timestamp
1,10,5.0,964982703
1,20,3.5,964981247
basura,x,y,z
2,10,4.0,964982224
`
	path := writeTemp(t, "ratings.csv", csv)

	ratings, err := LoadRatings(path)
	if err != nil {
		t.Fatal(err)
	}
	// la fila corrupta se saltea
	if len(ratings) != 3 {
		t.Fatalf("len = %d, esperaba 3", len(ratings))
	}
	if ratings[1].UserID != 1 || ratings[1].MovieID != 20 || ratings[1].Rating != 3.5 {
		t.Errorf("fila 1: %+v", ratings[1])
	}
	if ratings[0].Timestamp != 964982703 {
		t.Errorf("timestamp: %d", ratings[0].Timestamp)
	}
}

func TestLoadMoviesArchivoInexistente(t *testing.T) {
	if _, err := LoadMovies(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("esperaba error por archivo inexistente")
	}
}
