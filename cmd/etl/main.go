package main

import (
	"context"
	"flag"
	"log"
	"time"

	"cinerec/internal/config"
	"cinerec/internal/dataset"
	"cinerec/internal/db"
	"cinerec/internal/models"
	"cinerec/internal/repository"
)

// ETL del dataset MovieLens: carga movies.csv y ratings.csv, calcula las
// estadísticas por película y las deja en Mongo listas para el API.
func main() {
	moviesPath := flag.String("movies", "data/movies.csv", "ruta a movies.csv")
	ratingsPath := flag.String("ratings", "data/ratings.csv", "ruta a ratings.csv")
	skipRatings := flag.Bool("skip-ratings", false, "importa solo el catálogo de películas")
	flag.Parse()

	cfg := config.Load()
	db.InitMongo(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	movies, err := dataset.LoadMovies(*moviesPath)
	if err != nil {
		log.Fatalf("[etl] no se pudo leer %s: %v", *moviesPath, err)
	}
	log.Printf("[etl] %d películas leídas de %s", len(movies), *moviesPath)

	var ratings []models.RatingDoc
	if !*skipRatings {
		ratings, err = dataset.LoadRatings(*ratingsPath)
		if err != nil {
			log.Fatalf("[etl] no se pudo leer %s: %v", *ratingsPath, err)
		}
		log.Printf("[etl] %d ratings leídos de %s", len(ratings), *ratingsPath)
		attachStats(movies, ratings)
	}

	movieRepo := repository.NewMovieRepository()
	if err := movieRepo.BulkUpsert(ctx, movies); err != nil {
		log.Fatalf("[etl] error importando películas: %v", err)
	}
	log.Printf("[etl] catálogo importado (%d docs)", len(movies))

	if !*skipRatings {
		ratingRepo := repository.NewRatingRepository()
		if err := ratingRepo.BulkInsert(ctx, ratings); err != nil {
			log.Fatalf("[etl] error importando ratings: %v", err)
		}
		log.Printf("[etl] ratings importados (%d docs)", len(ratings))
	}

	log.Println("[etl] listo")
}

// attachStats recalcula RatingStats desde cero sobre el dataset completo;
// los upserts incrementales del API parten de estos valores.
func attachStats(movies []models.MovieDoc, ratings []models.RatingDoc) {
	type acc struct {
		sum    float64
		count  int64
		lastTS int64
	}
	byMovie := make(map[int]*acc)
	for _, rt := range ratings {
		a := byMovie[rt.MovieID]
		if a == nil {
			a = &acc{}
			byMovie[rt.MovieID] = a
		}
		a.sum += rt.Rating
		a.count++
		if rt.Timestamp > a.lastTS {
			a.lastTS = rt.Timestamp
		}
	}
	for i := range movies {
		a := byMovie[movies[i].MovieID]
		if a == nil || a.count == 0 {
			continue
		}
		movies[i].RatingStats = &models.RatingStats{
			Average:     a.sum / float64(a.count),
			Count:       a.count,
			LastRatedAt: time.Unix(a.lastTS, 0).UTC().Format(time.RFC3339),
		}
	}
}
