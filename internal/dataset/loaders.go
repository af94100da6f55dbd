package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cinerec/internal/models"
	"cinerec/internal/recommender"
)

// el año viene al final del título: "Toy Story (1995)"
var yearRe = regexp.MustCompile(`\((\d{4})\)\s*$`)

// LoadMovies carga movies.csv (movieId,title,genres) del dataset MovieLens.
// El campo genres se separa acá mismo: el resto del sistema ya trabaja con
// la lista parseada.
func LoadMovies(path string) ([]models.MovieDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	// skip header
	if _, err := r.Read(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	var out []models.MovieDoc
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < 3 {
			continue
		}

		movieID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		title := strings.TrimSpace(rec[1])

		m := models.MovieDoc{
			MovieID:   movieID,
			Title:     title,
			Genres:    recommender.ParseGenres(strings.TrimSpace(rec[2])),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if match := yearRe.FindStringSubmatch(title); match != nil {
			if y, err := strconv.Atoi(match[1]); err == nil {
				m.Year = &y
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadRatings carga ratings.csv (userId,movieId,rating,timestamp).
func LoadRatings(path string) ([]models.RatingDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	// skip header
	if _, err := r.Read(); err != nil {
		return nil, err
	}

	var out []models.RatingDoc
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < 3 {
			continue
		}

		userID, err1 := strconv.Atoi(strings.TrimSpace(rec[0]))
		movieID, err2 := strconv.Atoi(strings.TrimSpace(rec[1]))
		rating, err3 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}

		rd := models.RatingDoc{
			UserID:  userID,
			MovieID: movieID,
			Rating:  rating,
		}
		if len(rec) >= 4 {
			rd.Timestamp, _ = strconv.ParseInt(strings.TrimSpace(rec[3]), 10, 64)
		}
		out = append(out, rd)
	}
	return out, nil
}
