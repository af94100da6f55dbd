package models

import "time"

// ContentRec es una fila del resultado content-based (similitud por géneros).
type ContentRec struct {
	Rank    int      `json:"rank"`
	MovieID int      `json:"movieId"`
	Title   string   `json:"title"`
	Genres  []string `json:"genres"`
}

// CFRec es una fila del resultado colaborativo. NumRatings solo viene
// cuando la respuesta salió del fallback por popularidad: es lo que
// distingue las dos formas de salida.
type CFRec struct {
	Rank            int      `json:"rank"`
	MovieID         int      `json:"movieId"`
	Title           string   `json:"title"`
	Genres          []string `json:"genres"`
	PredictedRating float64  `json:"predicted_rating"`
	NumRatings      *int64   `json:"num_ratings,omitempty"`
}

// CFResult envuelve las recomendaciones CF e indica si se usó el fallback.
type CFResult struct {
	Fallback bool    `json:"fallback"`
	Items    []CFRec `json:"items"`
}

// Recommendation es el historial que guardamos en Mongo por cada
// recomendación CF servida.
type Recommendation struct {
	ID               string    `bson:"_id,omitempty"    json:"id"`
	UserID           int       `bson:"userId"           json:"userId"`
	Algo             string    `bson:"algo"             json:"algo"`
	SimilarityMetric string    `bson:"similarityMetric" json:"similarityMetric"`
	Params           any       `bson:"params"           json:"params"`
	Fallback         bool      `bson:"fallback"         json:"fallback"`
	Items            []CFRec   `bson:"items"            json:"items"`
	CreatedAt        time.Time `bson:"createdAt"        json:"createdAt"`
}

// ModelSummary es la respuesta de /admin/models/summary.
type ModelSummary struct {
	Movies       int    `json:"movies"`
	Users        int    `json:"users"`
	Items        int    `json:"items"`
	Ratings      int    `json:"ratings"`
	Genres       int    `json:"genres"`
	BuiltAt      string `json:"builtAt,omitempty"`
	ContentReady bool   `json:"contentReady"`
	CFReady      bool   `json:"cfReady"`
}
