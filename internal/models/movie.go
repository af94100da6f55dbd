package models

// RatingStats se mantiene incrementalmente al upsertear ratings y lo
// recalcula el ETL al importar el dataset completo.
type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int64   `json:"count" bson:"count"`
	LastRatedAt string  `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

// MovieDoc es el documento de la colección movies (catálogo MovieLens).
// Genres ya viene parseado: el string crudo "A|B|C" se separa al importar,
// y "(no genres listed)" queda como lista vacía.
type MovieDoc struct {
	MovieID     int          `json:"movieId" bson:"movieId"`
	Title       string       `json:"title" bson:"title"`
	Year        *int         `json:"year,omitempty" bson:"year,omitempty"`
	Genres      []string     `json:"genres" bson:"genres"`
	RatingStats *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
