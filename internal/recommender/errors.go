package recommender

import "errors"

// Errores del motor. Los handlers los mapean a códigos HTTP con errors.Is.
var (
	// ErrNotFound: título no está en el catálogo o userId no tiene ratings.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument: topN o k no positivos.
	ErrInvalidArgument = errors.New("invalid argument")
)
