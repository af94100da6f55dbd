package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinerec/internal/recommender"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mapea la taxonomía del motor a códigos HTTP: NotFound -> 404,
// InvalidArgument -> 400, el resto 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, recommender.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, recommender.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
