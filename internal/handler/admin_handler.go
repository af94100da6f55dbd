package handler

import (
	"net/http"

	"cinerec/internal/service"

	"github.com/go-chi/chi/v5"
)

// AdminHandler expone el mantenimiento de modelos: rebuild explícito y
// resumen de los artefactos vigentes.
type AdminHandler struct {
	recSvc   *service.RecommendService
	modelSvc *service.ModelService
}

func NewAdminHandler(rec *service.RecommendService, models *service.ModelService) *AdminHandler {
	return &AdminHandler{recSvc: rec, modelSvc: models}
}

// MountAdminRoutes monta las rutas de mantenimiento bajo /admin/models.
func MountAdminRoutes(r chi.Router, h *AdminHandler) {
	r.Route("/admin/models", func(r chi.Router) {
		r.Post("/rebuild", h.Rebuild)
		r.Get("/summary", h.Summary)
	})
}

// @Summary Reconstruir los modelos de recomendación
// @Tags admin
// @Produce json
// @Success 200 {object} models.ModelSummary
// @Security BearerAuth
// @Router /admin/models/rebuild [post]
func (h *AdminHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	summary, err := h.recSvc.RebuildModels(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// @Summary Resumen de los modelos vigentes
// @Tags admin
// @Produce json
// @Success 200 {object} models.ModelSummary
// @Security BearerAuth
// @Router /admin/models/summary [get]
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.modelSvc.Summary(r.Context()))
}
