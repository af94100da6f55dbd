package handler

import (
	"net/http"
	"strconv"
	"time"

	"cinerec/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// @Summary Películas similares por géneros (content-based)
// @Tags recommend
// @Produce json
// @Param title query string true "título exacto del catálogo"
// @Param n query int false "cantidad (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.ContentRec
// @Router /recommendations/by-title [get]
func (h *RecommendHandler) GetByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		http.Error(w, "falta el parámetro title", http.StatusBadRequest)
		return
	}
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	refresh := r.URL.Query().Get("refresh") == "true"

	recs, err := h.svc.RecommendByTitle(r.Context(), service.TitleRecRequest{
		Title:   title,
		TopN:    n,
		Refresh: refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RecommendHandler) forUser(w http.ResponseWriter, r *http.Request, userID int) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	refresh := r.URL.Query().Get("refresh") == "true"

	res, err := h.svc.RecommendForUser(r.Context(), service.UserRecRequest{
		UserID:  userID,
		TopN:    n,
		K:       k,
		Refresh: refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Recomendaciones propias (colaborativa user-based)
// @Tags recommend
// @Produce json
// @Param n query int false "cantidad (máx 50)"
// @Param k query int false "vecinos (máx 200)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} models.CFResult
// @Security BearerAuth
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	h.forUser(w, r, UserIDFromContext(r.Context()))
}

// @Summary Recomendaciones de cualquier usuario (admin)
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "cantidad (máx 50)"
// @Param k query int false "vecinos (máx 200)"
// @Success 200 {object} models.CFResult
// @Security BearerAuth
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.forUser(w, r, userID)
}

// @Summary Historial de recomendaciones propias
// @Tags recommend
// @Produce json
// @Param limit query int false "cantidad"
// @Success 200 {array} models.Recommendation
// @Security BearerAuth
// @Router /me/recommendations/history [get]
func (h *RecommendHandler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	out, err := h.svc.History(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones por WebSocket con progreso
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param n query int false "cantidad (máx 50)"
// @Param k query int false "vecinos (máx 200)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "no se pudo abrir WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	refresh := r.URL.Query().Get("refresh") == "true"

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "conexión abierta, calculando recomendaciones…",
	})

	res, err := h.svc.RecommendForUser(r.Context(), service.UserRecRequest{
		UserID:  userID,
		TopN:    n,
		K:       k,
		Refresh: refresh,
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"fallback":    res.Fallback,
		"items":       res.Items,
		"generatedAt": time.Now(),
	})
}
