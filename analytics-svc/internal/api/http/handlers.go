package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bakery-preorder/analytics-svc/internal/domain"
	"bakery-preorder/analytics-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Analytics service.AnalyticsInterface
}

func NewHandler(svc service.AnalyticsInterface) *Handler {
	return &Handler{Analytics: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "analytics-svc"})
	}).Methods("GET")
	r.HandleFunc("/api/analytics/popular-today", h.getPopularToday).Methods("GET")
	r.HandleFunc("/api/analytics/popular", h.getPopularAllTime).Methods("GET")
	r.HandleFunc("/api/analytics/summary", h.getSummary).Methods("GET")
	r.HandleFunc("/api/analytics/items/{id}", h.getItemStats).Methods("GET")
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return service.DefaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > service.MaxLimit {
		return 0, false
	}
	return limit, true
}

func (h *Handler) getPopularToday(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		http.Error(w, "limit must be between 1 and 50", http.StatusBadRequest)
		return
	}
	data, err := h.Analytics.PopularToday(r.Context(), limit)
	if err != nil {
		log.Printf("[analytics-svc] popular today: %v", err)
		writeJSON(w, http.StatusOK, []domain.ItemPopularity{})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getPopularAllTime(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		http.Error(w, "limit must be between 1 and 50", http.StatusBadRequest)
		return
	}
	data, err := h.Analytics.PopularAllTime(r.Context(), limit)
	if err != nil {
		log.Printf("[analytics-svc] popular all time: %v", err)
		writeJSON(w, http.StatusOK, []domain.ItemPopularity{})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Analytics.Summary(r.Context())
	if err != nil {
		log.Printf("[analytics-svc] summary: %v", err)
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getItemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.ItemStats(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "Item stats not found", http.StatusNotFound)
	case err != nil:
		log.Printf("[analytics-svc] item stats: %v", err)
		http.Error(w, "Failed to load item stats", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, stats)
	}
}
