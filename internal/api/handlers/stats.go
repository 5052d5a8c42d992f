package handlers

import (
	"net/http"
	"strconv"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	variant := domain.Variant(r.URL.Query().Get("variant"))
	if variant == "" {
		writeBadRequest(w, "variant is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "Invalid limit")
			return
		}
		limit = n
	}

	rows, err := h.statsService.Leaderboard(r.Context(), variant, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []*domain.PlayerTotals{}
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *StatsHandler) Player(w http.ResponseWriter, r *http.Request) {
	playerID := domain.PlayerID(chi.URLParam(r, "id"))

	rows, err := h.statsService.Profile(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []*domain.PlayerTotals{}
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *StatsHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "Invalid session ID")
		return
	}

	record, err := h.statsService.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}
