package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dom/draft-queue/internal/api/middleware"
	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SessionHandler struct {
	draftService *service.DraftService
}

func NewSessionHandler(draftService *service.DraftService) *SessionHandler {
	return &SessionHandler{draftService: draftService}
}

type CreateSessionRequest struct {
	Variant domain.Variant `json:"variant"`
}

// CommandRequest carries the optional arguments of a session command.
type CommandRequest struct {
	// Name overrides the display name used in the roster.
	Name     string          `json:"name,omitempty"`
	PlayerID domain.PlayerID `json:"playerId,omitempty"`
	Delta    int             `json:"delta,omitempty"`
}

type CommandResponse struct {
	Session domain.Summary `json:"session"`
	Ping    string         `json:"ping,omitempty"`
	Warning string         `json:"warning,omitempty"`
	Ended   bool           `json:"ended,omitempty"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Variant == "" {
		writeBadRequest(w, "Variant is required")
		return
	}

	summary, err := h.draftService.Create(r.Context(), caller, req.Variant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	variant := domain.Variant(r.URL.Query().Get("variant"))
	if variant != "" {
		if _, err := domain.LookupGameConfig(variant); err != nil {
			writeError(w, err)
			return
		}
	}

	summaries, err := h.draftService.List(r.Context(), variant)
	if err != nil {
		writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []domain.Summary{}
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "Invalid session ID")
		return
	}

	summary, err := h.draftService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Command returns a handler that dispatches kind against the session in the URL.
func (h *SessionHandler) Command(kind domain.CommandKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.GetCaller(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeBadRequest(w, "Invalid session ID")
			return
		}

		var req CommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeBadRequest(w, "Invalid request body")
			return
		}

		cmd := domain.Command{
			Kind:     kind,
			Name:     req.Name,
			TargetID: req.PlayerID,
			Delta:    req.Delta,
		}

		if teamParam := chi.URLParam(r, "team"); teamParam != "" {
			team, err := strconv.Atoi(teamParam)
			if err != nil {
				writeBadRequest(w, "Invalid team index")
				return
			}
			cmd.Team = team
		}

		switch kind {
		case domain.CmdAddToTeam, domain.CmdForceSub:
			if req.PlayerID == "" {
				writeBadRequest(w, "playerId is required")
				return
			}
		case domain.CmdAdjustScore:
			if req.Delta == 0 {
				writeBadRequest(w, "delta is required")
				return
			}
		}

		out, err := h.draftService.Dispatch(r.Context(), id, caller, cmd)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CommandResponse{
			Session: out.Summary,
			Ping:    out.Ping,
			Warning: out.Warning,
			Ended:   out.End != nil,
		})
	}
}
