package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/dom/draft-queue/internal/service"
)

// ErrorResponse is the body of every rejected session or stats request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [handlers.writeJSON] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("ERROR [handlers.writeError] %v", err)
		message = "Internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "BAD_REQUEST", Message: message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, service.ErrRecordNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden, "NOT_ADMIN"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	}

	code := domain.ReasonCode(err)
	switch {
	case errors.Is(err, domain.ErrWrongAudience), errors.Is(err, domain.ErrNotCaptain):
		return http.StatusForbidden, code
	case errors.Is(err, domain.ErrUnknownVariant),
		errors.Is(err, domain.ErrUnknownCommand),
		errors.Is(err, domain.ErrInvalidDelta),
		errors.Is(err, domain.ErrNoSuchTeam):
		return http.StatusBadRequest, code
	case code == "INTERNAL", code == "INVALID_CONFIG", code == "CLOCK_UNAVAILABLE", code == "RAND_UNAVAILABLE":
		return http.StatusInternalServerError, code
	default:
		return http.StatusConflict, code
	}
}
