package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"mathquest/internal/domain"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]apiError{"error": {Code: code, Message: message}})
}

// respondErr maps domain errors onto status codes. Anything unrecognised is a 500.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrGameNotFound), errors.Is(err, domain.ErrQuizNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrBadgeNotFound):
		status, code = http.StatusNotFound, "badge_not_found"
	case errors.Is(err, domain.ErrUnknownVariant):
		status, code = http.StatusNotFound, "unknown_variant"
	case errors.Is(err, domain.ErrNegativeDelta), errors.Is(err, domain.ErrInvalidSelection):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrPointsOverflow):
		status, code = http.StatusBadRequest, "points_overflow"
	case errors.Is(err, domain.ErrQuizIncomplete):
		status, code = http.StatusConflict, "incomplete"
	case errors.Is(err, domain.ErrAwaitingFeedback):
		status, code = http.StatusConflict, "awaiting_feedback"
	case errors.Is(err, domain.ErrSessionComplete), errors.Is(err, domain.ErrInvalidState):
		status, code = http.StatusConflict, "invalid_state"
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondError(w, status, code, err.Error())
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func pathInt(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
