package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"mathquest/internal/domain"
	"mathquest/internal/quiz"
)

type startAttemptRequest struct {
	StudentID string `json:"studentId"`
}

type selectRequest struct {
	Option *int `json:"option"`
}

type attemptView struct {
	ID string `json:"id"`
	quiz.Snapshot
}

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	var req startAttemptRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.StudentID == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "studentId is required")
		return
	}

	session, err := quiz.New(r.Context(), s.deps.Quizzes, s.deps.Scorer, quizID, req.StudentID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			s.respondErr(w, r, err)
			return
		}
		s.log.Warn("quiz fetch failed", "quiz", quizID, "error", err)
		respondError(w, http.StatusBadGateway, "upstream", err.Error())
		return
	}
	id := s.deps.NewID()
	s.deps.Attempts.Put(id, session)
	respondJSON(w, http.StatusCreated, attemptView{ID: id, Snapshot: session.Snapshot()})
}

func (s *Server) attempt(w http.ResponseWriter, r *http.Request) (string, *quiz.Session, bool) {
	id := chi.URLParam(r, "id")
	session, ok := s.deps.Attempts.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "no such attempt")
		return id, nil, false
	}
	return id, session, true
}

func (s *Server) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.attempt(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, attemptView{ID: id, Snapshot: session.Snapshot()})
	s.deps.Attempts.DeleteIfDone(id)
}

func (s *Server) handleDeleteAttempt(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.attempt(w, r)
	if !ok {
		return
	}
	s.deps.Attempts.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.attempt(w, r)
	if !ok {
		return
	}
	question, ok := pathInt(chi.URLParam(r, "question"))
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_id", "question must be an integer")
		return
	}
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Option == nil {
		respondError(w, http.StatusBadRequest, "invalid_input", "option is required")
		return
	}
	if err := session.Select(question, *req.Option); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attemptView{ID: id, Snapshot: session.Snapshot()})
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	id, session, ok := s.attempt(w, r)
	if !ok {
		return
	}
	_, err := session.Submit(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrQuizIncomplete):
		s.respondErr(w, r, err)
		return
	case session.State() == quiz.StateError:
		s.log.Warn("quiz scoring failed", "attempt", id, "error", err)
		respondError(w, http.StatusBadGateway, "upstream", err.Error())
		return
	default:
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attemptView{ID: id, Snapshot: session.Snapshot()})
	// a scored attempt has been reported; an errored one stays readable until fetched
	s.deps.Attempts.DeleteIfDone(id)
}
