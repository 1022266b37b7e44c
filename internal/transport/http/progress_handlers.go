package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"mathquest/internal/domain"
)

type pointsRequest struct {
	Delta int `json:"delta"`
}

type badgeRequest struct {
	BadgeID domain.BadgeID `json:"badgeId"`
}

type completionRequest struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
}

type badgeResponse struct {
	Awarded  bool                `json:"awarded"`
	Progress domain.UserProgress `json:"progress"`
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Progress.GetUserProgress(chi.URLParam(r, "user")))
}

func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req pointsRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if err := s.deps.Progress.AddPoints(r.Context(), user, req.Delta); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.deps.Progress.GetUserProgress(user))
}

func (s *Server) handleAwardBadge(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req badgeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	awarded, err := s.deps.Progress.AwardBadge(r.Context(), user, req.BadgeID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, badgeResponse{Awarded: awarded, Progress: s.deps.Progress.GetUserProgress(user)})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req completionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	var err error
	switch domain.ParseKind(req.Kind) {
	case domain.KindPractice:
		err = s.deps.Progress.CompleteProblem(r.Context(), user, req.ID)
	case domain.KindChallenge:
		err = s.deps.Progress.CompleteChallenge(r.Context(), user, req.ID)
	default:
		respondError(w, http.StatusBadRequest, "invalid_kind", "kind must be practice or challenge")
		return
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.deps.Progress.GetUserProgress(user))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Progress.Leaderboard())
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.deps.Progress.Badges().All())
}
