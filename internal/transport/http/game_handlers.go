package http

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"mathquest/internal/domain"
	"mathquest/internal/game"
)

type startGameRequest struct {
	UserID string `json:"userId"`
}

// gameAction carries the input of any variant; each game reads only its own field.
type gameAction struct {
	Index  *int    `json:"index,omitempty"`
	Value  *bool   `json:"value,omitempty"`
	Answer *string `json:"answer,omitempty"`
}

type gameView struct {
	ID      string       `json:"id"`
	Variant game.Variant `json:"variant"`
	UserID  string       `json:"userId"`
	State   any          `json:"state"`
}

type actionResponse struct {
	Result any      `json:"result"`
	Game   gameView `json:"game"`
}

var errMissingInput = errors.New("missing action input for this game")

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	variant, err := game.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	var req startGameRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "userId is required")
		return
	}

	session, err := s.newGame(variant, req.UserID)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "cannot_start", err.Error())
		return
	}
	id := s.deps.NewID()
	s.deps.Games.Put(id, session)
	s.log.Info("game started", "id", id, "variant", variant, "user", req.UserID)
	respondJSON(w, http.StatusCreated, viewOf(id, session))
}

func (s *Server) newGame(variant game.Variant, userID string) (game.Session, error) {
	cfg := game.Config{
		UserID:   userID,
		Recorder: s.deps.Progress,
		Rewards:  s.deps.Rewards,
		Logger:   s.log.With("variant", string(variant), "user", userID),
	}
	ctx := s.deps.BaseContext
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	switch variant {
	case game.VariantMatching:
		return game.NewMatching(ctx, cfg, s.deps.Content.Properties(), rnd)
	case game.VariantTrueFalse:
		return game.NewTrueFalse(ctx, cfg, game.DefaultStatements())
	case game.VariantAdventure:
		return game.NewAdventure(ctx, cfg, game.DefaultLevels())
	case game.VariantTimed:
		return game.NewTimed(ctx, cfg, game.TimedQuestionsFromProperties(s.deps.Content.Properties(), rnd))
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := s.deps.Games.Get(id)
	if !ok {
		s.respondErr(w, r, domain.ErrGameNotFound)
		return
	}
	view := viewOf(id, session)
	// A finished game is reported once more and then forgotten.
	s.deps.Games.DeleteIfDone(id)
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.deps.Games.Get(id); !ok {
		s.respondErr(w, r, domain.ErrGameNotFound)
		return
	}
	s.deps.Games.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGameAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, ok := s.deps.Games.Get(id)
	if !ok {
		s.respondErr(w, r, domain.ErrGameNotFound)
		return
	}
	var action gameAction
	if err := decodeBody(r, &action); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	result, err := applyAction(session, action)
	if errors.Is(err, errMissingInput) {
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, actionResponse{Result: result, Game: viewOf(id, session)})
}

func applyAction(session game.Session, action gameAction) (any, error) {
	switch g := session.(type) {
	case *game.Matching:
		if action.Index == nil {
			return nil, errMissingInput
		}
		return g.Select(*action.Index)
	case *game.TrueFalse:
		if action.Value == nil {
			return nil, errMissingInput
		}
		return g.Answer(*action.Value)
	case *game.Adventure:
		if action.Answer == nil {
			return nil, errMissingInput
		}
		return g.Submit(*action.Answer)
	case *game.Timed:
		if action.Answer == nil {
			return nil, errMissingInput
		}
		correct, err := g.Answer(*action.Answer)
		return map[string]bool{"correct": correct}, err
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnknownVariant, session)
	}
}

func viewOf(id string, session game.Session) gameView {
	view := gameView{ID: id, Variant: session.Variant(), UserID: session.UserID()}
	switch g := session.(type) {
	case *game.Matching:
		view.State = g.State()
	case *game.TrueFalse:
		view.State = g.State()
	case *game.Adventure:
		view.State = g.State()
	case *game.Timed:
		view.State = g.State()
	}
	return view
}
