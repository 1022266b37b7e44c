package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"mathquest/internal/app"
	"mathquest/internal/game"
	"mathquest/internal/quiz"
)

// Registry holds live sessions by id. memory.SessionStore and redis.SessionStore satisfy it.
type Registry[T any] interface {
	Put(id string, session T)
	Get(id string) (T, bool)
	Delete(id string)
	DeleteIfDone(id string) bool
}

// Deps are the collaborators behind the HTTP API.
type Deps struct {
	Content  *app.ContentStore
	Progress *app.ProgressStore
	Games    Registry[game.Session]
	Attempts Registry[*quiz.Session]
	Quizzes  quiz.Source
	Scorer   quiz.Scorer
	Rewards  game.Rewards
	Logger   *slog.Logger
	// BaseContext bounds every game session; cancelling it closes them all.
	BaseContext context.Context
	NewID       func() string
}

type Server struct {
	deps     Deps
	log      *slog.Logger
	router   *chi.Mux
	wsStream *WSHandler
}

func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.BaseContext == nil {
		deps.BaseContext = context.Background()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	s := &Server{
		deps:     deps,
		log:      deps.Logger,
		wsStream: NewWSHandler(deps.Progress, deps.Logger),
	}
	s.setupRouter()
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws/leaderboard", s.wsStream.ServeWS)

	r.Route("/content/{kind}", func(r chi.Router) {
		r.Get("/", s.handleListContent)
		r.Post("/", s.handleCreateContent)
		r.Get("/{id}", s.handleGetContent)
		r.Patch("/{id}", s.handleUpdateContent)
		r.Delete("/{id}", s.handleDeleteContent)
	})

	r.Route("/progress/{user}", func(r chi.Router) {
		r.Get("/", s.handleGetProgress)
		r.Post("/points", s.handleAddPoints)
		r.Post("/badges", s.handleAwardBadge)
		r.Post("/completions", s.handleComplete)
	})
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Get("/badges", s.handleBadges)

	r.Route("/games", func(r chi.Router) {
		r.Post("/{variant}", s.handleStartGame)
		r.Get("/{id}", s.handleGetGame)
		r.Delete("/{id}", s.handleDeleteGame)
		r.Post("/{id}/actions", s.handleGameAction)
	})

	r.Route("/quizzes/{quizID}/attempts", func(r chi.Router) {
		r.Post("/", s.handleStartAttempt)
	})
	r.Route("/attempts/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetAttempt)
		r.Delete("/", s.handleDeleteAttempt)
		r.Put("/answers/{question}", s.handleSelectAnswer)
		r.Post("/submit", s.handleSubmitAttempt)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
