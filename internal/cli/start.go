package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"mathquest/internal/app"
	"mathquest/internal/config"
	"mathquest/internal/domain"
	"mathquest/internal/game"
	"mathquest/internal/infra/memory"
	redisstore "mathquest/internal/infra/redis"
	"mathquest/internal/infra/remote"
	"mathquest/internal/quiz"
	transport "mathquest/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	opts, err := storeOptions(cfg)
	if err != nil {
		return err
	}
	content, err := app.NewContentStore(ctx, b.storage, opts)
	if err != nil {
		return err
	}
	progress, err := app.NewProgressStore(ctx, b.storage, opts)
	if err != nil {
		return err
	}

	source, scorer := quizBackends(cfg, b)
	sessionTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)
	if sessionTTL <= 0 {
		sessionTTL = 10 * time.Minute
	}

	deps := transport.Deps{
		Content:     content,
		Progress:    progress,
		Quizzes:     source,
		Scorer:      scorer,
		Rewards:     cfg.Games.Rewards(),
		Logger:      slog.Default(),
		BaseContext: ctx,
	}
	sweepEvery := sessionTTL / 2
	if b.redis != nil {
		games := redisstore.NewSessionStore[game.Session](b.redis, "mathquest:game:", sessionTTL)
		attempts := redisstore.NewSessionStore[*quiz.Session](b.redis, "mathquest:attempt:", sessionTTL)
		go games.Run(ctx, sweepEvery)
		go attempts.Run(ctx, sweepEvery)
		deps.Games, deps.Attempts = games, attempts
	} else {
		games := memory.NewSessionStore[game.Session](sessionTTL)
		attempts := memory.NewSessionStore[*quiz.Session](sessionTTL)
		go games.Run(ctx, sweepEvery)
		go attempts.Run(ctx, sweepEvery)
		deps.Games, deps.Attempts = games, attempts
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewServer(deps).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting mathquest", "port", finalPort, "storage", cfg.StorageBackend())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// quizBackends picks the remote quiz API when configured, otherwise the bundled sample
// quizzes, and puts a TTL cache in front of fetches.
func quizBackends(cfg config.Config, b *backends) (quiz.Source, quiz.Scorer) {
	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	var scorer quiz.Scorer = unavailableScorer{}
	if cfg.Quiz.APIURL != "" {
		client := remote.NewClient(cfg.Quiz.APIURL, config.Duration(cfg.Quiz.Timeout, 10*time.Second))
		loader, scorer = client, client
	}

	quizTTL := config.Duration(cfg.Quiz.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisstore.NewQuizRepository(b.redis, loader, quizTTL), scorer
	}
	return memory.NewQuizRepository(loader, quizTTL), scorer
}

type unavailableScorer struct{}

func (unavailableScorer) Score(context.Context, string, domain.Submission) (domain.QuizResult, error) {
	return domain.QuizResult{}, errScoringUnavailable
}

// sampleQuizzes lets the server run without a quiz API; attempts can be taken but not scored.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"properties-101": {
			ID:          "properties-101",
			Title:       "Properties of Operations",
			Description: "Name the property each equation shows.",
			Questions: []domain.Question{
				{Question: "3 + 5 = 5 + 3", Options: []string{"Associative", "Commutative", "Identity"}},
				{Question: "(2 × 3) × 4 = 2 × (3 × 4)", Options: []string{"Associative", "Distributive", "Inverse"}},
				{Question: "7 + 0 = 7", Options: []string{"Inverse", "Identity", "Commutative"}},
			},
		},
	}
}

