// Package game implements the mini-game sessions. Sessions are short-lived, never
// persisted, and report their outcome to a Recorder exactly once when they finish.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mathquest/internal/domain"
)

// Variant names a mini-game.
type Variant string

const (
	VariantMatching  Variant = "matching"
	VariantTrueFalse Variant = "truefalse"
	VariantAdventure Variant = "adventure"
	VariantTimed     Variant = "timed"
)

// ParseVariant validates a variant name.
func ParseVariant(raw string) (Variant, error) {
	switch v := Variant(raw); v {
	case VariantMatching, VariantTrueFalse, VariantAdventure, VariantTimed:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownVariant, raw)
	}
}

// Recorder receives the terminal outcome of a session. *app.ProgressStore satisfies it.
type Recorder interface {
	AddPoints(ctx context.Context, userID string, delta int) error
	AwardBadge(ctx context.Context, userID string, badgeID domain.BadgeID) (bool, error)
}

// Session is the behaviour shared by every mini-game.
type Session interface {
	Variant() Variant
	UserID() string
	Done() bool
	// Close abandons the session: pending timers are stopped and nothing is awarded.
	Close()
}

// Config holds the collaborators of a session.
type Config struct {
	UserID    string
	Recorder  Recorder
	Rewards   Rewards
	Scheduler Scheduler
	Now       func() time.Time
	Logger    *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Scheduler == nil {
		c.Scheduler = RealScheduler()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.Rewards = c.Rewards.withDefaults()
	return c
}

// Feedback is shown to the player after an answer.
type Feedback struct {
	Correct     bool   `json:"correct"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Complete    bool   `json:"complete"`
}

// award reports a finished session to the recorder. Both calls are attempted even if the
// first fails.
func award(ctx context.Context, cfg Config, variant Variant, points int, badge domain.BadgeID, withBadge bool) error {
	var errs []error
	if err := cfg.Recorder.AddPoints(ctx, cfg.UserID, points); err != nil {
		errs = append(errs, fmt.Errorf("add points: %w", err))
	}
	if withBadge {
		if _, err := cfg.Recorder.AwardBadge(ctx, cfg.UserID, badge); err != nil {
			errs = append(errs, fmt.Errorf("award badge: %w", err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		cfg.Logger.Error("record game outcome failed", "variant", variant, "user", cfg.UserID, "error", err)
		return err
	}
	cfg.Logger.Info("game completed", "variant", variant, "user", cfg.UserID, "points", points, "badge", withBadge)
	return nil
}
