package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"mathquest/internal/domain"
)

// Level is one stage of the adventure.
type Level struct {
	Title    string `json:"title"`
	Story    string `json:"story"`
	Question string `json:"question"`
	Answer   string `json:"-"`
	Hint     string `json:"hint,omitempty"`
}

// AdventureState is a read-only view of an adventure session.
type AdventureState struct {
	Level    int    `json:"level"`
	Total    int    `json:"total"`
	Attempts int    `json:"attempts"`
	Current  *Level `json:"current,omitempty"`
	Awaiting bool   `json:"awaitingFeedback"`
	Complete bool   `json:"complete"`
}

// Adventure asks one free-text question per level. Wrong answers can be retried without
// limit; a right answer advances after the feedback delay.
type Adventure struct {
	ctx context.Context
	cfg Config

	mu       sync.Mutex
	levels   []Level
	level    int
	attempts int
	awaiting bool
	timer    Timer
	done     bool
	unbind   func() bool
}

// NewAdventure starts a session at the first level.
func NewAdventure(ctx context.Context, cfg Config, levels []Level) (*Adventure, error) {
	if len(levels) == 0 {
		return nil, errors.New("adventure needs at least one level")
	}
	a := &Adventure{
		ctx:    ctx,
		cfg:    cfg.withDefaults(),
		levels: append([]Level(nil), levels...),
	}
	a.mu.Lock()
	a.unbind = context.AfterFunc(ctx, a.Close)
	a.mu.Unlock()
	return a, nil
}

func (a *Adventure) Variant() Variant { return VariantAdventure }
func (a *Adventure) UserID() string   { return a.cfg.UserID }

func (a *Adventure) Done() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

func (a *Adventure) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unbind != nil {
		a.unbind()
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.done = true
}

// Submit checks answer against the current level, ignoring case and surrounding space.
func (a *Adventure) Submit(answer string) (Feedback, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return Feedback{}, domain.ErrSessionComplete
	}
	if a.awaiting {
		return Feedback{}, domain.ErrAwaitingFeedback
	}

	current := a.levels[a.level]
	a.attempts++
	if normalizeAnswer(answer) != normalizeAnswer(current.Answer) {
		return Feedback{Message: "That's not it. Try again!", Explanation: current.Hint}, nil
	}

	fb := Feedback{Correct: true, Message: "Level cleared!"}
	if a.level == len(a.levels)-1 {
		a.done = true
		fb.Complete = true
		r := a.cfg.Rewards.Adventure
		return fb, award(a.ctx, a.cfg, VariantAdventure, r.Points, r.Badge, true)
	}

	a.awaiting = true
	a.timer = a.cfg.Scheduler.AfterFunc(a.cfg.Rewards.FeedbackDelay, a.advance)
	return fb, nil
}

func (a *Adventure) advance() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done || !a.awaiting {
		return
	}
	a.awaiting = false
	a.timer = nil
	a.level++
	a.attempts = 0
}

// State returns a snapshot of the session.
func (a *Adventure) State() AdventureState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := AdventureState{
		Level:    a.level,
		Total:    len(a.levels),
		Attempts: a.attempts,
		Awaiting: a.awaiting,
		Complete: a.done,
	}
	if !a.done {
		current := a.levels[a.level]
		st.Current = &current
	}
	return st
}

func normalizeAnswer(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
