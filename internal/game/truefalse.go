package game

import (
	"context"
	"errors"
	"sync"

	"mathquest/internal/domain"
)

// Statement is a true or false prompt.
type Statement struct {
	Text        string `json:"text"`
	Answer      bool   `json:"-"`
	Explanation string `json:"explanation"`
}

// TrueFalseState is a read-only view of a true/false session.
type TrueFalseState struct {
	Index     int        `json:"index"`
	Total     int        `json:"total"`
	Score     int        `json:"score"`
	Current   *Statement `json:"current,omitempty"`
	Awaiting  bool       `json:"awaitingFeedback"`
	Complete  bool       `json:"complete"`
	LastReply *Feedback  `json:"lastFeedback,omitempty"`
}

// TrueFalse walks through statements in order. After each answer it shows feedback and
// advances on its own once the feedback delay has passed.
type TrueFalse struct {
	ctx context.Context
	cfg Config

	mu         sync.Mutex
	statements []Statement
	index      int
	score      int
	awaiting   bool
	last       *Feedback
	timer      Timer
	done       bool
	unbind     func() bool
}

// NewTrueFalse starts a session over statements.
func NewTrueFalse(ctx context.Context, cfg Config, statements []Statement) (*TrueFalse, error) {
	if len(statements) == 0 {
		return nil, errors.New("true/false game needs at least one statement")
	}
	g := &TrueFalse{
		ctx:        ctx,
		cfg:        cfg.withDefaults(),
		statements: append([]Statement(nil), statements...),
	}
	g.mu.Lock()
	g.unbind = context.AfterFunc(ctx, g.Close)
	g.mu.Unlock()
	return g, nil
}

func (g *TrueFalse) Variant() Variant { return VariantTrueFalse }
func (g *TrueFalse) UserID() string   { return g.cfg.UserID }

func (g *TrueFalse) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

func (g *TrueFalse) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.unbind != nil {
		g.unbind()
	}
	g.stopTimerLocked()
	g.done = true
}

// Answer checks value against the current statement. Answering the last statement
// finishes the session; the reward does not depend on the score.
func (g *TrueFalse) Answer(value bool) (Feedback, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		return Feedback{}, domain.ErrSessionComplete
	}
	if g.awaiting {
		return Feedback{}, domain.ErrAwaitingFeedback
	}

	current := g.statements[g.index]
	fb := Feedback{Correct: value == current.Answer, Explanation: current.Explanation}
	if fb.Correct {
		g.score++
		fb.Message = "Correct!"
	} else {
		fb.Message = "Not quite."
	}
	g.last = &fb

	if g.index == len(g.statements)-1 {
		g.done = true
		fb.Complete = true
		g.last = &fb
		r := g.cfg.Rewards.TrueFalse
		return fb, award(g.ctx, g.cfg, VariantTrueFalse, r.Points, r.Badge, true)
	}

	g.awaiting = true
	g.timer = g.cfg.Scheduler.AfterFunc(g.cfg.Rewards.FeedbackDelay, g.advance)
	return fb, nil
}

func (g *TrueFalse) advance() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done || !g.awaiting {
		return
	}
	g.awaiting = false
	g.timer = nil
	g.index++
}

func (g *TrueFalse) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// Score returns the number of correct answers so far.
func (g *TrueFalse) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// State returns a snapshot of the session.
func (g *TrueFalse) State() TrueFalseState {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := TrueFalseState{
		Index:     g.index,
		Total:     len(g.statements),
		Score:     g.score,
		Awaiting:  g.awaiting,
		Complete:  g.done,
		LastReply: g.last,
	}
	if !g.done && !g.awaiting {
		current := g.statements[g.index]
		st.Current = &current
	}
	return st
}
