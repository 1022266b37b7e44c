package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"mathquest/internal/domain"
)

// TimedQuestion asks which property a formula illustrates.
type TimedQuestion struct {
	Formula string   `json:"formula"`
	Options []string `json:"options"`
	Answer  string   `json:"-"`
}

// EndReason explains why a timed session finished.
type EndReason string

const (
	EndTimeUp    EndReason = "time_up"
	EndExhausted EndReason = "exhausted"
	EndAbandoned EndReason = "abandoned"
)

// TimedState is a read-only view of a timed session.
type TimedState struct {
	Index     int            `json:"index"`
	Total     int            `json:"total"`
	Score     int            `json:"score"`
	TimeLeft  time.Duration  `json:"timeLeft"`
	Current   *TimedQuestion `json:"current,omitempty"`
	Complete  bool           `json:"complete"`
	EndReason EndReason      `json:"endReason,omitempty"`
}

// Timed races a countdown. The session ends when the countdown fires or every question has
// been answered, whichever comes first, and awards score × multiplier points plus the badge
// for a perfect score.
type Timed struct {
	ctx context.Context
	cfg Config

	mu        sync.Mutex
	questions []TimedQuestion
	index     int
	score     int
	deadline  time.Time
	timer     Timer
	done      bool
	reason    EndReason
	unbind    func() bool
}

// NewTimed starts the countdown immediately.
func NewTimed(ctx context.Context, cfg Config, questions []TimedQuestion) (*Timed, error) {
	if len(questions) == 0 {
		return nil, errors.New("timed game needs at least one question")
	}
	cfg = cfg.withDefaults()
	t := &Timed{
		ctx:       ctx,
		cfg:       cfg,
		questions: append([]TimedQuestion(nil), questions...),
		deadline:  cfg.Now().Add(cfg.Rewards.Timed.Duration),
	}
	t.mu.Lock()
	t.timer = cfg.Scheduler.AfterFunc(cfg.Rewards.Timed.Duration, t.expire)
	t.unbind = context.AfterFunc(ctx, t.Close)
	t.mu.Unlock()
	return t, nil
}

func (t *Timed) Variant() Variant { return VariantTimed }
func (t *Timed) UserID() string   { return t.cfg.UserID }

func (t *Timed) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Close stops the countdown without awarding anything. It also detaches the session from
// its context, so it is safe to call on a finished game.
func (t *Timed) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unbind != nil {
		t.unbind()
	}
	if t.done {
		return
	}
	t.stopTimerLocked()
	t.done = true
	t.reason = EndAbandoned
}

// Answer checks a property name against the current question and moves on regardless of
// the result. Answering the last question ends the session.
func (t *Timed) Answer(property string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return false, domain.ErrSessionComplete
	}

	correct := normalizeAnswer(property) == normalizeAnswer(t.questions[t.index].Answer)
	if correct {
		t.score++
	}
	t.index++
	if t.index < len(t.questions) {
		return correct, nil
	}
	return correct, t.finishLocked(EndExhausted)
}

func (t *Timed) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	// The outcome is logged by award; there is no caller to return the error to.
	_ = t.finishLocked(EndTimeUp)
}

func (t *Timed) finishLocked(reason EndReason) error {
	t.stopTimerLocked()
	t.done = true
	t.reason = reason
	r := t.cfg.Rewards.Timed
	perfect := t.score >= len(t.questions)
	return award(t.ctx, t.cfg, VariantTimed, t.score*r.Multiplier, r.Badge, perfect)
}

func (t *Timed) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// TimeLeft returns the remaining countdown, or zero once the session has ended.
func (t *Timed) TimeLeft() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeLeftLocked()
}

func (t *Timed) timeLeftLocked() time.Duration {
	if t.done {
		return 0
	}
	left := t.deadline.Sub(t.cfg.Now())
	if left < 0 {
		return 0
	}
	return left
}

// State returns a snapshot of the session.
func (t *Timed) State() TimedState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := TimedState{
		Index:     t.index,
		Total:     len(t.questions),
		Score:     t.score,
		TimeLeft:  t.timeLeftLocked(),
		Complete:  t.done,
		EndReason: t.reason,
	}
	if !t.done {
		current := t.questions[t.index]
		st.Current = &current
	}
	return st
}
