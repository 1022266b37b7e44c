package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mathquest/internal/domain"
)

type pointsCall struct {
	user  string
	delta int
}

type badgeCall struct {
	user  string
	badge domain.BadgeID
}

type recorder struct {
	mu     sync.Mutex
	points []pointsCall
	badges []badgeCall
	err    error
}

func (r *recorder) AddPoints(_ context.Context, userID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, pointsCall{userID, delta})
	return r.err
}

func (r *recorder) AwardBadge(_ context.Context, userID string, badgeID domain.BadgeID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badges = append(r.badges, badgeCall{userID, badgeID})
	return r.err == nil, r.err
}

func (r *recorder) calls() ([]pointsCall, []badgeCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pointsCall(nil), r.points...), append([]badgeCall(nil), r.badges...)
}

var errRecorder = errors.New("recorder down")

// manualScheduler holds callbacks until the test fires them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	s.pending = append(s.pending, t)
	return t
}

// fire runs every live callback scheduled so far and reports how many ran.
func (s *manualScheduler) fire() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.stopped = true
		t.f()
		ran++
	}
	return ran
}

func (s *manualScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

func testConfig(rec *recorder, sched *manualScheduler) Config {
	return Config{UserID: "u1", Recorder: rec, Scheduler: sched}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
