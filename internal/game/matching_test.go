package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"mathquest/internal/domain"
)

func fiveProperties() []domain.Property {
	return []domain.Property{
		{ID: 1, Name: "Commutative", Formula: "a + b = b + a"},
		{ID: 2, Name: "Associative", Formula: "(a + b) + c = a + (b + c)"},
		{ID: 3, Name: "Distributive", Formula: "a(b + c) = ab + ac"},
		{ID: 4, Name: "Identity", Formula: "a + 0 = a"},
		{ID: 5, Name: "Inverse", Formula: "a + (-a) = 0"},
	}
}

func TestMatchingCompletionAwardsOnce(t *testing.T) {
	rec := &recorder{}
	game, err := NewMatching(context.Background(), testConfig(rec, &manualScheduler{}), fiveProperties(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new matching: %v", err)
	}

	pairs := pairIndexes(game.State().Cards)
	for i, pair := range pairs {
		if _, err := game.Select(pair[0]); err != nil {
			t.Fatalf("select first: %v", err)
		}
		res, err := game.Select(pair[1])
		if err != nil {
			t.Fatalf("select second: %v", err)
		}
		if res.Outcome != OutcomeMatch {
			t.Fatalf("expected match, got %s", res.Outcome)
		}
		if res.Complete != (i == len(pairs)-1) {
			t.Fatalf("pair %d: unexpected complete=%v", i, res.Complete)
		}
	}

	points, badges := rec.calls()
	if len(points) != 1 || points[0] != (pointsCall{"u1", 50}) {
		t.Fatalf("expected one addPoints(u1, 50), got %+v", points)
	}
	if len(badges) != 1 || badges[0] != (badgeCall{"u1", 1}) {
		t.Fatalf("expected one awardBadge(u1, 1), got %+v", badges)
	}
	if !game.Done() {
		t.Fatalf("expected session done")
	}
	if _, err := game.Select(0); !errors.Is(err, domain.ErrSessionComplete) {
		t.Fatalf("expected session complete, got %v", err)
	}
}

func TestMatchingMismatchDiscardsSelection(t *testing.T) {
	rec := &recorder{}
	game, err := NewMatching(context.Background(), testConfig(rec, &manualScheduler{}), fiveProperties(), nil)
	if err != nil {
		t.Fatalf("new matching: %v", err)
	}

	// Unshuffled deck: 0/1 are Commutative, 2/3 Associative.
	if _, err := game.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	res, err := game.Select(2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if res.Outcome != OutcomeMismatch || res.Matched != 0 {
		t.Fatalf("expected mismatch, got %+v", res)
	}
	if game.State().Selected != -1 {
		t.Fatalf("expected selection cleared after mismatch")
	}

	// A fresh pick after a mismatch starts a new pair.
	res, _ = game.Select(1)
	if res.Outcome != OutcomeSelected {
		t.Fatalf("expected new first pick, got %s", res.Outcome)
	}
	res, _ = game.Select(0)
	if res.Outcome != OutcomeMatch || res.Matched != 1 {
		t.Fatalf("expected match, got %+v", res)
	}

	if _, err := game.Select(0); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected matched card to be unavailable, got %v", err)
	}
	if _, err := game.Select(42); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected out of range selection error, got %v", err)
	}
	if points, _ := rec.calls(); len(points) != 0 {
		t.Fatalf("expected no award before completion")
	}
}

func TestMatchingSameCardTwiceKeepsSelection(t *testing.T) {
	game, _ := NewMatching(context.Background(), testConfig(&recorder{}, &manualScheduler{}), fiveProperties(), nil)
	_, _ = game.Select(4)
	res, err := game.Select(4)
	if err != nil || res.Outcome != OutcomeSelected {
		t.Fatalf("expected reselect to keep selection, got %+v %v", res, err)
	}
	if game.State().Selected != 4 {
		t.Fatalf("expected card 4 still selected")
	}
}

func TestMatchingNeedsProperties(t *testing.T) {
	if _, err := NewMatching(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatalf("expected error for empty deck")
	}
}

func TestMatchingCancelledContextClosesSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	game, _ := NewMatching(ctx, testConfig(rec, &manualScheduler{}), fiveProperties(), nil)
	cancel()

	waitFor(t, game.Done)
	if points, _ := rec.calls(); len(points) != 0 {
		t.Fatalf("expected abandoned session to award nothing")
	}
}

func pairIndexes(cards []Card) [][2]int {
	byProperty := map[string][]int{}
	var order []string
	for _, c := range cards {
		if _, ok := byProperty[c.Property]; !ok {
			order = append(order, c.Property)
		}
		byProperty[c.Property] = append(byProperty[c.Property], c.Index)
	}
	pairs := make([][2]int, 0, len(order))
	for _, p := range order {
		pairs = append(pairs, [2]int{byProperty[p][0], byProperty[p][1]})
	}
	return pairs
}
