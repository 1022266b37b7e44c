package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"mathquest/internal/domain"
)

// CardFace says which side of a property a card shows.
type CardFace string

const (
	FaceName    CardFace = "name"
	FaceFormula CardFace = "formula"
)

// Card is one tile of the matching deck. Two cards match when their Property is equal.
type Card struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Face     CardFace `json:"face"`
	Property string   `json:"property"`
	Matched  bool     `json:"matched"`
}

// MatchOutcome describes what a selection did.
type MatchOutcome string

const (
	OutcomeSelected MatchOutcome = "selected"
	OutcomeMatch    MatchOutcome = "match"
	OutcomeMismatch MatchOutcome = "mismatch"
)

// MatchResult is returned from Matching.Select.
type MatchResult struct {
	Outcome  MatchOutcome `json:"outcome"`
	First    int          `json:"first"`
	Second   int          `json:"second,omitempty"`
	Matched  int          `json:"matched"`
	Complete bool         `json:"complete"`
}

// MatchingState is a read-only view of a matching session.
type MatchingState struct {
	Cards    []Card `json:"cards"`
	Selected int    `json:"selected"`
	Matched  int    `json:"matched"`
	Pairs    int    `json:"pairs"`
	Complete bool   `json:"complete"`
}

// Matching pairs every property name with its formula.
type Matching struct {
	ctx context.Context
	cfg Config

	mu       sync.Mutex
	cards    []Card
	selected int
	matched  int
	done     bool
	unbind   func() bool
}

// NewMatching deals a shuffled deck with a name card and a formula card per property.
// rnd may be nil for an unshuffled deck.
func NewMatching(ctx context.Context, cfg Config, properties []domain.Property, rnd *rand.Rand) (*Matching, error) {
	if len(properties) == 0 {
		return nil, errors.New("matching game needs at least one property")
	}
	cards := make([]Card, 0, len(properties)*2)
	for _, p := range properties {
		cards = append(cards,
			Card{Text: p.Name, Face: FaceName, Property: p.Name},
			Card{Text: p.Formula, Face: FaceFormula, Property: p.Name},
		)
	}
	if rnd != nil {
		rnd.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	}
	for i := range cards {
		cards[i].Index = i
	}
	m := &Matching{ctx: ctx, cfg: cfg.withDefaults(), cards: cards, selected: -1}
	m.mu.Lock()
	m.unbind = context.AfterFunc(ctx, m.Close)
	m.mu.Unlock()
	return m, nil
}

func (m *Matching) Variant() Variant { return VariantMatching }
func (m *Matching) UserID() string   { return m.cfg.UserID }

func (m *Matching) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *Matching) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unbind != nil {
		m.unbind()
	}
	m.done = true
}

// Select flips the card at index. The first pick is remembered; the second is compared
// with it and either resolves the pair or discards the first pick. Matching the last pair
// finishes the session and records the reward.
func (m *Matching) Select(index int) (MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return MatchResult{}, domain.ErrSessionComplete
	}
	if index < 0 || index >= len(m.cards) || m.cards[index].Matched {
		return MatchResult{}, domain.ErrInvalidSelection
	}

	if m.selected < 0 || m.selected == index {
		m.selected = index
		return MatchResult{Outcome: OutcomeSelected, First: index, Matched: m.matched}, nil
	}

	first := m.selected
	m.selected = -1
	if m.cards[first].Property != m.cards[index].Property {
		return MatchResult{Outcome: OutcomeMismatch, First: first, Second: index, Matched: m.matched}, nil
	}

	m.cards[first].Matched = true
	m.cards[index].Matched = true
	m.matched++
	res := MatchResult{Outcome: OutcomeMatch, First: first, Second: index, Matched: m.matched}
	if m.matched < len(m.cards)/2 {
		return res, nil
	}

	m.done = true
	res.Complete = true
	r := m.cfg.Rewards.Matching
	return res, award(m.ctx, m.cfg, VariantMatching, r.Points, r.Badge, true)
}

// State returns a copy of the board.
func (m *Matching) State() MatchingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MatchingState{
		Cards:    append([]Card(nil), m.cards...),
		Selected: m.selected,
		Matched:  m.matched,
		Pairs:    len(m.cards) / 2,
		Complete: m.done,
	}
}
