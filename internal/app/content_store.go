package app

import (
	"context"
	"sync"

	"mathquest/internal/domain"
)

// ContentStore owns the properties, practice problems and challenge questions.
// Every mutation is persisted before it becomes visible to readers.
type ContentStore struct {
	storage Storage
	opts    Options

	mu         sync.RWMutex
	properties []domain.Property
	practice   []domain.PracticeProblem
	challenges []domain.ChallengeQuestion
}

// NewContentStore loads each collection from storage, seeding and persisting the defaults
// for any collection that has never been saved.
func NewContentStore(ctx context.Context, storage Storage, opts Options) (*ContentStore, error) {
	opts = opts.withDefaults()
	s := &ContentStore{storage: storage, opts: opts}

	var err error
	if s.properties, err = loadOrSeed(ctx, storage, domain.KindProperties.StorageKey(), DefaultProperties(), opts, nil); err != nil {
		return nil, err
	}
	if s.practice, err = loadOrSeed(ctx, storage, domain.KindPractice.StorageKey(), DefaultPracticeProblems(), opts, nil); err != nil {
		return nil, err
	}
	if s.challenges, err = loadOrSeed(ctx, storage, domain.KindChallenge.StorageKey(), DefaultChallengeQuestions(), opts, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert creates, updates or deletes one record:
//   - id == nil creates a record with id max(ids, 0)+1 from patch (which may be nil);
//   - id != nil with a patch merges the set fields into the matching record;
//   - id != nil with a nil patch removes the matching record.
//
// Unknown kinds, patches for another kind and ids matching no record are silent no-ops.
// It returns the id that was created, updated or deleted, or 0 when nothing matched.
func (s *ContentStore) Upsert(ctx context.Context, kind domain.Kind, id *int, patch domain.Patch) (int, error) {
	remove := patch == nil || patch.Empty()
	if !remove && patch.Kind() != kind {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case domain.KindProperties:
		p, _ := patch.(*domain.PropertyPatch)
		next, affected := upsertItems(s.properties, id, remove,
			func(it *domain.Property) {
				if p != nil {
					p.Apply(it)
				}
			},
			func(it *domain.Property, id int) { it.ID = id })
		if err := saveBlob(ctx, s.storage, kind.StorageKey(), next); err != nil {
			return 0, err
		}
		s.properties = next
		return affected, nil
	case domain.KindPractice:
		p, _ := patch.(*domain.PracticePatch)
		next, affected := upsertItems(s.practice, id, remove,
			func(it *domain.PracticeProblem) {
				if p != nil {
					p.Apply(it)
				}
			},
			func(it *domain.PracticeProblem, id int) { it.ID = id })
		if err := saveBlob(ctx, s.storage, kind.StorageKey(), next); err != nil {
			return 0, err
		}
		s.practice = next
		return affected, nil
	case domain.KindChallenge:
		p, _ := patch.(*domain.ChallengePatch)
		next, affected := upsertItems(s.challenges, id, remove,
			func(it *domain.ChallengeQuestion) {
				if p != nil {
					p.Apply(it)
				}
			},
			func(it *domain.ChallengeQuestion, id int) { it.ID = id })
		if err := saveBlob(ctx, s.storage, kind.StorageKey(), next); err != nil {
			return 0, err
		}
		s.challenges = next
		return affected, nil
	default:
		return 0, nil
	}
}

// upsertItems returns a new slice with the mutation applied; items is never modified.
func upsertItems[T domain.Item](items []T, id *int, remove bool, merge func(*T), setID func(*T, int)) ([]T, int) {
	next := make([]T, 0, len(items)+1)

	if id == nil {
		maxID := 0
		for _, it := range items {
			if it.ItemID() > maxID {
				maxID = it.ItemID()
			}
		}
		var created T
		merge(&created)
		setID(&created, maxID+1)
		next = append(next, items...)
		return append(next, created), maxID + 1
	}

	affected := 0
	for _, it := range items {
		if it.ItemID() != *id {
			next = append(next, it)
			continue
		}
		affected = *id
		if remove {
			continue
		}
		merge(&it)
		next = append(next, it)
	}
	return next, affected
}

// List returns a snapshot of the collection in insertion order, or nil for an unknown kind.
func (s *ContentStore) List(kind domain.Kind) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case domain.KindProperties:
		return toItems(s.properties)
	case domain.KindPractice:
		return toItems(s.practice)
	case domain.KindChallenge:
		return toItems(cloneChallenges(s.challenges))
	default:
		return nil
	}
}

// Get returns the record with id from the collection.
func (s *ContentStore) Get(kind domain.Kind, id int) (domain.Item, bool) {
	for _, it := range s.List(kind) {
		if it.ItemID() == id {
			return it, true
		}
	}
	return nil, false
}

func (s *ContentStore) Properties() []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Property(nil), s.properties...)
}

func (s *ContentStore) PracticeProblems() []domain.PracticeProblem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PracticeProblem(nil), s.practice...)
}

func (s *ContentStore) ChallengeQuestions() []domain.ChallengeQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneChallenges(s.challenges)
}

func cloneChallenges(in []domain.ChallengeQuestion) []domain.ChallengeQuestion {
	out := make([]domain.ChallengeQuestion, len(in))
	for i, c := range in {
		c.Answers = append([]string(nil), c.Answers...)
		out[i] = c
	}
	return out
}

func toItems[T domain.Item](items []T) []domain.Item {
	out := make([]domain.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
