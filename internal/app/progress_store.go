package app

import (
	"context"
	"math"
	"sort"
	"sync"

	"mathquest/internal/domain"
)

// ProgressStore owns per-user points, badges and completion lists, and derives the
// leaderboard from them after every mutation.
type ProgressStore struct {
	storage Storage
	opts    Options

	mu          sync.RWMutex
	progress    map[string]domain.UserProgress
	leaderboard domain.Leaderboard
	subscribers map[chan domain.Leaderboard]struct{}
}

// NewProgressStore loads the progress map from storage; a missing map starts empty. Under
// the reseed policy a corrupt map keeps every user record that is still valid.
func NewProgressStore(ctx context.Context, storage Storage, opts Options) (*ProgressStore, error) {
	opts = opts.withDefaults()
	salvage := func(raw []byte) (map[string]domain.UserProgress, bool) {
		return salvageProgress(raw, opts.Logger)
	}
	progress, err := loadOrSeed(ctx, storage, progressKey, map[string]domain.UserProgress{}, opts, salvage)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = map[string]domain.UserProgress{}
	}
	s := &ProgressStore{
		storage:     storage,
		opts:        opts,
		progress:    progress,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
	s.leaderboard = s.buildLeaderboardLocked()
	return s, nil
}

// UpdateProgress merges patch into the user's record, creating it if needed, and stamps
// LastUpdated.
func (s *ProgressStore) UpdateProgress(ctx context.Context, userID string, patch domain.ProgressPatch) (domain.UserProgress, error) {
	if patch.Points != nil && *patch.Points < 0 {
		return domain.UserProgress{}, domain.ErrNegativeDelta
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, userID, patch)
}

// AddPoints adds delta to the user's points. Negative deltas are rejected so points
// never decrease, and so are deltas that would overflow the total.
func (s *ProgressStore) AddPoints(ctx context.Context, userID string, delta int) error {
	if delta < 0 {
		return domain.ErrNegativeDelta
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	points, err := addPoints(s.progress[userID].Points, delta)
	if err != nil {
		return err
	}
	_, err = s.updateLocked(ctx, userID, domain.ProgressPatch{Points: &points})
	return err
}

// AwardBadge grants the badge and its points in a single write. It reports false without
// writing anything when the user already holds the badge.
func (s *ProgressStore) AwardBadge(ctx context.Context, userID string, badgeID domain.BadgeID) (bool, error) {
	badge, ok := s.opts.Badges.Lookup(badgeID)
	if !ok {
		return false, domain.ErrBadgeNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.progress[userID]
	if current.HasBadge(badgeID) {
		return false, nil
	}
	points, err := addPoints(current.Points, badge.Points)
	if err != nil {
		return false, err
	}
	badges := append(append([]domain.BadgeID{}, current.Badges...), badgeID)
	if _, err := s.updateLocked(ctx, userID, domain.ProgressPatch{Points: &points, Badges: badges}); err != nil {
		return false, err
	}
	s.opts.Logger.Info("badge awarded", "user", userID, "badge", badge.Name, "points", badge.Points)
	return true, nil
}

// CompleteProblem records a solved practice problem. Repeats are ignored.
func (s *ProgressStore) CompleteProblem(ctx context.Context, userID string, problemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.progress[userID]
	if containsInt(current.CompletedProblems, problemID) {
		return nil
	}
	done := append(append([]int{}, current.CompletedProblems...), problemID)
	_, err := s.updateLocked(ctx, userID, domain.ProgressPatch{CompletedProblems: done})
	return err
}

// CompleteChallenge records a solved challenge question. Repeats are ignored.
func (s *ProgressStore) CompleteChallenge(ctx context.Context, userID string, challengeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.progress[userID]
	if containsInt(current.CompletedChallenges, challengeID) {
		return nil
	}
	done := append(append([]int{}, current.CompletedChallenges...), challengeID)
	_, err := s.updateLocked(ctx, userID, domain.ProgressPatch{CompletedChallenges: done})
	return err
}

// GetUserProgress returns the user's record, or a zero record when none exists.
// Reading never writes to storage.
func (s *ProgressStore) GetUserProgress(userID string) domain.UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress[userID].Clone()
}

// Leaderboard returns the ranking computed after the last mutation.
func (s *ProgressStore) Leaderboard() domain.Leaderboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLeaderboard(s.leaderboard)
}

// Badges exposes the catalog used for awarding.
func (s *ProgressStore) Badges() *domain.BadgeCatalog {
	return s.opts.Badges
}

// Subscribe returns a channel receiving the current leaderboard followed by every rebuild.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ProgressStore) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	// the initial board is queued under the lock so a concurrent rebuild always lands after it
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- cloneLeaderboard(s.leaderboard)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func addPoints(current, delta int) (int, error) {
	if delta > math.MaxInt-current {
		return 0, domain.ErrPointsOverflow
	}
	return current + delta, nil
}

func (s *ProgressStore) updateLocked(ctx context.Context, userID string, patch domain.ProgressPatch) (domain.UserProgress, error) {
	record := s.progress[userID].Clone()
	if patch.Points != nil {
		record.Points = *patch.Points
	}
	if patch.Badges != nil {
		record.Badges = append([]domain.BadgeID{}, patch.Badges...)
	}
	if patch.CompletedProblems != nil {
		record.CompletedProblems = append([]int{}, patch.CompletedProblems...)
	}
	if patch.CompletedChallenges != nil {
		record.CompletedChallenges = append([]int{}, patch.CompletedChallenges...)
	}
	record.LastUpdated = s.opts.Now()

	next := make(map[string]domain.UserProgress, len(s.progress)+1)
	for id, p := range s.progress {
		next[id] = p
	}
	next[userID] = record

	if err := saveBlob(ctx, s.storage, progressKey, next); err != nil {
		s.opts.Logger.Error("persist progress failed", "user", userID, "error", err)
		return domain.UserProgress{}, err
	}
	s.progress = next
	s.leaderboard = s.buildLeaderboardLocked()
	s.broadcastLocked()
	return record.Clone(), nil
}

func (s *ProgressStore) buildLeaderboardLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(s.progress))
	for userID, p := range s.progress {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      userID,
			Points:      p.Points,
			BadgeCount:  len(p.Badges),
			LastUpdated: p.LastUpdated,
		})
	}

	// Points descending; whoever reached the score first ranks higher, then user id.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if !entries[i].LastUpdated.Equal(entries[j].LastUpdated) {
			return entries[i].LastUpdated.Before(entries[j].LastUpdated)
		}
		return entries[i].UserID < entries[j].UserID
	})

	return domain.Leaderboard{Entries: entries, UpdatedAt: s.opts.Now()}
}

func (s *ProgressStore) broadcastLocked() {
	for ch := range s.subscribers {
		lb := cloneLeaderboard(s.leaderboard)
		select {
		case ch <- lb:
		default:
			// Drop the stale snapshot so a slow reader never blocks a write.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}

func cloneLeaderboard(lb domain.Leaderboard) domain.Leaderboard {
	lb.Entries = append([]domain.LeaderboardEntry{}, lb.Entries...)
	return lb
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
