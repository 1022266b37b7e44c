package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"mathquest/internal/app"
	"mathquest/internal/domain"
	"mathquest/internal/infra/memory"
)

func TestAwardBadgeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	store := newProgressStore(t, storage, fixedClock())

	awarded, err := store.AwardBadge(ctx, "u1", 1)
	if err != nil || !awarded {
		t.Fatalf("first award: awarded=%v err=%v", awarded, err)
	}
	saves := storage.Saves()

	awarded, err = store.AwardBadge(ctx, "u1", 1)
	if err != nil || awarded {
		t.Fatalf("second award should be a no-op: awarded=%v err=%v", awarded, err)
	}
	if storage.Saves() != saves {
		t.Fatalf("expected no write for repeated badge")
	}

	got := store.GetUserProgress("u1")
	if got.Points != 10 || len(got.Badges) != 1 || got.Badges[0] != 1 {
		t.Fatalf("expected {points:10 badges:[1]}, got %+v", got)
	}

	raw, _, _ := storage.Load(ctx, "userProgress")
	var persisted map[string]domain.UserProgress
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if persisted["u1"].Points != 10 || len(persisted["u1"].Badges) != 1 {
		t.Fatalf("expected persisted record to match, got %+v", persisted["u1"])
	}
}

func TestAwardUnknownBadge(t *testing.T) {
	store := newProgressStore(t, memory.NewStorage(), fixedClock())
	if _, err := store.AwardBadge(context.Background(), "u1", 404); !errors.Is(err, domain.ErrBadgeNotFound) {
		t.Fatalf("expected badge not found, got %v", err)
	}
	if len(store.Leaderboard().Entries) != 0 {
		t.Fatalf("expected no record created")
	}
}

func TestAddPointsAccumulates(t *testing.T) {
	ctx := context.Background()
	store := newProgressStore(t, memory.NewStorage(), fixedClock())

	if err := store.AddPoints(ctx, "u1", 15); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := store.GetUserProgress("u1").Points; got != 15 {
		t.Fatalf("expected 15 immediately, got %d", got)
	}
	if err := store.AddPoints(ctx, "u1", 27); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := store.GetUserProgress("u1").Points; got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if err := store.AddPoints(ctx, "u1", 0); err != nil {
		t.Fatalf("zero delta should be accepted: %v", err)
	}
	if err := store.AddPoints(ctx, "u1", -5); !errors.Is(err, domain.ErrNegativeDelta) {
		t.Fatalf("expected negative delta error, got %v", err)
	}
	if got := store.GetUserProgress("u1").Points; got != 42 {
		t.Fatalf("expected points unchanged after rejected delta, got %d", got)
	}
}

func TestGetUserProgressDoesNotWrite(t *testing.T) {
	storage := memory.NewStorage()
	store := newProgressStore(t, storage, fixedClock())
	saves := storage.Saves()

	got := store.GetUserProgress("nobody")
	if got.Points != 0 || len(got.Badges) != 0 || got.Badges == nil {
		t.Fatalf("expected zero record with empty badges, got %+v", got)
	}
	if storage.Saves() != saves {
		t.Fatalf("expected read to leave storage alone")
	}
	if len(store.Leaderboard().Entries) != 0 {
		t.Fatalf("expected reading not to create a record")
	}
}

func TestLeaderboardSortedAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newProgressStore(t, memory.NewStorage(), clock.Now)

	steps := []struct {
		user  string
		delta int
	}{
		{"alice", 10}, {"bob", 30}, {"carol", 20}, {"alice", 25}, {"dave", 0},
	}
	for _, step := range steps {
		if err := store.AddPoints(ctx, step.user, step.delta); err != nil {
			t.Fatalf("add: %v", err)
		}
		assertSorted(t, store.Leaderboard())
	}
	if _, err := store.AwardBadge(ctx, "carol", domain.BadgeSpeedster); err != nil {
		t.Fatalf("award: %v", err)
	}

	lb := store.Leaderboard()
	assertSorted(t, lb)
	if len(lb.Entries) != 4 {
		t.Fatalf("expected one entry per user, got %d", len(lb.Entries))
	}
	if lb.Entries[0].UserID != "carol" || lb.Entries[0].Points != 45 || lb.Entries[0].BadgeCount != 1 {
		t.Fatalf("expected carol to lead with 45 points, got %+v", lb.Entries[0])
	}
	// alice 35, bob 30, dave 0.
	if lb.Entries[1].UserID != "alice" || lb.Entries[3].UserID != "dave" {
		t.Fatalf("unexpected ordering %+v", lb.Entries)
	}
}

func TestLeaderboardTieBreaksOnEarlierUpdate(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newProgressStore(t, memory.NewStorage(), clock.Now)

	_ = store.AddPoints(ctx, "zed", 10)
	_ = store.AddPoints(ctx, "amy", 10)

	lb := store.Leaderboard()
	if lb.Entries[0].UserID != "zed" {
		t.Fatalf("expected earlier scorer first, got %+v", lb.Entries)
	}
}

func TestCompleteProblemDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := newProgressStore(t, memory.NewStorage(), fixedClock())

	for _, id := range []int{3, 1, 3} {
		if err := store.CompleteProblem(ctx, "u1", id); err != nil {
			t.Fatalf("complete problem: %v", err)
		}
	}
	if err := store.CompleteChallenge(ctx, "u1", 2); err != nil {
		t.Fatalf("complete challenge: %v", err)
	}
	got := store.GetUserProgress("u1")
	if len(got.CompletedProblems) != 2 || got.CompletedProblems[0] != 3 || got.CompletedProblems[1] != 1 {
		t.Fatalf("expected [3 1], got %v", got.CompletedProblems)
	}
	if len(got.CompletedChallenges) != 1 || got.Points != 0 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestUpdateProgressStampsLastUpdated(t *testing.T) {
	ctx := context.Background()
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	store := newProgressStore(t, memory.NewStorage(), func() time.Time { return when })

	points := 5
	got, err := store.UpdateProgress(ctx, "u1", domain.ProgressPatch{Points: &points})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.LastUpdated.Equal(when) || got.Points != 5 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestProgressStoreReloadsFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	store := newProgressStore(t, storage, fixedClock())
	_ = store.AddPoints(ctx, "u1", 12)
	_, _ = store.AwardBadge(ctx, "u1", domain.BadgeQuizWhiz)

	reloaded := newProgressStore(t, storage, fixedClock())
	got := reloaded.GetUserProgress("u1")
	if got.Points != 27 || !got.HasBadge(domain.BadgeQuizWhiz) {
		t.Fatalf("expected reloaded progress, got %+v", got)
	}
	if len(reloaded.Leaderboard().Entries) != 1 {
		t.Fatalf("expected leaderboard rebuilt on load")
	}
}

func TestProgressStoreCorruptBlob(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	_ = storage.Save(ctx, "userProgress", []byte(`{"u1":{"points":-3}}`))

	if _, err := app.NewProgressStore(ctx, storage, app.Options{OnCorrupt: app.OnCorruptFail}); !errors.Is(err, domain.ErrCorruptData) {
		t.Fatalf("expected corrupt data error, got %v", err)
	}
	store, err := app.NewProgressStore(ctx, storage, app.Options{})
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if len(store.Leaderboard().Entries) != 0 {
		t.Fatalf("expected empty progress after reseed")
	}
}

func TestCorruptProgressKeepsValidUsers(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	store := newProgressStore(t, storage, fixedClock())
	_ = store.AddPoints(ctx, "alice", 500)
	_, _ = store.AwardBadge(ctx, "alice", 1)

	raw, _, _ := storage.Load(ctx, "userProgress")
	var records map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode persisted progress: %v", err)
	}
	records["mallory"] = json.RawMessage(`{"points":-9223372036854775808}`)
	tampered, _ := json.Marshal(records)
	_ = storage.Save(ctx, "userProgress", tampered)

	reloaded := newProgressStore(t, storage, fixedClock())
	alice := reloaded.GetUserProgress("alice")
	if alice.Points != 510 || !alice.HasBadge(1) {
		t.Fatalf("expected alice to survive the repair, got %+v", alice)
	}
	entries := reloaded.Leaderboard().Entries
	if len(entries) != 1 || entries[0].UserID != "alice" {
		t.Fatalf("expected only alice on the leaderboard, got %+v", entries)
	}

	raw, _, _ = storage.Load(ctx, "userProgress")
	var persisted map[string]domain.UserProgress
	if err := json.Unmarshal(raw, &persisted); err != nil || len(persisted) != 1 {
		t.Fatalf("expected repaired blob with one user, got %s", raw)
	}
}

func TestReadOnlyLoadLeavesCorruptBlob(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	corrupt := []byte(`{"u1":{"points":-3},"u2":{"points":4}}`)
	_ = storage.Save(ctx, "userProgress", corrupt)
	saves := storage.Saves()

	store, err := app.NewProgressStore(ctx, storage, app.Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("read-only load: %v", err)
	}
	if got := store.GetUserProgress("u2").Points; got != 4 {
		t.Fatalf("expected u2 recovered in memory, got %d", got)
	}
	if storage.Saves() != saves {
		t.Fatalf("expected no write on read-only load")
	}
	raw, _, _ := storage.Load(ctx, "userProgress")
	if string(raw) != string(corrupt) {
		t.Fatalf("expected stored blob untouched, got %s", raw)
	}
}

func TestAddPointsRejectsOverflow(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	store := newProgressStore(t, storage, fixedClock())

	if err := store.AddPoints(ctx, "mallory", math.MaxInt); err != nil {
		t.Fatalf("add max points: %v", err)
	}
	saves := storage.Saves()
	if err := store.AddPoints(ctx, "mallory", 1); !errors.Is(err, domain.ErrPointsOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	if _, err := store.AwardBadge(ctx, "mallory", 1); !errors.Is(err, domain.ErrPointsOverflow) {
		t.Fatalf("expected overflow error on badge, got %v", err)
	}
	if storage.Saves() != saves {
		t.Fatalf("expected rejected updates not to write")
	}
	got := store.GetUserProgress("mallory")
	if got.Points != math.MaxInt || len(got.Badges) != 0 {
		t.Fatalf("expected progress untouched, got %+v", got)
	}
}

func TestUpdateProgressRejectsNegativePoints(t *testing.T) {
	store := newProgressStore(t, memory.NewStorage(), fixedClock())
	points := -1
	if _, err := store.UpdateProgress(context.Background(), "u1", domain.ProgressPatch{Points: &points}); !errors.Is(err, domain.ErrNegativeDelta) {
		t.Fatalf("expected negative points rejected, got %v", err)
	}
}

func TestSubscribeNeverSeesStaleBoard(t *testing.T) {
	ctx := context.Background()
	store := newProgressStore(t, memory.NewStorage(), fixedClock())
	const rounds = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = store.AddPoints(ctx, "u1", 1)
		}
	}()

	ch, cancel := store.Subscribe()
	defer cancel()
	last := -1
	for last < rounds {
		board := <-ch
		points := 0
		if len(board.Entries) > 0 {
			points = board.Entries[0].Points
		}
		if points < last {
			t.Fatalf("received stale board: %d points after %d", points, last)
		}
		last = points
	}
	wg.Wait()
}

func TestSubscribeReceivesLeaderboardUpdates(t *testing.T) {
	ctx := context.Background()
	store := newProgressStore(t, memory.NewStorage(), fixedClock())

	ch, cancel := store.Subscribe()
	defer cancel()

	initial := <-ch
	if len(initial.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}

	_ = store.AddPoints(ctx, "u1", 5)
	update := <-ch
	if len(update.Entries) != 1 || update.Entries[0].Points != 5 {
		t.Fatalf("expected update with 5 points, got %+v", update.Entries)
	}
}

func TestFailedPersistLeavesProgressUntouched(t *testing.T) {
	ctx := context.Background()
	storage := &flakyStorage{Storage: memory.NewStorage()}
	store := newProgressStore(t, storage, fixedClock())

	storage.fail = true
	if err := store.AddPoints(ctx, "u1", 5); !errors.Is(err, errStorageDown) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if got := store.GetUserProgress("u1").Points; got != 0 {
		t.Fatalf("expected no points after failed save, got %d", got)
	}
}

func newProgressStore(t *testing.T, storage app.Storage, now func() time.Time) *app.ProgressStore {
	t.Helper()
	store, err := app.NewProgressStore(context.Background(), storage, app.Options{Now: now})
	if err != nil {
		t.Fatalf("new progress store: %v", err)
	}
	return store
}

func assertSorted(t *testing.T, lb domain.Leaderboard) {
	t.Helper()
	for i := 1; i < len(lb.Entries); i++ {
		if lb.Entries[i-1].Points < lb.Entries[i].Points {
			t.Fatalf("leaderboard not sorted: %+v", lb.Entries)
		}
	}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}
