package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/lifecycle"
	"sportreminder/internal/pkg/clock"
	appErrors "sportreminder/internal/pkg/errors"
	"sportreminder/internal/pkg/logger"
)

var testLog = logger.NewWithWriter(io.Discard, "ERROR")

var t0 = time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)

// memRepo is an in-memory ReminderRepository whose failures can be toggled.
type memRepo struct {
	mu      sync.Mutex
	saved   []*entity.Reminder
	saves   int
	loadErr error
	saveErr error
}

func (m *memRepo) Load(context.Context) ([]*entity.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return cloneAll(m.saved), nil
}

func (m *memRepo) Save(_ context.Context, reminders []*entity.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = cloneAll(reminders)
	m.saves++
	return nil
}

func (m *memRepo) Close() error { return nil }

func (m *memRepo) failSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

func (m *memRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func newTestStore(t *testing.T) (*TaskStore, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	store := NewTaskStore(repo, testLog)
	store.Load(context.Background())
	return store, repo
}

func TestLoadFailsOpenToEmptySet(t *testing.T) {
	repo := &memRepo{loadErr: appErrors.ErrCorruptStore}
	store := NewTaskStore(repo, testLog)

	got := store.Load(context.Background())
	if len(got) != 0 {
		t.Fatalf("Load = %d reminders, want 0", len(got))
	}
	if len(store.Snapshot()) != 0 {
		t.Fatalf("Snapshot not empty after failed load")
	}
}

func TestAddPersistsAndAssignsID(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	r, err := store.Add(ctx, "Cricket", "  toss  ", t0.Add(time.Hour), t0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.ID == "" || r.Note != "toss" || r.Done || r.Alerted || r.SnoozedMinutes != 0 || !r.CreatedAt.Equal(t0) {
		t.Fatalf("Add returned %+v", *r)
	}
	if repo.saveCount() != 1 || len(repo.saved) != 1 || repo.saved[0].ID != r.ID {
		t.Fatalf("repository holds %v after %d saves, want the new reminder", repo.saved, repo.saveCount())
	}

	// Mutating the returned copy must not reach the store.
	r.Note = "changed"
	if got := store.Snapshot()[0].Note; got != "toss" {
		t.Fatalf("stored note = %q, want %q", got, "toss")
	}
}

func TestAddRejectsInvalidInputWithoutSaving(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, "Cricket", "   ", t0, t0); !errors.Is(err, appErrors.ErrValidation) {
		t.Fatalf("empty note: err = %v, want ErrValidation", err)
	}
	if _, err := store.Add(ctx, "Curling", "stones", t0, t0); !errors.Is(err, appErrors.ErrUnknownCategory) {
		t.Fatalf("unknown category: err = %v, want ErrUnknownCategory", err)
	}
	if repo.saveCount() != 0 || len(store.Snapshot()) != 0 {
		t.Fatalf("invalid input changed the store")
	}
}

func TestFailedSaveLeavesLiveSetUnchanged(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	r, err := store.Add(ctx, "Darts", "leg 1", t0, t0)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	repo.failSaves(errors.New("disk full"))
	err = store.Update(ctx, func(reminders []*entity.Reminder) ([]*entity.Reminder, bool) {
		return reminders, lifecycle.MarkDone(reminders, r.ID)
	})
	if !errors.Is(err, appErrors.ErrDatabaseOperation) {
		t.Fatalf("Update err = %v, want ErrDatabaseOperation", err)
	}
	if store.Snapshot()[0].Done {
		t.Fatalf("live set changed despite failed save")
	}
	if _, err := store.Add(ctx, "Darts", "leg 2", t0, t0); err == nil {
		t.Fatalf("Add succeeded while saves fail")
	}
	if n := len(store.Snapshot()); n != 1 {
		t.Fatalf("len = %d after failed add, want 1", n)
	}
}

func TestUnchangedUpdateIsNotSaved(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, "Snooker", "frame 1", t0, t0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}
	if repo.saveCount() != 1 {
		t.Fatalf("saves = %d, want 1", repo.saveCount())
	}
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	keep, _ := store.Add(ctx, "Boxing", "weigh-in", t0, t0)
	drop, _ := store.Add(ctx, "Rugby Union", "kick-off", t0, t0)

	if err := store.Delete(ctx, drop.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	snap := store.Snapshot()
	if len(snap) != 1 || snap[0].ID != keep.ID {
		t.Fatalf("Snapshot = %v, want only %s", snap, keep.ID)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("repository holds %d reminders, want 1", len(repo.saved))
	}
}

func TestReloadRestoresPersistedSet(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, "MotorSports", "lights out", t0, t0); err != nil {
		t.Fatalf("Add: %v", err)
	}

	again := NewTaskStore(repo, testLog)
	got := again.Load(ctx)
	if len(got) != 1 || got[0].Note != "lights out" {
		t.Fatalf("reload = %v, want the saved reminder", got)
	}
}

func TestSaveReplacesLiveSetAndSurvivesReload(t *testing.T) {
	store, repo := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, "Cricket", "old", t0, t0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	replacement := []*entity.Reminder{
		{ID: "r1", Category: "Darts", Note: "first", ScheduledAt: t0, CreatedAt: t0},
		{ID: "r2", Category: "Snooker", Note: "second", ScheduledAt: t0.Add(time.Hour), CreatedAt: t0},
	}
	if err := store.Save(ctx, replacement); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The store keeps its own copies.
	replacement[0].Note = "mutated by caller"
	snap := store.Snapshot()
	if len(snap) != 2 || snap[0].Note != "first" || snap[1].ID != "r2" {
		t.Fatalf("Snapshot = %+v, want the replacement set", snap)
	}

	reloaded := NewTaskStore(repo, testLog).Load(ctx)
	if len(reloaded) != 2 || reloaded[0].ID != "r1" || reloaded[1].ID != "r2" {
		t.Fatalf("reload = %+v, want r1 then r2", reloaded)
	}

	repo.failSaves(errors.New("disk full"))
	if err := store.Save(ctx, nil); !errors.Is(err, appErrors.ErrDatabaseOperation) {
		t.Fatalf("Save err = %v, want ErrDatabaseOperation", err)
	}
	if len(store.Snapshot()) != 2 {
		t.Fatalf("failed Save changed the live set")
	}
}

func TestConcurrentPollsAndMutationsAlertEachReminderOnce(t *testing.T) {
	store, _ := newTestStore(t)
	clk := clock.NewFixed(t0)
	svc := NewReminderService(store, clk, testLog, 5)
	ctx := context.Background()

	var due, snoozing, finishing []string
	for i := 0; i < 20; i++ {
		r, err := store.Add(ctx, "Cricket", fmt.Sprintf("due %d", i), t0.Add(-time.Duration(i)*time.Minute), t0)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		due = append(due, r.ID)
	}
	for i := 0; i < 10; i++ {
		r, err := store.Add(ctx, "Darts", fmt.Sprintf("later %d", i), t0.Add(time.Hour), t0)
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if i%2 == 0 {
			snoozing = append(snoozing, r.ID)
		} else {
			finishing = append(finishing, r.ID)
		}
	}

	var (
		mu     sync.Mutex
		counts = make(map[string]int)
		wg     sync.WaitGroup
	)
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				alerts, err := svc.PollForAlerts(ctx, clk.Now())
				if err != nil {
					t.Errorf("PollForAlerts: %v", err)
					return
				}
				mu.Lock()
				for _, a := range alerts {
					counts[a.ID]++
				}
				mu.Unlock()
			}
		}()
	}
	for _, id := range snoozing {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				if err := svc.Snooze(ctx, id, 1); err != nil {
					t.Errorf("Snooze: %v", err)
				}
			}
		}(id)
	}
	for _, id := range finishing {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := svc.MarkDone(ctx, id); err != nil {
				t.Errorf("MarkDone: %v", err)
			}
		}(id)
	}
	wg.Wait()

	for _, id := range due {
		if counts[id] != 1 {
			t.Errorf("reminder %s alerted %d times, want 1", id, counts[id])
		}
	}
	if len(counts) != len(due) {
		t.Errorf("alerted %d distinct reminders, want %d", len(counts), len(due))
	}
	for _, r := range store.Snapshot() {
		for _, id := range snoozing {
			if r.ID == id && r.SnoozedMinutes != 5 {
				t.Errorf("reminder %s snoozed %d min, want 5", id, r.SnoozedMinutes)
			}
		}
	}
}
