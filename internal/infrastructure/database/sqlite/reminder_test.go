package sqlite

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"sportreminder/internal/domain/entity"
	"sportreminder/internal/pkg/logger"
)

var testLog = logger.NewWithWriter(io.Discard, "ERROR")

func openRepo(t *testing.T, path string) *reminderRepository {
	t.Helper()
	db, err := NewDB(path, false, testLog)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	repo := NewReminderRepository(db, testLog).(*reminderRepository)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sample() []*entity.Reminder {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return []*entity.Reminder{
		{ID: "3f0e8b1c-0000-4000-8000-000000000003", Category: "Snooker", Note: "frame 1", ScheduledAt: at.Add(time.Hour), CreatedAt: at},
		{ID: "3f0e8b1c-0000-4000-8000-000000000001", Category: "Cricket", Note: "goes live", ScheduledAt: at, CreatedAt: at,
			Alerted: true, SnoozedMinutes: 15},
		{ID: "3f0e8b1c-0000-4000-8000-000000000002", Category: "Darts", Note: "settle", ScheduledAt: at, CreatedAt: at, Done: true},
	}
}

func TestSaveLoadRoundTripPreservesOrder(t *testing.T) {
	repo := openRepo(t, filepath.Join(t.TempDir(), "reminders.db"))
	ctx := context.Background()
	want := sample()

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Category != w.Category || g.Note != w.Note ||
			!g.ScheduledAt.Equal(w.ScheduledAt) || !g.CreatedAt.Equal(w.CreatedAt) ||
			g.Done != w.Done || g.Alerted != w.Alerted || g.SnoozedMinutes != w.SnoozedMinutes {
			t.Fatalf("record %d = %+v, want %+v", i, *g, *w)
		}
	}
}

func TestSaveReplacesPreviousSet(t *testing.T) {
	repo := openRepo(t, filepath.Join(t.TempDir(), "reminders.db"))
	ctx := context.Background()

	if err := repo.Save(ctx, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, sample()[1:2]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Category != "Cricket" {
		t.Fatalf("Load after replace = %+v, want only the Cricket reminder", got)
	}

	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("Load after clear = %v, %v; want empty", got, err)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.db")
	ctx := context.Background()

	first := openRepo(t, path)
	if err := first.Save(ctx, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openRepo(t, path)
	got, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}
