// Package jsonfile stores the reminder set as an indented JSON array.
// Writes go to a temp file in the same directory and are renamed over the
// target, so readers see either the old or the new set in full.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sportreminder/internal/domain/constant"
	"sportreminder/internal/domain/entity"
	"sportreminder/internal/domain/repository"
	appErrors "sportreminder/internal/pkg/errors"
	"sportreminder/internal/pkg/logger"
)

// record is the on-disk shape of a reminder. Timestamps are RFC 3339 UTC
// strings with second precision.
type record struct {
	ID             string `json:"id"`
	Category       string `json:"category"`
	Note           string `json:"note"`
	ScheduledAt    string `json:"scheduled_at"`
	CreatedAt      string `json:"created_at"`
	Done           bool   `json:"done"`
	Alerted        bool   `json:"alerted"`
	SnoozedMinutes int    `json:"snoozed_minutes"`
}

type reminderRepository struct {
	path string
	log  logger.Logger
	mu   sync.Mutex
}

// NewReminderRepository creates a new file-backed ReminderRepository at path.
// The parent directory is created if needed.
func NewReminderRepository(path string, log logger.Logger) (repository.ReminderRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("🔴 ERROR: failed to create store directory %s: %w", dir, err)
		}
	}
	return &reminderRepository{path: path, log: log}, nil
}

// Load reads the reminder file. A corrupt file is moved aside to
// <path>.corrupt-<timestamp> and reported as ErrCorruptStore.
func (r *reminderRepository) Load(ctx context.Context) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*entity.Reminder{}, nil
		}
		return nil, fmt.Errorf("🔴 ERROR: failed to read reminder file %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*entity.Reminder{}, nil
	}

	reminders, decodeErr := r.decode(data)
	if decodeErr != nil {
		backup := r.quarantine()
		return nil, fmt.Errorf("%w: %s (moved to %s): %v", appErrors.ErrCorruptStore, r.path, backup, decodeErr)
	}
	return reminders, nil
}

// Save replaces the reminder file with reminders.
func (r *reminderRepository) Save(ctx context.Context, reminders []*entity.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(reminders)
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to encode reminders: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to create temp file for %s: %w", r.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("🔴 ERROR: failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("🔴 ERROR: failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("🔴 ERROR: failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("🔴 ERROR: failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("🔴 ERROR: failed to replace %s: %w", r.path, err)
	}
	r.log.Debug(fmt.Sprintf("Saved %d reminders to %s", len(reminders), r.path))
	return nil
}

// Close is a no-op; the file is opened per call.
func (r *reminderRepository) Close() error {
	return nil
}

// quarantine renames the current file so the next Save cannot overwrite the
// only copy of unreadable data. Returns the new path, or "" if the rename failed.
func (r *reminderRepository) quarantine() string {
	backup := fmt.Sprintf("%s.corrupt-%s", r.path, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(r.path, backup); err != nil {
		r.log.Error(fmt.Sprintf("Failed to move corrupt reminder file %s aside", r.path), err)
		return ""
	}
	r.log.Warn(fmt.Sprintf("Moved corrupt reminder file %s to %s", r.path, backup))
	return backup
}

func encode(reminders []*entity.Reminder) ([]byte, error) {
	records := make([]record, len(reminders))
	for i, rem := range reminders {
		scheduledAt, err := formatTime(rem.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: scheduled_at: %w", rem.ID, err)
		}
		createdAt, err := formatTime(rem.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: created_at: %w", rem.ID, err)
		}
		records[i] = record{
			ID:             rem.ID,
			Category:       rem.Category,
			Note:           rem.Note,
			ScheduledAt:    scheduledAt,
			CreatedAt:      createdAt,
			Done:           rem.Done,
			Alerted:        rem.Alerted,
			SnoozedMinutes: rem.SnoozedMinutes,
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// decode rejects records that break the set's invariants: a missing or
// repeated id, or an empty note. Unknown categories are kept and logged.
func (r *reminderRepository) decode(data []byte) ([]*entity.Reminder, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	reminders := make([]*entity.Reminder, 0, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("record %d has no id", i)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("record %d repeats id %s", i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if strings.TrimSpace(rec.Note) == "" {
			return nil, fmt.Errorf("record %s has an empty note", rec.ID)
		}
		if !constant.IsCategory(rec.Category) {
			r.log.Warn(fmt.Sprintf("Reminder %s in %s has unknown category %q", rec.ID, r.path, rec.Category))
		}
		scheduledAt, err := parseTime(rec.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("record %s: scheduled_at: %w", rec.ID, err)
		}
		createdAt, err := parseTime(rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("record %s: created_at: %w", rec.ID, err)
		}
		reminders = append(reminders, &entity.Reminder{
			ID:             rec.ID,
			Category:       rec.Category,
			Note:           rec.Note,
			ScheduledAt:    scheduledAt,
			CreatedAt:      createdAt,
			Done:           rec.Done,
			Alerted:        rec.Alerted,
			SnoozedMinutes: rec.SnoozedMinutes,
		})
	}
	return reminders, nil
}

// formatTime fails for instants parseTime could not read back.
func formatTime(t time.Time) (string, error) {
	t = t.UTC().Truncate(time.Second)
	s := t.Format(time.RFC3339)
	if back, err := parseTime(s); err != nil || !back.Equal(t) {
		return "", fmt.Errorf("%w: %s cannot be stored", appErrors.ErrInvalidDateTime, s)
	}
	return s, nil
}

// parseTime accepts both "Z" and "+00:00" style offsets.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
