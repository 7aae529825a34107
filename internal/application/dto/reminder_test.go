package dto

import (
	"errors"
	"testing"
	"time"

	appErrors "sportreminder/internal/pkg/errors"
)

func TestScheduledUTCFromWallClockIsUTC(t *testing.T) {
	// A non-UTC process zone must not shift wall-clock input.
	prev := time.Local
	time.Local = time.FixedZone("Test", -7*3600)
	defer func() { time.Local = prev }()

	req := AddReminderRequest{Date: "2024-01-01", Time: "12:00"}
	got, err := req.ScheduledUTC()
	if err != nil {
		t.Fatalf("ScheduledUTC: %v", err)
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	req.Time = "12:00:30"
	got, err = req.ScheduledUTC()
	if err != nil || !got.Equal(want.Add(30*time.Second)) {
		t.Fatalf("with seconds: got %v, %v", got, err)
	}
}

func TestScheduledUTCFromRFC3339(t *testing.T) {
	req := AddReminderRequest{ScheduledAt: "2024-01-01T14:00:00+02:00", Date: "ignored", Time: "ignored"}
	got, err := req.ScheduledUTC()
	if err != nil {
		t.Fatalf("ScheduledUTC: %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)) || got.Location() != time.UTC {
		t.Fatalf("got %v, want 12:00 UTC", got)
	}
}

func TestScheduledUTCRejectsBadInput(t *testing.T) {
	for _, req := range []AddReminderRequest{
		{},
		{Date: "2024-01-01"},
		{Date: "01/01/2024", Time: "12:00"},
		{ScheduledAt: "tomorrow noon"},
	} {
		if _, err := req.ScheduledUTC(); !errors.Is(err, appErrors.ErrInvalidDateTime) {
			t.Errorf("%+v: got %v, want ErrInvalidDateTime", req, err)
		}
	}
}
