package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevelFilterDropsLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Debug("debug line")
	log.Info("info line")
	log.Warn("warn line")
	log.Error("error line", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Fatalf("expected DEBUG/INFO to be filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] ⚠️ warn line") {
		t.Fatalf("missing warn line in:\n%s", out)
	}
	if !strings.Contains(out, "[ERROR] 🔴 error line - boom") {
		t.Fatalf("missing error line in:\n%s", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "chatty")

	log.Debug("hidden")
	log.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug should be filtered at INFO, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("info line missing, got %q", buf.String())
	}
}

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"DEBUG", "info", "Warn", "ERROR"} {
		if !ValidLevel(lvl) {
			t.Errorf("ValidLevel(%q) = false, want true", lvl)
		}
	}
	if ValidLevel("TRACE") {
		t.Errorf("ValidLevel(TRACE) = true, want false")
	}
}
