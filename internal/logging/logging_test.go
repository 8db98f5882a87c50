package logging

import (
	"log/slog"
	"testing"
)

func TestInitText(t *testing.T) {
	Init("info", "text")
	if slog.Default() == nil {
		t.Fatal("logger should not be nil after Init")
	}
}

func TestInitJSON(t *testing.T) {
	Init("debug", "json")
	if slog.Default() == nil {
		t.Fatal("logger should not be nil after Init")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"  Error  ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	SetLevel(slog.LevelWarn)
	if level.Level() != slog.LevelWarn {
		t.Errorf("SetLevel(Warn): got %v", level.Level())
	}
	SetLevel(slog.LevelInfo)
}

func TestCapture(t *testing.T) {
	c := CaptureForTest()
	defer c.Restore()

	log := For("capture-test")
	log.Info("something happened")
	log.Warn("watch out")
	log.Warn("again")

	if !c.Has(slog.LevelInfo, "something happened") {
		t.Error("info record not captured")
	}
	if c.Count(slog.LevelWarn) != 2 {
		t.Errorf("warn count: got %d, want 2", c.Count(slog.LevelWarn))
	}
	if c.Has(slog.LevelError, "nope") {
		t.Error("unexpected error record")
	}
}

func TestForDelegatesToDefault(t *testing.T) {
	// Loggers built before a capture still feed the capturing handler,
	// because For delegates to slog.Default() at call time.
	log := For("early")

	c := CaptureForTest()
	defer c.Restore()

	log.Debug("late binding")
	if !c.Has(slog.LevelDebug, "late binding") {
		t.Error("pre-capture logger did not delegate to the new default")
	}
}
