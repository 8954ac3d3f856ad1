package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want slog.Level
	}{
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" info ", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"", slog.LevelDebug},
		{"nonsense", slog.LevelDebug},
	}

	for _, tc := range cases {
		if got := Level(tc.in); got != tc.want {
			t.Errorf("Level(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewHandlesLevels(t *testing.T) {
	t.Parallel()

	logger := New("info")
	if logger == nil {
		t.Fatal("expected a logger")
	}
	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("debug should be disabled at info level")
	}
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Fatal("info should be enabled at info level")
	}
}
