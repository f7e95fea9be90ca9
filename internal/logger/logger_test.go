package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel}, // unknown falls back to info
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		l := New(tt.level, false)
		if got := l.GetLevel(); got != tt.want {
			t.Errorf("New(%q) level = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewPretty(t *testing.T) {
	// Just exercise the console-writer path.
	l := New("info", true)
	l.Info().Msg("pretty logger constructed")
}
