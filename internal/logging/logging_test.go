package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		want          zap.AtomicLevel
		wantErr       bool
	}{
		{"debug", "console", zap.NewAtomicLevelAt(zap.DebugLevel), false},
		{" WARN ", "json", zap.NewAtomicLevelAt(zap.WarnLevel), false},
		{"info", "", zap.NewAtomicLevelAt(zap.InfoLevel), false},
		{"loud", "json", zap.AtomicLevel{}, true},
		{"info", "xml", zap.AtomicLevel{}, true},
	}

	for _, tt := range tests {
		logger, err := New(tt.level, tt.format)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q, %q): expected error", tt.level, tt.format)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q, %q): unexpected error %v", tt.level, tt.format, err)
			continue
		}
		want := tt.want.Level()
		if !logger.Core().Enabled(want) {
			t.Errorf("New(%q, %q): expected %s enabled", tt.level, tt.format, want)
		}
		if want > zap.DebugLevel && logger.Core().Enabled(want-1) {
			t.Errorf("New(%q, %q): expected %s disabled", tt.level, tt.format, want-1)
		}
	}
}
