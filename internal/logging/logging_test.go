package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "console", zapcore.DebugLevel},
		{"INFO", "json", zapcore.InfoLevel},
		{"warn", "", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		l, err := New(tt.level, tt.format)
		if err != nil {
			t.Fatalf("New(%q, %q) error = %v", tt.level, tt.format, err)
		}
		if !l.Core().Enabled(tt.want) {
			t.Errorf("New(%q) does not enable %v", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
			t.Errorf("New(%q) enables %v", tt.level, tt.want-1)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New("loud", "console"); err == nil {
		t.Error("New(loud) error = nil, want error")
	}
	if _, err := New("info", "xml"); err == nil {
		t.Error("New(info, xml) error = nil, want error")
	}
}
