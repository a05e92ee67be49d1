package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNormalizeEmail(t *testing.T) {
	tc := []struct {
		name  string
		email string
		want  string
	}{
		{name: "already normal", email: "a@b.com", want: "a@b.com"},
		{name: "surrounding whitespace", email: "  a@b.com \t", want: "a@b.com"},
		{name: "mixed case", email: "Someone@Example.COM", want: "someone@example.com"},
		{name: "empty", email: "   ", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.email); got != tt.want {
				t.Errorf("NormalizeEmail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tc := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"new@b.com", true},
		{"first.last+tag@sub.example.org", true},
		{"a@b", true},
		{"", false},
		{"plainaddress", false},
		{"@b.com", false},
		{"a@", false},
		{"a@@b.com", false},
		{"a b@c.com", false},
		{"a..b@c.com", false},
		{"a@-b.com", false},
		{strings.Repeat("x", 65) + "@b.com", false},
		{"a@" + strings.Repeat("x", 250) + ".com", false},
	}

	for _, tt := range tc {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidEmail(tt.email); got != tt.want {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevelString", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := SetLogLevelString(logger, "debug"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}

		if err := SetLogLevelString(logger, "loud"); err == nil {
			t.Error("expected error for unknown level")
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Error("unknown level should not change the logger")
		}

		if err := SetLogLevelString(logger, ""); err != nil {
			t.Errorf("empty level should be ignored, got %v", err)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "taskx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		logger.Info("hello", "key", "value")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello") {
			t.Errorf("expected log line in file, got %q", string(data))
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a, b)
	}
}
