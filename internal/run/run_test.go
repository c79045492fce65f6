package run

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"plain", []string{"git", "status"}, "git status"},
		{"spaces", []string{"git", "commit", "-m", "two words"}, "git commit -m 'two words'"},
		{"empty arg", []string{"x", ""}, "x ''"},
		{"single quote", []string{"echo", "it's"}, `echo 'it'\''s'`},
		{"glob", []string{"ls", "*.yaml"}, "ls '*.yaml'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Quote(tc.argv); got != tc.want {
				t.Errorf("Quote(%v) = %q, want %q", tc.argv, got, tc.want)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(TimeoutEnv, "")
		if got := Timeout(); got != 0 {
			t.Errorf("Timeout() = %v, want 0", got)
		}
	})

	t.Run("set", func(t *testing.T) {
		t.Setenv(TimeoutEnv, "90s")
		if got := Timeout(); got != 90*time.Second {
			t.Errorf("Timeout() = %v, want 90s", got)
		}
	})

	t.Run("garbage ignored", func(t *testing.T) {
		t.Setenv(TimeoutEnv, "soon")
		if got := Timeout(); got != 0 {
			t.Errorf("Timeout() = %v, want 0", got)
		}
	})
}

func TestRunner(t *testing.T) {
	t.Run("echoes and captures output", func(t *testing.T) {
		var echo strings.Builder
		r := New(t.TempDir(), &echo)

		out, err := r.Output(context.Background(), "sh", "-c", "echo hello")
		if err != nil {
			t.Fatalf("Output() error: %v", err)
		}
		if out != "hello" {
			t.Errorf("Output() = %q, want %q", out, "hello")
		}
		if !strings.Contains(echo.String(), "$ sh -c 'echo hello'") {
			t.Errorf("missing echo line, got %q", echo.String())
		}
	})

	t.Run("non-zero exit surfaces as error", func(t *testing.T) {
		var echo strings.Builder
		r := New(t.TempDir(), &echo)

		if err := r.Command(context.Background(), "sh", "-c", "exit 3"); err == nil {
			t.Error("Command() = nil error, want exit failure")
		}
	})
}
