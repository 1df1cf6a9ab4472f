package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/assetkit/internal/apperr"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_CONFIG_FILE", "")
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard
	err := cmd.Run(context.Background(), append([]string{"fixjson"}, args...))
	return out.String(), err
}

func TestRun_WrongArgumentCount(t *testing.T) {
	for _, args := range [][]string{nil, {"a.json", "b.json"}} {
		out, err := runCommand(t, args...)
		if !errors.Is(err, apperr.ErrUsage) {
			t.Fatalf("args %q: expected ErrUsage, got %v", args, err)
		}
		if !strings.HasPrefix(out, "Usage: fixjson <ai.json path>\n") {
			t.Errorf("args %q: missing usage line, got %q", args, out)
		}
		if !strings.Contains(out, "Example: fixjson Patalar/Classes/Source/ai.json\n") {
			t.Errorf("args %q: missing example line, got %q", args, out)
		}
	}
}

func TestRun_FixesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai.json")
	if err := os.WriteFile(path, []byte(`{"alien_characters":[{"name":"Kiki","bigBg":"home_big_bg2"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "  Kiki: bigBg home_big_bg2 → patalar_home_big_bg2\n") {
		t.Errorf("missing change line, got %q", out)
	}
	if !strings.HasSuffix(out, "✅ Fix complete!\n") {
		t.Errorf("missing completion line, got %q", out)
	}
}

func TestRun_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai.json")
	out, err := runCommand(t, path)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if out != "Error: file does not exist: "+path+"\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRun_UsageErrorUsesConfiguredLogger(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", "")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var logs bytes.Buffer
	cmd := newCommand()
	cmd.Writer = io.Discard
	cmd.ErrWriter = &logs
	err := cmd.Run(context.Background(), []string{"fixjson"})
	if !errors.Is(err, apperr.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}

	slog.Error("application error", slog.String("error", err.Error()))
	if !strings.HasPrefix(logs.String(), `{"time":`) {
		t.Errorf("expected JSON log line, got %q", logs.String())
	}
}
