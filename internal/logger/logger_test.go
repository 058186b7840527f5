package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("opened", "file", "a.bin", "entries", 3)

	out := buf.String()
	for _, want := range []string{`"msg":"opened"`, `"file":"a.bin"`, `"entries":3`, `"level":"INFO"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")
	log.Debug("also should not appear")
	if buf.Len() > 0 {
		t.Fatalf("expected no output below warn, got: %s", buf.String())
	}
	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message, got: %s", buf.String())
	}
}

func TestConsole(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := Console(&buf, slog.LevelInfo)
	log.Info("size mismatch", "file", "a b.bin", "expected", 46)

	out := buf.String()
	if !strings.Contains(out, "INFO  size mismatch") {
		t.Fatalf("expected padded level and message, got: %s", out)
	}
	if !strings.Contains(out, `file="a b.bin"`) || !strings.Contains(out, "expected=46") {
		t.Fatalf("expected attributes, got: %s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Fatalf("buffers are not terminals and must not be coloured: %q", out)
	}
}

func TestConsoleColor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(NewConsoleHandler(&buf, &ConsoleOptions{Level: slog.LevelInfo, Color: true}))
	log.Error("boom")
	if !strings.Contains(buf.String(), ansiRed) {
		t.Fatalf("expected red error level, got: %q", buf.String())
	}
}

func TestConsoleGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(NewConsoleHandler(&buf, nil)).With("run", 1).WithGroup("a").WithGroup("b")
	log.Info("nested", "key", "val")

	out := buf.String()
	if !strings.Contains(out, "a.b.key=val") {
		t.Fatalf("expected a.b.key=val, got: %s", out)
	}
	if !strings.Contains(out, " run=1") {
		t.Fatalf("expected ungrouped run=1, got: %s", out)
	}
}

func TestConsoleErrorValue(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := New(NewConsoleHandler(&buf, nil))
	log.Warn("failed", "err", errors.New("truncated input"))
	if !strings.Contains(buf.String(), `err="truncated input"`) {
		t.Fatalf("expected quoted error, got: %s", buf.String())
	}
}

func TestConsoleEmptyGroup(t *testing.T) {
	t.Parallel()
	h := NewConsoleHandler(&bytes.Buffer{}, nil)
	if h.WithGroup("") != slog.Handler(h) {
		t.Fatal("WithGroup empty string should return same handler")
	}
}

func TestFromFlags(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log, err := FromFlags(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("from flags: %v", err)
	}
	log.Debug("visible")
	if !strings.Contains(buf.String(), `"level":"DEBUG"`) {
		t.Fatalf("expected debug json output, got: %s", buf.String())
	}
	if _, err := FromFlags(&buf, "info", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))
	FromContext(ctx).Info("roundtrip test")
	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestNeedsQuoting(t *testing.T) {
	t.Parallel()
	tests := map[string]bool{
		"simple":    false,
		"has space": true,
		"a=b":       true,
		"":          true,
		`q"uote`:    true,
	}
	for in, want := range tests {
		if got := needsQuoting(in); got != want {
			t.Errorf("needsQuoting(%q) = %v, want %v", in, got, want)
		}
	}
}
