package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.WarnLevel},
		{"bogus", log.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("json should map to JSONFormatter")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt should map to LogfmtFormatter")
	}
	if ParseFormatter("anything") != log.TextFormatter {
		t.Error("unknown should map to TextFormatter")
	}
}

func TestLoggerFansOut(t *testing.T) {
	var console, extra bytes.Buffer
	l := NewTestLogger(&console)
	l.AddSink(log.NewWithOptions(&extra, log.Options{Level: log.DebugLevel}))

	l.Info("task added", "index", 0)

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "extra": &extra} {
		out := buf.String()
		if !strings.Contains(out, "task added") || !strings.Contains(out, "index=0") {
			t.Errorf("%s sink missing record: %q", name, out)
		}
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromConfig(&buf, "warn", "text", false)

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf).With("op", "delete")
	l.Debug("done")
	if !strings.Contains(buf.String(), "op=delete") {
		t.Errorf("expected inherited field, got %q", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("nothing")
	l.Warn("nothing")
	l.Error("nothing")
	l.Debug("nothing")
	l.AddSink(nil)
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should return nil")
	}
	Discard().Info("nothing")
}

func TestNewSession(t *testing.T) {
	t.Run("creates journal under project slug", func(t *testing.T) {
		base := t.TempDir()
		work := filepath.Join(t.TempDir(), "my project")
		if err := os.Mkdir(work, 0755); err != nil {
			t.Fatal(err)
		}

		s, err := NewSession(base, work)
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		defer s.Close()

		if !strings.HasPrefix(s.Dir, base) {
			t.Errorf("Dir %q not under %q", s.Dir, base)
		}
		if _, err := os.Stat(s.LogPath); err != nil {
			t.Errorf("journal not created: %v", err)
		}
		if s.ID == "" {
			t.Error("expected session ID")
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		if _, err := NewSession("", t.TempDir()); err == nil {
			t.Fatal("expected error for empty base dir")
		}
	})

	t.Run("journal lines are json", func(t *testing.T) {
		s, err := NewSession(t.TempDir(), t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		l := Discard()
		l.AddSink(s.Logger())
		l.Info("task completed", "index", 2)
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}

		data, err := os.ReadFile(s.LogPath)
		if err != nil {
			t.Fatal(err)
		}
		var rec map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
			t.Fatalf("journal line is not JSON: %v (%q)", err, data)
		}
		if rec["msg"] != "task completed" {
			t.Errorf("msg = %v", rec["msg"])
		}
		if rec["index"] != float64(2) {
			t.Errorf("index = %v", rec["index"])
		}
	})
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"my project": "my_project",
		"a//b":       "a_b",
		"  ":         "project",
		"!!!":        "project",
		"ok-1.2":     "ok-1.2",
		"_x_":        "x",
	}
	for in, want := range tests {
		if got := safeName(in); got != want {
			t.Errorf("safeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProjectLogDir(t *testing.T) {
	work := filepath.Join(t.TempDir(), "my project")
	if err := os.Mkdir(work, 0755); err != nil {
		t.Fatal(err)
	}

	abs, err := ProjectLogDir("/var/log/todolist", work)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(abs) != "/var/log/todolist" || !strings.HasPrefix(filepath.Base(abs), "my_project-") {
		t.Errorf("ProjectLogDir = %q", abs)
	}
	again, _ := ProjectLogDir("/var/log/todolist", work)
	if again != abs {
		t.Errorf("not stable: %q then %q", abs, again)
	}

	rel, err := ProjectLogDir("logs", work)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(rel) != filepath.Join(work, "logs") {
		t.Errorf("relative base not resolved from work dir: %q", rel)
	}

	if _, err := ProjectLogDir("", work); err == nil {
		t.Error("expected error for empty base dir")
	}
}

func TestFindLatestLog(t *testing.T) {
	dir := t.TempDir()

	got, err := FindLatestLog(filepath.Join(dir, "missing"))
	if err != nil || got != "" {
		t.Fatalf("missing dir: got %q, %v", got, err)
	}

	older := filepath.Join(dir, "a.jsonl")
	newer := filepath.Join(dir, "b.jsonl")
	for _, p := range []string{older, newer, filepath.Join(dir, "ignored.txt")} {
		if err := os.WriteFile(p, []byte("{}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err = FindLatestLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("FindLatestLog = %q, want %q", got, newer)
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\n"},
		{1, "three\n"},
		{2, "two\nthree\n"},
		{10, "one\ntwo\nthree\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, path, tt.n, false); err != nil {
			t.Fatalf("TailLog(n=%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(n=%d) = %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(ctx, &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope"), 1, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTailLogFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := TailLog(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("TailLog follow: %v", err)
	}
	if buf.String() != "x\n" {
		t.Errorf("got %q", buf.String())
	}
}
