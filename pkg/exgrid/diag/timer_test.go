package diag

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimerWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "job.log")
	timer, err := NewTimer(path)
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)}
	timer.now = clock.now

	if err := timer.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	clock.advance(61 * time.Second)
	if err := timer.Log("step one"); err != nil {
		t.Fatalf("Log: %v", err)
	}
	clock.advance(2 * time.Second)
	if err := timer.End("export"); err != nil {
		t.Fatalf("End: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := []string{
		"[2026/01/02 15:04:05] start : process",
		"[2026/01/02 15:05:06] elapsed 01:01 : step one",
		"[2026/01/02 15:05:08] end : export",
		"[2026/01/02 15:05:08] total 01:03",
	}
	got := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), data)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTimerStateErrors(t *testing.T) {
	timer, err := NewTimer(filepath.Join(t.TempDir(), "job.log"))
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	if err := timer.Log("x"); !errors.Is(err, ErrTimerState) {
		t.Errorf("Log before Start: got %v", err)
	}
	if err := timer.End(""); !errors.Is(err, ErrTimerState) {
		t.Errorf("End before Start: got %v", err)
	}
	if err := timer.Start("a"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := timer.Start("b"); !errors.Is(err, ErrTimerState) {
		t.Errorf("double Start: got %v", err)
	}
	if err := timer.End(""); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := timer.Start("again"); err != nil {
		t.Errorf("restart after End: %v", err)
	}
}

func TestNewTimerRequiresPath(t *testing.T) {
	if _, err := NewTimer("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestTimerSwallowsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	timer, err := NewTimer(filepath.Join(dir, "job.log"))
	if err != nil {
		t.Fatalf("NewTimer: %v", err)
	}
	// A directory at the log path makes every append fail.
	if err := os.Mkdir(timer.Path(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := timer.Start(""); err != nil {
		t.Fatalf("Start should not surface write errors: %v", err)
	}
	if err := timer.End(""); err != nil {
		t.Fatalf("End should not surface write errors: %v", err)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{1500 * time.Millisecond, "00:01"},
		{59 * time.Minute, "59:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "02:03"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
