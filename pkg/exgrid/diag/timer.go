package diag

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrTimerState is returned when Start, Log or End are called out of order.
var ErrTimerState = errors.New("timer state")

const defaultLabel = "process"

// Timer appends timestamped progress lines to a file:
//
//	[2026/01/02 15:04:05] start : export
//	[2026/01/02 15:04:06] elapsed 00:01 : sheet Data done
//	[2026/01/02 15:04:07] end : export
//	[2026/01/02 15:04:07] total 00:02
//
// Write failures are ignored so that logging never fails the job it is
// timing.
type Timer struct {
	path string

	mu      sync.Mutex
	started bool
	begin   time.Time
	now     func() time.Time
}

// NewTimer returns a Timer writing to path, creating its directory.
func NewTimer(path string) (*Timer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("timer log path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(abs); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Timer{path: abs, now: time.Now}, nil
}

// Path returns the absolute log file path.
func (t *Timer) Path() string { return t.path }

// Start begins timing. An empty label logs as "process".
func (t *Timer) Start(label string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return fmt.Errorf("%w: already started", ErrTimerState)
	}
	t.started = true
	t.begin = t.now()
	t.writeLine(fmt.Sprintf("%s start : %s", t.prefix(), labelOrDefault(label)))
	return nil
}

// Log writes msg with the time elapsed since Start.
func (t *Timer) Log(msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return fmt.Errorf("%w: not started", ErrTimerState)
	}
	t.writeLine(fmt.Sprintf("%s elapsed %s : %s", t.prefix(), formatElapsed(t.now().Sub(t.begin)), msg))
	return nil
}

// End stops timing and writes the end and total lines. The timer may be
// started again afterwards.
func (t *Timer) End(label string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return fmt.Errorf("%w: not started", ErrTimerState)
	}
	elapsed := t.now().Sub(t.begin)
	t.writeLine(fmt.Sprintf("%s end : %s", t.prefix(), labelOrDefault(label)))
	t.writeLine(fmt.Sprintf("%s total %s", t.prefix(), formatElapsed(elapsed)))
	t.started = false
	return nil
}

func (t *Timer) prefix() string {
	return t.now().Format("[2006/01/02 15:04:05]")
}

func (t *Timer) writeLine(line string) {
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()
	_, _ = f.WriteString(line + "\n")
}

func labelOrDefault(label string) string {
	if label == "" {
		return defaultLabel
	}
	return label
}

// formatElapsed renders the minutes and seconds components of d as mm:ss.
// Hours are not shown.
func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
