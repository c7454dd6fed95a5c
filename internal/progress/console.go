package progress

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Console is a terminal-backed Sink. Status lines print as they change and
// the percentage redraws in place on the last line.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	lines     [3]string
	lastPct   int
	cancelled atomic.Bool
	acked     atomic.Bool
	ackOnce   sync.Once
	closeOnce sync.Once
	stdin     io.Reader
}

// NewConsole creates a console sink writing to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout, lastPct: -1, stdin: os.Stdin}
}

// SetLines prints any status line that changed.
func (c *Console) SetLines(l1, l2, l3 string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := [3]string{l1, l2, l3}
	for i, line := range next {
		if line != c.lines[i] && line != "" {
			if c.lastPct >= 0 {
				fmt.Fprintln(c.out)
				c.lastPct = -1
			}
			fmt.Fprintln(c.out, line)
		}
	}
	c.lines = next
}

// SetPercent redraws the progress line when the value changes.
func (c *Console) SetPercent(pct int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pct == c.lastPct {
		return
	}
	c.lastPct = pct
	fmt.Fprintf(c.out, "\rProgress: %d%%", pct)
	if pct >= 100 {
		fmt.Fprintln(c.out)
		c.lastPct = -1
	}
}

// Cancel flags the run as cancelled. Wired to SIGINT by the caller.
func (c *Console) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether Cancel was called.
func (c *Console) Cancelled() bool {
	return c.cancelled.Load()
}

// Acknowledged reports whether the user pressed Enter. The stdin reader
// starts on first call so a run that never reaches a terminal prompt never
// consumes input.
func (c *Console) Acknowledged() bool {
	if c.cancelled.Load() {
		return true
	}
	c.ackOnce.Do(func() {
		fmt.Fprintln(c.out, "Press Enter to close.")
		go func() {
			r := bufio.NewReader(c.stdin)
			_, _ = r.ReadString('\n')
			c.acked.Store(true)
		}()
	})
	return c.acked.Load()
}

// Close finishes the progress line if one is pending.
func (c *Console) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.lastPct >= 0 {
			fmt.Fprintln(c.out)
			c.lastPct = -1
		}
	})
}
