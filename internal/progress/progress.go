// Package progress defines the narrow surface the installer reports status
// through. The core never depends on a concrete presentation; console and
// quiet implementations live here, anything richer stays behind Sink.
package progress

// Sink receives installer status. Implementations must tolerate concurrent
// calls from the step goroutine and a cancellation source.
type Sink interface {
	// SetLines replaces the three status lines shown to the user.
	SetLines(l1, l2, l3 string)

	// SetPercent updates the completion percentage (0-100).
	SetPercent(pct int)

	// Cancelled reports whether the user asked to abort the run.
	Cancelled() bool

	// Acknowledged reports whether the user confirmed a terminal state.
	Acknowledged() bool

	// Close releases the surface. Safe to call more than once.
	Close()
}
