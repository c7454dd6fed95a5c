package progress

// Quiet is a Sink that discards all output and never blocks on the user.
// Used for --quiet runs; the process exit code is the only result surface.
type Quiet struct{}

// NewQuiet creates a quiet sink.
func NewQuiet() *Quiet { return &Quiet{} }

func (*Quiet) SetLines(_, _, _ string) {}

func (*Quiet) SetPercent(int) {}

func (*Quiet) Cancelled() bool { return false }

func (*Quiet) Acknowledged() bool { return true }

func (*Quiet) Close() {}
