package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/progress"
	"github.com/polarisapp/polaris-setup/internal/telemetry"
)

// State is the runner's lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
	StateStopped
	StateAborted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	case StateAborted:
		return "aborted"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the state is a successful terminal state.
func (s State) Succeeded() bool {
	return s == StateCompleted || s == StateStopped
}

// Step is one named operation of a run.
type Step interface {
	Name() string
	Run(ctx context.Context, run *Context, sink progress.Sink) Result
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, run *Context, sink progress.Sink) Result
}

func (s StepFunc) Name() string { return s.StepName }

func (s StepFunc) Run(ctx context.Context, run *Context, sink progress.Sink) Result {
	return s.Fn(ctx, run, sink)
}

const defaultFailureMessage = "Installation failed."

// Runner drives a step list to a terminal state. It owns the run Context
// and the progress sink for the duration of one run.
type Runner struct {
	title       string
	doneMessage string
	steps       []Step
	sink        progress.Sink
	collector   telemetry.Collector

	// autoClose skips the terminal acknowledgment wait.
	autoClose bool

	// pollInterval paces the acknowledgment wait loop. The progress
	// surface is a foreign component with no notification channel, so the
	// runner polls it.
	pollInterval time.Duration

	state State
}

// NewRunner creates a runner for one run. doneMessage is shown when the run
// completes having actually changed the installation.
func NewRunner(title, doneMessage string, steps []Step, sink progress.Sink, collector telemetry.Collector, autoClose bool) *Runner {
	return &Runner{
		title:        title,
		doneMessage:  doneMessage,
		steps:        steps,
		sink:         sink,
		collector:    collector,
		autoClose:    autoClose,
		pollInterval: 100 * time.Millisecond,
		state:        StateNotStarted,
	}
}

// State returns the runner's current state.
func (r *Runner) State() State { return r.state }

// Run executes the step list and returns the terminal state. The progress
// sink is closed exactly once and registered cleanups run, whichever
// terminal state is reached.
func (r *Runner) Run(ctx context.Context, run *Context) State {
	defer r.sink.Close()
	defer run.runCleanups()

	r.state = StateRunning
	for _, step := range r.steps {
		if ctx.Err() != nil || r.sink.Cancelled() {
			logging.Info("Run cancelled", "before_step", step.Name())
			r.state = StateCancelled
			return r.state
		}

		// Clear transient status so a step never shows its
		// predecessor's text.
		r.sink.SetLines(r.title, "", "")

		logging.Debug("Running step", "step", step.Name())
		res := step.Run(ctx, run, r.sink)

		switch res.Outcome {
		case OutcomeContinue:
			continue

		case OutcomeStop:
			logging.Info("Run stopped early", "step", step.Name())
			r.state = StateStopped
			return r.state

		case OutcomeAbort:
			if errors.Is(res.Err, context.Canceled) {
				logging.Info("Run cancelled", "step", step.Name())
				r.state = StateCancelled
				return r.state
			}
			r.fail(ctx, step, res)
			return r.state
		}
	}

	r.state = StateCompleted
	if run.Applied() {
		r.sink.SetLines(r.title, r.doneMessage, "")
		r.sink.SetPercent(100)
		if !r.autoClose {
			r.waitForAck(ctx)
		}
	}
	return r.state
}

func (r *Runner) fail(ctx context.Context, step Step, res Result) {
	r.state = StateAborted

	if res.Unexpected && r.collector != nil {
		r.collector.CaptureError(step.Name(), res.Err)
	} else {
		logging.Error("Step failed", "step", step.Name(), "error", res.Err)
	}

	message := res.Message
	if message == "" {
		message = defaultFailureMessage
	}
	r.sink.SetLines(r.title, message, "Run the installer again to retry.")
	r.waitForAck(ctx)
}

// waitForAck polls the progress surface until the user acknowledges the
// terminal state or cancels.
func (r *Runner) waitForAck(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		if r.sink.Acknowledged() || r.sink.Cancelled() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
