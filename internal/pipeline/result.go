// Package pipeline runs an ordered sequence of named steps over a shared
// typed context and interprets each step's result: continue, short-circuit
// successfully, or abort the run.
package pipeline

// Outcome is the control signal a step hands back to the runner.
type Outcome int

const (
	// OutcomeContinue proceeds to the next step.
	OutcomeContinue Outcome = iota

	// OutcomeStop ends the run successfully without running remaining
	// steps. Used when the desired end state is already satisfied.
	OutcomeStop

	// OutcomeAbort ends the run as a failure.
	OutcomeAbort
)

// Result is the discriminated outcome of one step. Steps classify their own
// expected failure modes; a fault the step did not anticipate travels as an
// unexpected abort rather than a panic, so the runner's dispatch is total.
type Result struct {
	Outcome Outcome

	// Err carries the failure for abort results.
	Err error

	// Message is the human-readable failure text shown to the user. The
	// runner applies a default when an aborting step leaves it empty.
	Message string

	// Unexpected marks faults the step did not classify. These escalate
	// to the telemetry collector; classified failures do not.
	Unexpected bool
}

// Continue proceeds to the next step.
func Continue() Result {
	return Result{Outcome: OutcomeContinue}
}

// Stop ends the run successfully, skipping remaining steps.
func Stop() Result {
	return Result{Outcome: OutcomeStop}
}

// Abort ends the run as a failure with a classified cause.
func Abort(err error, message string) Result {
	return Result{Outcome: OutcomeAbort, Err: err, Message: message}
}

// Unexpected ends the run as a failure with a fault the step did not
// classify. The runner reports it to telemetry.
func Unexpected(err error) Result {
	return Result{Outcome: OutcomeAbort, Err: err, Unexpected: true}
}
