// Package telemetry collects unexpected failures. The orchestrator reports
// only faults a step did not classify itself; expected failure modes stay
// out of telemetry.
package telemetry

import (
	"github.com/polarisapp/polaris-setup/internal/logging"
)

// Collector receives unexpected failures.
type Collector interface {
	CaptureError(step string, err error)
}

// LogCollector writes captured failures to the structured log.
type LogCollector struct{}

// NewLogCollector creates a log-backed collector.
func NewLogCollector() *LogCollector { return &LogCollector{} }

// CaptureError records an unexpected step failure.
func (*LogCollector) CaptureError(step string, err error) {
	logging.Error("Unexpected failure", "step", step, "error", err)
}

// Discard drops everything. Used in tests.
type Discard struct{}

func (Discard) CaptureError(string, error) {}
