package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// EnvironmentStep checks the operating system meets the supported minimum,
// refuses to touch an installation while the application is running and
// makes sure the install location is usable.
type EnvironmentStep struct {
	d                *Deps
	createInstallDir bool
}

func (s *EnvironmentStep) Name() string { return "environment" }

func (s *EnvironmentStep) Run(_ context.Context, _ *pipeline.Context, sink progress.Sink) pipeline.Result {
	sink.SetLines("", "Checking environment", "")

	if err := s.d.checkOS(); err != nil {
		return pipeline.Abort(
			fmt.Errorf("%w: %v", ErrEnvironmentUnsupported, err),
			fmt.Sprintf("%s is not supported on this version of the operating system.", s.d.Config.DisplayName),
		)
	}

	if s.d.running(s.d.Config.AppName) {
		return pipeline.Abort(
			fmt.Errorf("%w: %s is running", ErrEnvironmentUnsupported, s.d.Config.DisplayName),
			fmt.Sprintf("%s is currently running. Close it and run the installer again.", s.d.Config.DisplayName),
		)
	}

	if s.createInstallDir {
		if err := os.MkdirAll(s.d.Config.InstallDir, 0755); err != nil {
			return pipeline.Abort(
				fmt.Errorf("%w: install directory: %v", ErrEnvironmentUnsupported, err),
				"The install location is not writable.",
			)
		}
	}

	return pipeline.Continue()
}
