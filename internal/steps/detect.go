package steps

import (
	"context"
	"errors"

	"github.com/Masterminds/semver/v3"

	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
	"github.com/polarisapp/polaris-setup/internal/store"
)

// DetectStep reads what is already installed from the key-value store. An
// unreadable or unparseable recorded version counts as not installed; the
// run then behaves like a fresh install, which is the safe direction.
type DetectStep struct {
	d *Deps
}

func (s *DetectStep) Name() string { return "detect" }

func (s *DetectStep) Run(_ context.Context, run *pipeline.Context, _ progress.Sink) pipeline.Result {
	recorded, err := s.d.Store.Get(s.d.Config.AppNamespace, "DisplayVersion")
	if err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			logging.Warn("Could not read installed version", "error", err)
		}
		run.SetInstalledVersion(nil)
		return pipeline.Continue()
	}

	v, err := semver.NewVersion(recorded)
	if err != nil {
		logging.Warn("Recorded version does not parse, treating as not installed", "version", recorded, "error", err)
		run.SetInstalledVersion(nil)
		return pipeline.Continue()
	}

	logging.Info("Found existing installation", "version", v.String())
	run.SetInstalledVersion(v)
	return pipeline.Continue()
}

// branchName returns the release branch to follow: the stored one when
// present, the configured default otherwise.
func branchName(d *Deps) string {
	if name, err := d.Store.Get(d.Config.AppNamespace, "Branch"); err == nil && name != "" {
		return name
	}
	return d.Config.Branch
}
