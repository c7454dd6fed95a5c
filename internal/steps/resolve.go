package steps

import (
	"context"
	"errors"

	"github.com/Masterminds/semver/v3"

	"github.com/polarisapp/polaris-setup/internal/integrity"
	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// ResolveStep decides what this run must do:
//
//   - not installed: fresh install of the branch's current version.
//   - installed, current <= installed: verify the installed version's files;
//     intact means nothing to do, damaged means re-apply the installed
//     version (repair, not upgrade).
//   - installed, current > installed: upgrade to the current version.
//
// Comparison follows semantic-version precedence; pre-releases order below
// their release.
type ResolveStep struct {
	d *Deps
}

func (s *ResolveStep) Name() string { return "resolve" }

func (s *ResolveStep) Run(ctx context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	branch, ok := run.Branch()
	if !ok {
		return pipeline.Unexpected(errors.New("resolve step ran before catalog fetch"))
	}

	// Version keys were validated at decode time.
	current, err := semver.NewVersion(branch.CurrentVersion)
	if err != nil {
		return pipeline.Unexpected(err)
	}

	installed := run.InstalledVersion()
	if installed == nil {
		info, err := branch.GetCurrentVersionInfo()
		if err != nil {
			return pipeline.Abort(err, "The update catalog is corrupted.")
		}
		logging.Info("Resolved action", "action", pipeline.ActionInstall, "version", branch.CurrentVersion)
		run.SetDecision(pipeline.ActionInstall, branch.CurrentVersion, info)
		return pipeline.Continue()
	}

	if current.GreaterThan(installed) {
		info, err := branch.GetCurrentVersionInfo()
		if err != nil {
			return pipeline.Abort(err, "The update catalog is corrupted.")
		}
		logging.Info("Resolved action", "action", pipeline.ActionUpgrade,
			"from", installed.String(), "to", branch.CurrentVersion)
		run.SetDecision(pipeline.ActionUpgrade, branch.CurrentVersion, info)
		return pipeline.Continue()
	}

	// Up to date (or ahead of the catalog): check the files on disk.
	info, err := branch.GetVersionInfo(installed.String())
	if err != nil {
		// The catalog no longer describes the installed version, so
		// there is nothing to verify or repair against. The working
		// installation stays.
		logging.Warn("Installed version absent from catalog, keeping installation", "version", installed.String())
		return pipeline.Stop()
	}

	sink.SetLines("", "Verifying installation", "")
	intact, err := integrity.VerifyFiles(ctx, s.d.Config.InstallDir, info.Files, sink)
	if err != nil {
		return pipeline.Abort(err, "")
	}
	if intact {
		logging.Info("Installation verified, nothing to do", "version", installed.String())
		sink.SetLines("", "Already up to date.", "")
		return pipeline.Stop()
	}

	logging.Warn("Installation damaged, repairing", "version", installed.String())
	run.SetDecision(pipeline.ActionRepair, installed.String(), info)
	return pipeline.Continue()
}

// repairFallback converts a repair-path failure into a Stop: the damaged
// but previously-working installation stays in place rather than the run
// failing loudly.
func repairFallback(run *pipeline.Context, err error, message string) pipeline.Result {
	if errors.Is(err, context.Canceled) {
		return pipeline.Abort(err, "")
	}
	if run.Action() == pipeline.ActionRepair {
		logging.Warn("Repair failed, keeping existing installation", "error", err)
		return pipeline.Stop()
	}
	return pipeline.Abort(err, message)
}
