package steps

import (
	"context"
	"os"

	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// RemoveFilesStep deletes the installed application tree and its shortcut.
// The running installer binary survives if it lives inside the install
// directory; its .old sibling trick does not apply here, the leftover file
// is removed by the operating system's next cleanup or by hand.
type RemoveFilesStep struct {
	d *Deps
}

func (s *RemoveFilesStep) Name() string { return "remove-files" }

func (s *RemoveFilesStep) Run(_ context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	cfg := s.d.Config

	sink.SetLines("", "Removing "+cfg.DisplayName, "")

	if _, err := os.Stat(cfg.InstallDir); os.IsNotExist(err) {
		logging.Info("Nothing to remove", "dir", cfg.InstallDir)
		return pipeline.Stop()
	}

	if err := s.d.Applier.PurgeInstallDir(cfg.InstallDir); err != nil {
		return pipeline.Abort(err, "Could not remove the installed files.")
	}
	// Gone entirely unless the installer itself still lives there.
	if err := os.Remove(cfg.InstallDir); err != nil {
		logging.Debug("Install directory not empty, leaving it", "dir", cfg.InstallDir)
	}

	if s.d.Shortcuts != nil {
		if err := s.d.Shortcuts.Remove(cfg.DisplayName); err != nil {
			logging.Warn("Could not remove shortcut", "error", err)
		}
	}

	run.MarkApplied()
	return pipeline.Continue()
}

// DeregisterStep clears the store namespaces the install run wrote. Best
// effort: files are already gone, stale registration must not fail the run.
type DeregisterStep struct {
	d *Deps
}

func (s *DeregisterStep) Name() string { return "deregister" }

func (s *DeregisterStep) Run(_ context.Context, _ *pipeline.Context, sink progress.Sink) pipeline.Result {
	cfg := s.d.Config

	sink.SetLines("", "Removing registration", "")

	if err := s.d.Store.DeleteTree(cfg.AppNamespace); err != nil {
		logging.Warn("Could not clear application registration", "error", err)
	}
	if err := s.d.Store.DeleteTree(cfg.UninstallNamespace); err != nil {
		logging.Warn("Could not clear uninstall registration", "error", err)
	}

	return pipeline.Continue()
}
