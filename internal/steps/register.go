package steps

import (
	"context"
	"fmt"

	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// RegisterStep records the installation in the key-value store: the values
// the next run reads back, plus the platform uninstall registration.
type RegisterStep struct {
	d *Deps
}

func (s *RegisterStep) Name() string { return "register" }

func (s *RegisterStep) Run(_ context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	version, _ := run.Target()
	branch, _ := run.Branch()
	cfg := s.d.Config

	sink.SetLines("", "Registering installation", "")

	app := map[string]string{
		"DisplayVersion": version,
		"Branch":         branch.Name,
		"InstallPath":    cfg.InstallDir,
	}
	for key, value := range app {
		if err := s.d.Store.Set(cfg.AppNamespace, key, value); err != nil {
			return pipeline.Abort(err, "Could not record the installation.")
		}
	}

	uninstall := map[string]string{
		"DisplayName":     cfg.DisplayName,
		"DisplayVersion":  version,
		"InstallLocation": cfg.InstallDir,
		"UninstallString": fmt.Sprintf("%q --uninstall", s.d.SetupPath),
	}
	for key, value := range uninstall {
		if err := s.d.Store.Set(cfg.UninstallNamespace, key, value); err != nil {
			return pipeline.Abort(err, "Could not record the installation.")
		}
	}

	logging.Info("Installation registered", "version", version, "branch", branch.Name)
	return pipeline.Continue()
}

// ShortcutStep creates the launcher shortcut. Best effort: a machine where
// shortcut creation fails still has a working installation.
type ShortcutStep struct {
	d *Deps
}

func (s *ShortcutStep) Name() string { return "shortcut" }

func (s *ShortcutStep) Run(_ context.Context, _ *pipeline.Context, _ progress.Sink) pipeline.Result {
	if !s.d.Config.Shortcut || s.d.Shortcuts == nil {
		return pipeline.Continue()
	}

	if err := s.d.Shortcuts.Create(s.d.Config.BinaryPath(), s.d.Config.DisplayName); err != nil {
		logging.Warn("Could not create shortcut", "error", err)
	}
	return pipeline.Continue()
}
