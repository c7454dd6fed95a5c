// Package steps contains the concrete operations of the install and
// uninstall pipelines. Each step classifies its own expected failure modes
// into a pipeline.Result; only faults a step did not anticipate travel as
// unexpected aborts.
package steps

import (
	"context"
	"errors"

	"github.com/polarisapp/polaris-setup/internal/catalog"
	"github.com/polarisapp/polaris-setup/internal/config"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
	"github.com/polarisapp/polaris-setup/internal/singleinst"
	"github.com/polarisapp/polaris-setup/internal/store"
)

// ErrEnvironmentUnsupported indicates the machine cannot host the
// application (running instance, unusable install location).
var ErrEnvironmentUnsupported = errors.New("environment unsupported")

// Client is the slice of the update client the steps use.
type Client interface {
	FetchCatalog(ctx context.Context) (*catalog.Catalog, error)
	DownloadArchive(ctx context.Context, relativePath, destPath string, sink progress.Sink) error
}

// Applier is the slice of the archive applier the steps use.
type Applier interface {
	Apply(ctx context.Context, archivePath, installDir string, sink progress.Sink) error
	PurgeInstallDir(installDir string) error
}

// ShortcutCreator places and removes launcher shortcuts.
type ShortcutCreator interface {
	Create(target, name string) error
	Remove(name string) error
}

// Deps bundles the collaborators every step may need.
type Deps struct {
	Config    config.Config
	Client    Client
	Store     store.Store
	Applier   Applier
	Shortcuts ShortcutCreator

	// SetupPath is the installer's own executable path, recorded as the
	// uninstall command.
	SetupPath string

	// Running reports whether the managed application is currently
	// running. Defaults to the single-instance guard.
	Running func(name string) bool

	// CheckOS reports whether the operating system can host the
	// application. Defaults to the platform version check.
	CheckOS func() error
}

func (d *Deps) running(name string) bool {
	if d.Running != nil {
		return d.Running(name)
	}
	return singleinst.Running(name)
}

func (d *Deps) checkOS() error {
	if d.CheckOS != nil {
		return d.CheckOS()
	}
	return osSupported()
}

// InstallSteps returns the install pipeline in execution order.
func InstallSteps(d *Deps) []pipeline.Step {
	return []pipeline.Step{
		&EnvironmentStep{d: d, createInstallDir: true},
		&DetectStep{d: d},
		&FetchCatalogStep{d: d},
		&ResolveStep{d: d},
		&DownloadStep{d: d},
		&VerifyArchiveStep{d: d},
		&ApplyStep{d: d},
		&RegisterStep{d: d},
		&ShortcutStep{d: d},
	}
}

// UninstallSteps returns the uninstall pipeline in execution order.
func UninstallSteps(d *Deps) []pipeline.Step {
	return []pipeline.Step{
		&EnvironmentStep{d: d},
		&RemoveFilesStep{d: d},
		&DeregisterStep{d: d},
	}
}
