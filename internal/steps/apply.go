package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// ApplyStep extracts the verified archive over the install directory. There
// is no rollback of extracted files on failure; the next run's integrity
// check finds and repairs whatever was left half-done.
type ApplyStep struct {
	d *Deps
}

func (s *ApplyStep) Name() string { return "apply" }

func (s *ApplyStep) Run(ctx context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	version, _ := run.Target()
	archivePath := run.ArchivePath()

	// The archive is consumed by this step whatever the outcome.
	defer os.RemoveAll(filepath.Dir(archivePath))

	sink.SetLines("", fmt.Sprintf("Installing %s %s", s.d.Config.DisplayName, version), "")

	if err := s.d.Applier.Apply(ctx, archivePath, s.d.Config.InstallDir, sink); err != nil {
		return repairFallback(run, err, "Could not apply the update.")
	}

	run.MarkApplied()
	return pipeline.Continue()
}
