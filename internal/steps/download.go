package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/polarisapp/polaris-setup/internal/integrity"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// DownloadStep fetches the resolved release archive into a temporary
// location. There is no retry here; a failed run is retried by running the
// installer again.
type DownloadStep struct {
	d *Deps
}

func (s *DownloadStep) Name() string { return "download" }

func (s *DownloadStep) Run(ctx context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	version, info := run.Target()
	if run.Action() == pipeline.ActionUndecided {
		return pipeline.Unexpected(fmt.Errorf("download step ran without a resolved action"))
	}

	sink.SetLines("", fmt.Sprintf("Downloading %s %s", s.d.Config.DisplayName, version), "")

	tempDir, err := os.MkdirTemp("", "polaris-setup-*")
	if err != nil {
		return pipeline.Abort(err, "Could not create a temporary directory.")
	}
	// A run that ends before the apply step consumed the archive must not
	// leave it behind.
	run.OnCleanup(func() { os.RemoveAll(tempDir) })

	archivePath := filepath.Join(tempDir, filepath.Base(info.ReleasePath))
	if err := s.d.Client.DownloadArchive(ctx, info.ReleasePath, archivePath, sink); err != nil {
		os.RemoveAll(tempDir)
		return repairFallback(run, err, "Could not download the update.")
	}

	run.SetArchivePath(archivePath)
	return pipeline.Continue()
}

// VerifyArchiveStep checks the downloaded archive against the catalog's
// release hash before anything touches the install directory.
type VerifyArchiveStep struct {
	d *Deps
}

func (s *VerifyArchiveStep) Name() string { return "verify-archive" }

func (s *VerifyArchiveStep) Run(_ context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	_, info := run.Target()
	archivePath := run.ArchivePath()

	sink.SetLines("", "Verifying download", "")
	if err := integrity.VerifyArchive(archivePath, info.ReleaseHash); err != nil {
		os.RemoveAll(filepath.Dir(archivePath))
		run.SetArchivePath("")
		return repairFallback(run, err, "The downloaded update is corrupted.")
	}

	return pipeline.Continue()
}
