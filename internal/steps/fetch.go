package steps

import (
	"context"

	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/pipeline"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// FetchCatalogStep retrieves the release catalog and resolves the branch to
// follow. A machine with a working installation keeps it when the server is
// unreachable; a fresh machine has nothing to fall back to.
type FetchCatalogStep struct {
	d *Deps
}

func (s *FetchCatalogStep) Name() string { return "fetch-catalog" }

func (s *FetchCatalogStep) Run(ctx context.Context, run *pipeline.Context, sink progress.Sink) pipeline.Result {
	sink.SetLines("", "Contacting update server", "")

	cat, err := s.d.Client.FetchCatalog(ctx)
	if err != nil {
		if run.InstalledVersion() != nil {
			logging.Warn("Catalog unavailable, keeping existing installation", "error", err)
			return pipeline.Stop()
		}
		return pipeline.Abort(err, "Could not reach the update server.")
	}
	run.SetCatalog(cat)

	name := branchName(s.d)
	branch, err := cat.GetBranch(name)
	if err != nil {
		return pipeline.Abort(err, "The release channel \""+name+"\" does not exist.")
	}
	run.SetBranch(branch)

	return pipeline.Continue()
}
