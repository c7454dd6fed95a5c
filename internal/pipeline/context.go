package pipeline

import (
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/polarisapp/polaris-setup/internal/catalog"
)

// Action is what the version-resolution step decided the run must do.
type Action int

const (
	// ActionUndecided means resolution has not run yet.
	ActionUndecided Action = iota

	// ActionInstall is a fresh install of the branch's current version.
	ActionInstall

	// ActionUpgrade replaces an older installed version with the current one.
	ActionUpgrade

	// ActionRepair re-applies the installed version after a failed
	// integrity check.
	ActionRepair
)

func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUpgrade:
		return "upgrade"
	case ActionRepair:
		return "repair"
	default:
		return "undecided"
	}
}

// Context is the state steps share across one run. Fields are named and
// typed; earlier steps populate what later steps consume. Reads and writes
// are guarded so a step may fan work out without extra discipline, though
// the reference pipeline is strictly sequential.
//
// A Context lives for exactly one run and is never persisted.
type Context struct {
	mu sync.RWMutex

	catalog          *catalog.Catalog
	branch           catalog.BranchInfo
	haveBranch       bool
	installedVersion *semver.Version
	action           Action
	targetVersion    string
	targetInfo       catalog.VersionInfo
	archivePath      string
	applied          bool
	cleanups         []func()
}

// NewContext creates an empty run context.
func NewContext() *Context {
	return &Context{}
}

// SetCatalog records the fetched catalog.
func (c *Context) SetCatalog(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = cat
}

// Catalog returns the fetched catalog, or nil before the fetch step ran.
func (c *Context) Catalog() *catalog.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// SetBranch records the resolved release branch.
func (c *Context) SetBranch(b catalog.BranchInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.branch = b
	c.haveBranch = true
}

// Branch returns the resolved branch. ok is false before resolution.
func (c *Context) Branch() (catalog.BranchInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.branch, c.haveBranch
}

// SetInstalledVersion records the version found on disk, nil when the
// application is not installed.
func (c *Context) SetInstalledVersion(v *semver.Version) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.installedVersion = v
}

// InstalledVersion returns the installed version, nil for a fresh machine.
func (c *Context) InstalledVersion() *semver.Version {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.installedVersion
}

// SetDecision records the resolved action and its target version.
func (c *Context) SetDecision(action Action, version string, info catalog.VersionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.action = action
	c.targetVersion = version
	c.targetInfo = info
}

// Action returns what the run decided to do.
func (c *Context) Action() Action {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.action
}

// Target returns the version the run installs and its catalog record.
func (c *Context) Target() (string, catalog.VersionInfo) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.targetVersion, c.targetInfo
}

// SetArchivePath records where the downloaded archive landed.
func (c *Context) SetArchivePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.archivePath = path
}

// ArchivePath returns the downloaded archive location.
func (c *Context) ArchivePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.archivePath
}

// MarkApplied records that files were actually written this run. A Stop
// before application leaves it false, which is how the runner tells a no-op
// run from a real installation.
func (c *Context) MarkApplied() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = true
}

// Applied reports whether this run changed the installation.
func (c *Context) Applied() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.applied
}

// OnCleanup registers fn to run when the run reaches a terminal state,
// whichever state that is. Cleanups must be idempotent: a step that
// consumes a resource early still removes it itself.
func (c *Context) OnCleanup(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) runCleanups() {
	c.mu.Lock()
	fns := c.cleanups
	c.cleanups = nil
	c.mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
