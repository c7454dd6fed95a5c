package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
)

// File is one installed file with its content hash.
// Hash is the lowercase hex SHA-256 of the file's raw bytes.
type File struct {
	Path string
	Hash string
}

// VersionInfo describes one published version of the application.
type VersionInfo struct {
	// ReleasePath is the server-relative location of the release archive.
	ReleasePath string

	// ReleaseHash is the lowercase hex SHA-256 of the archive itself.
	ReleaseHash string

	// Files lists every file the version installs, in archive order.
	Files []File

	// Timestamp records when the version was published.
	Timestamp time.Time
}

// BranchInfo is a named release channel with one current version.
type BranchInfo struct {
	Name           string
	CurrentVersion string
	Versions       map[string]VersionInfo
}

// Catalog is the root document describing everything available for
// distribution.
type Catalog struct {
	Branches map[string]BranchInfo
}

// GetBranch returns the named branch.
func (c *Catalog) GetBranch(name string) (BranchInfo, error) {
	b, ok := c.Branches[name]
	if !ok {
		return BranchInfo{}, fmt.Errorf("%w: %s", ErrBranchNotFound, name)
	}
	return b, nil
}

// GetCurrentVersionInfo returns the VersionInfo for the branch's current
// version. A current version missing from the version map is catalog
// corruption, not a lookup miss.
func (b BranchInfo) GetCurrentVersionInfo() (VersionInfo, error) {
	v, ok := b.Versions[b.CurrentVersion]
	if !ok {
		return VersionInfo{}, fmt.Errorf("%w: branch %q version %q", ErrCorruptCatalog, b.Name, b.CurrentVersion)
	}
	return v, nil
}

// GetVersionInfo returns the VersionInfo for a specific version.
// A miss is not fatal; the caller decides what it means.
func (b BranchInfo) GetVersionInfo(version string) (VersionInfo, error) {
	v, ok := b.Versions[version]
	if !ok {
		return VersionInfo{}, fmt.Errorf("%w: branch %q version %q", ErrVersionNotFound, b.Name, version)
	}
	return v, nil
}

// MarkCurrent sets the branch's current version. The version must already
// exist in the version map; this is where the current-version invariant is
// enforced.
func (b *BranchInfo) MarkCurrent(version string) error {
	if _, ok := b.Versions[version]; !ok {
		return fmt.Errorf("%w: branch %q version %q", ErrVersionNotFound, b.Name, version)
	}
	b.CurrentVersion = version
	return nil
}

// SortedVersions returns the branch's version strings in descending
// semantic-version order. Every key must parse as a valid semantic version.
func (b BranchInfo) SortedVersions() ([]string, error) {
	parsed := make([]*semver.Version, 0, len(b.Versions))
	byString := make(map[*semver.Version]string, len(b.Versions))
	for key := range b.Versions {
		v, err := semver.NewVersion(key)
		if err != nil {
			return nil, fmt.Errorf("%w: branch %q: version key %q: %v", ErrInvalidCatalog, b.Name, key, err)
		}
		parsed = append(parsed, v)
		byString[v] = key
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].GreaterThan(parsed[j])
	})

	keys := make([]string, len(parsed))
	for i, v := range parsed {
		keys[i] = byString[v]
	}
	return keys, nil
}

// SortedBranches returns the branch names in ascending order.
func (c *Catalog) SortedBranches() []string {
	names := make([]string, 0, len(c.Branches))
	for name := range c.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
