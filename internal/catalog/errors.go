// Package catalog models the published release catalog: branches, versions
// and the file manifests used for integrity verification.
package catalog

import "errors"

var (
	// ErrInvalidCatalog indicates the catalog document failed schema validation.
	ErrInvalidCatalog = errors.New("invalid catalog document")

	// ErrBranchNotFound indicates the requested branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrVersionNotFound indicates the requested version does not exist in the branch.
	ErrVersionNotFound = errors.New("version not found")

	// ErrCorruptCatalog indicates a branch's current version is absent from its
	// version map. This is data corruption and fatal for the run that hits it.
	ErrCorruptCatalog = errors.New("catalog corruption: current version missing from version map")
)
