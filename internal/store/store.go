// Package store persists named values under hierarchical namespaces: the
// installed version, branch and install path the installer reads back on the
// next run. Backed by the Windows registry there and by a JSON file
// elsewhere.
package store

import "errors"

// ErrNotExist indicates the requested value is not present.
var ErrNotExist = errors.New("value not present")

// Store reads and writes named string values under a namespace path.
type Store interface {
	// Get returns the value stored under path/key, or ErrNotExist.
	Get(path, key string) (string, error)

	// Set stores value under path/key, creating the namespace as needed.
	Set(path, key, value string) error

	// Delete removes a single value. Removing an absent value is not an error.
	Delete(path, key string) error

	// DeleteTree removes a namespace and everything under it.
	DeleteTree(path string) error
}
