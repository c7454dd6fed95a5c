// Package shortcut creates launcher entries for the installed application.
// The core treats shortcut creation as best effort; failures are logged by
// the caller, never fatal.
package shortcut

// Creator places a launcher shortcut for a target executable.
type Creator interface {
	// Create writes a shortcut named name pointing at target.
	Create(target, name string) error

	// Remove deletes a previously created shortcut. Removing an absent
	// shortcut is not an error.
	Remove(name string) error
}

// New returns the platform shortcut creator.
func New() Creator {
	return newPlatform()
}
