//go:build !windows

package steps

// Go's own platform floor is newer than anything the application requires
// on non-Windows targets.
func osSupported() error { return nil }
