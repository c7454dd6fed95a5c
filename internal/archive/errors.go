// Package archive applies a downloaded release archive over an install
// directory, including replacement of the currently running executable.
package archive

import "errors"

var (
	// ErrApplyFailed indicates extraction or file replacement failed.
	ErrApplyFailed = errors.New("archive application failed")

	// ErrUnsafePath indicates an archive entry would escape the install directory.
	ErrUnsafePath = errors.New("archive entry escapes install directory")
)
