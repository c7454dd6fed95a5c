// Package singleinst detects whether the managed application is currently
// running, so the installer refuses to replace files that are in use.
package singleinst

import "errors"

// ErrAlreadyRunning indicates another process holds the instance guard.
var ErrAlreadyRunning = errors.New("application is already running")

// Guard is a held instance lock. Release it when the run ends.
type Guard interface {
	Release()
}
