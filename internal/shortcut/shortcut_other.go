//go:build !linux && !windows

package shortcut

import "errors"

// ErrUnsupported indicates shortcut creation is not available on this platform.
var ErrUnsupported = errors.New("shortcuts not supported on this platform")

type noopCreator struct{}

func newPlatform() Creator { return noopCreator{} }

func (noopCreator) Create(_, _ string) error { return ErrUnsupported }

func (noopCreator) Remove(_ string) error { return nil }
