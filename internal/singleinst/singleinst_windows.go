//go:build windows

package singleinst

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type mutexGuard struct {
	handle windows.Handle
}

func (g *mutexGuard) Release() {
	windows.ReleaseMutex(g.handle)
	windows.CloseHandle(g.handle)
}

// Acquire takes a named Windows mutex. Returns ErrAlreadyRunning if another
// process already owns a mutex of the same name.
func Acquire(name string) (Guard, error) {
	namePtr, err := windows.UTF16PtrFromString("Global\\" + name)
	if err != nil {
		return nil, fmt.Errorf("encode mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, true, namePtr)
	if err != nil {
		if err == windows.ERROR_ALREADY_EXISTS {
			if handle != 0 {
				windows.CloseHandle(handle)
			}
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("create mutex: %w", err)
	}
	return &mutexGuard{handle: handle}, nil
}

// Running reports whether another process currently owns the named mutex.
func Running(name string) bool {
	g, err := Acquire(name)
	if err != nil {
		return err == ErrAlreadyRunning
	}
	g.Release()
	return false
}
