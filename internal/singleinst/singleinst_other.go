//go:build !windows

package singleinst

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

type flockGuard struct {
	f *os.File
}

func (g *flockGuard) Release() {
	unix.Flock(int(g.f.Fd()), unix.LOCK_UN)
	g.f.Close()
}

// Acquire takes the named instance lock via flock on a file in the temp
// directory. Returns ErrAlreadyRunning if another process holds it.
func Acquire(name string) (Guard, error) {
	path := filepath.Join(os.TempDir(), name+".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return &flockGuard{f: f}, nil
}

// Running reports whether another process currently holds the named lock.
func Running(name string) bool {
	g, err := Acquire(name)
	if err != nil {
		return err == ErrAlreadyRunning
	}
	g.Release()
	return false
}
