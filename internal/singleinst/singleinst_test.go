package singleinst

import (
	"fmt"
	"os"
	"testing"
	"time"
)

func uniqueName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("polaris-test-%d-%d", os.Getpid(), time.Now().UnixNano())
}

func TestAcquireRelease(t *testing.T) {
	name := uniqueName(t)

	g, err := Acquire(name)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	g.Release()

	// Reacquire after release must succeed.
	g2, err := Acquire(name)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	g2.Release()
}

func TestRunning_NotHeld(t *testing.T) {
	if Running(uniqueName(t)) {
		t.Error("Running() = true for a lock nobody holds")
	}
}
