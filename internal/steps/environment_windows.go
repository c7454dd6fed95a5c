//go:build windows

package steps

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// minWindowsMajor is the oldest Windows the application supports.
const minWindowsMajor = 10

func osSupported() error {
	major, minor, build := windows.RtlGetNtVersionNumbers()
	if major < minWindowsMajor {
		return fmt.Errorf("windows %d.%d (build %d) is below the supported minimum %d.0", major, minor, build, minWindowsMajor)
	}
	return nil
}
