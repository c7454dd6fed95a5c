//go:build linux

package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
)

// desktopCreator writes freedesktop .desktop entries under the user's
// applications directory.
type desktopCreator struct {
	dir string
}

func newPlatform() Creator {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return &desktopCreator{dir: filepath.Join(dataDir, "applications")}
}

func (c *desktopCreator) path(name string) string {
	return filepath.Join(c.dir, name+".desktop")
}

func (c *desktopCreator) Create(target, name string) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create applications directory: %w", err)
	}

	entry := fmt.Sprintf("[Desktop Entry]\nType=Application\nName=%s\nExec=%s\nTerminal=false\n", name, target)
	if err := os.WriteFile(c.path(name), []byte(entry), 0755); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func (c *desktopCreator) Remove(name string) error {
	if err := os.Remove(c.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
