//go:build !windows

package store

import (
	"os"
	"path/filepath"
)

// Open returns the platform store: a JSON file in the user config directory.
func Open() (Store, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".config")
	}
	return NewFileStore(filepath.Join(configDir, "polaris", "store.json")), nil
}
