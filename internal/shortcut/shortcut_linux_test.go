//go:build linux

package shortcut

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDesktopCreator(t *testing.T) {
	dir := t.TempDir()
	c := &desktopCreator{dir: dir}

	if err := c.Create("/opt/polaris/polaris", "Polaris"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Polaris.desktop"))
	if err != nil {
		t.Fatalf("read desktop entry: %v", err)
	}
	entry := string(data)
	if !strings.Contains(entry, "Exec=/opt/polaris/polaris") {
		t.Errorf("entry missing Exec line:\n%s", entry)
	}
	if !strings.Contains(entry, "Name=Polaris") {
		t.Errorf("entry missing Name line:\n%s", entry)
	}

	if err := c.Remove("Polaris"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Polaris.desktop")); !os.IsNotExist(err) {
		t.Error("desktop entry survived Remove")
	}

	// Removing again is fine.
	if err := c.Remove("Polaris"); err != nil {
		t.Errorf("second Remove errored: %v", err)
	}
}
