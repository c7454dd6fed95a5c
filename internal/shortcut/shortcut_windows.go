//go:build windows

package shortcut

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// lnkCreator writes .lnk shortcuts into the user's Start Menu programs
// directory via the WScript.Shell COM object, driven through PowerShell so
// the installer carries no COM bindings of its own.
type lnkCreator struct {
	dir string
}

func newPlatform() Creator {
	appData := os.Getenv("APPDATA")
	return &lnkCreator{
		dir: filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs"),
	}
}

func (c *lnkCreator) path(name string) string {
	return filepath.Join(c.dir, name+".lnk")
}

func (c *lnkCreator) Create(target, name string) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create programs directory: %w", err)
	}

	script := fmt.Sprintf(
		`$s=(New-Object -ComObject WScript.Shell).CreateShortcut(%s);$s.TargetPath=%s;$s.WorkingDirectory=%s;$s.Save()`,
		psQuote(c.path(name)), psQuote(target), psQuote(filepath.Dir(target)),
	)
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("create shortcut: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *lnkCreator) Remove(name string) error {
	if err := os.Remove(c.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove shortcut: %w", err)
	}
	return nil
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
