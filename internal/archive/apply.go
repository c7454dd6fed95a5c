package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// Applier extracts release archives over an install directory.
type Applier struct {
	exePath string
}

// NewApplier creates an Applier aware of the currently running binary.
func NewApplier() (*Applier, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("resolve symlinks: %w", err)
	}
	return &Applier{exePath: exe}, nil
}

// Apply extracts archivePath over installDir. Existing files are purged
// first (except the running binary), then entries are extracted in archive
// order with progress reported per entry. The running binary is replaced via
// a temp-beside extraction and two renames, so a usable executable exists at
// its path at every observable instant.
//
// Cancellation is observed once per entry. There is no rollback of entries
// already extracted; the next run's integrity check detects and repairs a
// half-applied state.
func (a *Applier) Apply(ctx context.Context, archivePath, installDir string, sink progress.Sink) error {
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}
	installDir = resolveDir(installDir)

	if err := a.purge(installDir); err != nil {
		return fmt.Errorf("%w: purge: %v", ErrApplyFailed, err)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open archive: %v", ErrApplyFailed, err)
	}
	defer r.Close()

	total := len(r.File)
	lastPct := -1
	for i, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sink != nil && sink.Cancelled() {
			return context.Canceled
		}

		target, err := securePath(installDir, f.Name)
		if err != nil {
			return err
		}

		switch {
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("%w: create directory %s: %v", ErrApplyFailed, f.Name, err)
			}
		case a.isRunningBinary(target):
			if err := a.replaceSelf(f, target); err != nil {
				return fmt.Errorf("%w: replace running binary: %v", ErrApplyFailed, err)
			}
		default:
			if err := extractFile(f, target); err != nil {
				return fmt.Errorf("%w: extract %s: %v", ErrApplyFailed, f.Name, err)
			}
		}

		if sink != nil {
			pct := (i + 1) * 100 / total
			if pct != lastPct {
				sink.SetPercent(pct)
				lastPct = pct
			}
		}
	}

	return nil
}

// PurgeInstallDir removes every file under installDir except the running
// binary and prunes empty directories. Uninstall uses it directly.
func (a *Applier) PurgeInstallDir(installDir string) error {
	return a.purge(installDir)
}

// purge deletes everything under installDir except the running binary, then
// removes now-empty directories bottom-up. A directory that still contains
// files is skipped, not an error; a later run retries.
func (a *Applier) purge(installDir string) error {
	installDir = resolveDir(installDir)

	var dirs []string
	err := filepath.WalkDir(installDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == installDir {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if a.isRunningBinary(path) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Deepest first so empty parents go too.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		if err := os.Remove(dir); err != nil {
			logging.Debug("Keeping non-empty directory", "path", dir)
		}
	}
	return nil
}

// replaceSelf swaps the running binary for the archive's copy. The new file
// is staged beside the target, the live binary moves aside to .old, and the
// staged file renames into place. The binary path is never empty between the
// two renames failing independently: a failed second rename restores .old.
func (a *Applier) replaceSelf(f *zip.File, target string) error {
	tempPath := target + ".new"
	if err := extractFile(f, tempPath); err != nil {
		os.Remove(tempPath)
		return err
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tempPath, 0755); err != nil {
			os.Remove(tempPath)
			return fmt.Errorf("chmod: %w", err)
		}
	}

	oldPath := target + ".old"
	os.Remove(oldPath)

	if err := os.Rename(target, oldPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("move current binary aside: %w", err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		// Put the old binary back so the path stays usable.
		if restoreErr := os.Rename(oldPath, target); restoreErr != nil {
			return fmt.Errorf("move new binary into place: %v (restore also failed: %w)", err, restoreErr)
		}
		os.Remove(tempPath)
		return fmt.Errorf("move new binary into place: %w", err)
	}

	logging.Info("Replaced running binary", "path", target, "backup", oldPath)
	return nil
}

func (a *Applier) isRunningBinary(path string) bool {
	return samePath(path, a.exePath)
}

// resolveDir eliminates symlinked path components so walked paths compare
// against exePath, which EvalSymlinks resolved the same way. A directory
// that does not resolve is used as given.
func resolveDir(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved
	}
	return dir
}

func samePath(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// securePath resolves an archive entry name under installDir and rejects
// entries that would escape it.
func securePath(installDir, name string) (string, error) {
	target := filepath.Join(installDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(installDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry: %w", err)
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(target)
		return fmt.Errorf("write file: %w", err)
	}
	return out.Close()
}

// CleanupOld removes the .old sibling a previous self-update left beside the
// running binary. Called early at startup.
func CleanupOld() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	os.Remove(exe + ".old")
}
