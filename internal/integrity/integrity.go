// Package integrity verifies installed files and downloaded archives against
// the content hashes recorded in the release catalog.
package integrity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/polarisapp/polaris-setup/internal/catalog"
	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

// HashFile calculates the SHA-256 hash of a file, lowercase hex encoded.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyArchive checks a downloaded archive against its catalog hash.
func VerifyArchive(path, expectedHash string) error {
	actualHash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	expectedHash = strings.ToLower(strings.TrimSpace(expectedHash))
	if actualHash != expectedHash {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expectedHash, actualHash)
	}

	return nil
}

// VerifyFiles checks every catalog file under installDir. It short-circuits
// on the first missing or mismatched file and reports per-file progress.
// An empty file list never verifies; a catalog entry with no files must not
// pass as intact. The walk is read-only and safe to repeat.
//
// The returned error is non-nil only for cancellation; verification failures
// are the false result.
func VerifyFiles(ctx context.Context, installDir string, files []catalog.File, sink progress.Sink) (bool, error) {
	if len(files) == 0 {
		logging.Warn("Integrity check refused: catalog entry has no files")
		return false, nil
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if sink != nil && sink.Cancelled() {
			return false, context.Canceled
		}

		path := filepath.Join(installDir, filepath.FromSlash(f.Path))
		if _, err := os.Stat(path); err != nil {
			logging.Debug("Integrity check failed: file missing", "path", f.Path, "error", err)
			return false, nil
		}

		actual, err := HashFile(path)
		if err != nil {
			logging.Debug("Integrity check failed: unreadable file", "path", f.Path, "error", err)
			return false, nil
		}
		if actual != f.Hash {
			logging.Debug("Integrity check failed: hash mismatch", "path", f.Path, "expected", f.Hash, "actual", actual)
			return false, nil
		}

		if sink != nil {
			sink.SetPercent((i + 1) * 100 / len(files))
		}
	}

	return true, nil
}
