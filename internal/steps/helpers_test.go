package steps

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/polarisapp/polaris-setup/internal/catalog"
	"github.com/polarisapp/polaris-setup/internal/config"
	"github.com/polarisapp/polaris-setup/internal/progress"
	"github.com/polarisapp/polaris-setup/internal/store"
)

func hashOf(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseURL = "https://dist.test"
	cfg.InstallDir = filepath.Join(t.TempDir(), "polaris")
	return cfg
}

func testDeps(t *testing.T, cfg config.Config) *Deps {
	t.Helper()
	return &Deps{
		Config:    cfg,
		Client:    &fakeClient{},
		Store:     store.NewFileStore(filepath.Join(t.TempDir(), "store.json")),
		Applier:   &fakeApplier{},
		Shortcuts: &fakeShortcuts{},
		SetupPath: filepath.Join(cfg.InstallDir, "polaris-setup"),
		Running:   func(string) bool { return false },
	}
}

func writeInstalled(t *testing.T, dir, name string, content []byte) catalog.File {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
	return catalog.File{Path: name, Hash: hashOf(content)}
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeClient struct {
	catalog     *catalog.Catalog
	catalogErr  error
	archive     []byte
	downloadErr error
	downloads   int
}

func (f *fakeClient) FetchCatalog(context.Context) (*catalog.Catalog, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeClient) DownloadArchive(_ context.Context, _, destPath string, _ progress.Sink) error {
	f.downloads++
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(destPath, f.archive, 0644)
}

type fakeApplier struct {
	applyErr error
	applied  []string
	purged   []string
}

func (f *fakeApplier) Apply(_ context.Context, archivePath, installDir string, _ progress.Sink) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, archivePath+"->"+installDir)
	return nil
}

func (f *fakeApplier) PurgeInstallDir(installDir string) error {
	f.purged = append(f.purged, installDir)
	return nil
}

type fakeShortcuts struct {
	created []string
	removed []string
	err     error
}

func (f *fakeShortcuts) Create(target, name string) error {
	f.created = append(f.created, name+"->"+target)
	return f.err
}

func (f *fakeShortcuts) Remove(name string) error {
	f.removed = append(f.removed, name)
	return f.err
}

type nopSink struct{}

func (nopSink) SetLines(_, _, _ string) {}
func (nopSink) SetPercent(int)          {}
func (nopSink) Cancelled() bool         { return false }
func (nopSink) Acknowledged() bool      { return true }
func (nopSink) Close()                  {}

var errNetwork = errors.New("connection refused")
