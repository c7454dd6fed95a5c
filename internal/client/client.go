package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/polarisapp/polaris-setup/internal/catalog"
	"github.com/polarisapp/polaris-setup/internal/logging"
	"github.com/polarisapp/polaris-setup/internal/progress"
)

const (
	userAgent = "Polaris-Setup/1.0"

	// catalogMaxSize bounds the catalog document read.
	catalogMaxSize = 8 << 20

	// downloadChunkSize is the streaming copy buffer; cancellation is
	// observed between chunks, so it also bounds cancel latency.
	downloadChunkSize = 64 << 10
)

// Client talks to the distribution server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Minute, // Large archives may take time
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) url(relativePath string) string {
	return c.baseURL + "/" + strings.TrimLeft(relativePath, "/")
}

// FetchCatalog retrieves and decodes the release catalog. Every failure mode
// (network, status, parse) comes back as an error; the caller decides whether
// a missing catalog is fatal based on whether an installation already exists.
func (c *Client) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("catalog.json"), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, catalogMaxSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	cat, err := catalog.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return cat, nil
}

// probeSize issues a HEAD request to learn the archive's total length.
func (c *Client) probeSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HEAD status %d", ErrDownloadFailed, resp.StatusCode)
	}
	if resp.ContentLength <= 0 {
		return 0, fmt.Errorf("%w: server did not report Content-Length", ErrDownloadFailed)
	}
	return resp.ContentLength, nil
}

// DownloadArchive streams a release archive to destPath. The archive lands in
// a .part sibling first and is renamed into place only on success, so a file
// at destPath always means a completed download. Progress is reported only
// when the percentage changes; cancellation is observed once per chunk and
// leaves nothing at destPath.
//
// The client never retries; re-running the installer is the retry mechanism.
func (c *Client) DownloadArchive(ctx context.Context, relativePath, destPath string, sink progress.Sink) error {
	url := c.url(relativePath)

	total, err := c.probeSize(ctx, url)
	if err != nil {
		return err
	}
	logging.Debug("Downloading archive", "url", url, "size", total)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	partPath := destPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	cleanup := func() {
		out.Close()
		os.Remove(partPath)
	}

	var written int64
	lastPct := -1
	buf := make([]byte, downloadChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		if sink != nil && sink.Cancelled() {
			cleanup()
			return context.Canceled
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				cleanup()
				return fmt.Errorf("%w: %v", ErrDownloadFailed, writeErr)
			}
			written += int64(n)
			if sink != nil {
				pct := int(written * 100 / total)
				if pct != lastPct {
					sink.SetPercent(pct)
					lastPct = pct
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			cleanup()
			return fmt.Errorf("%w: %v", ErrDownloadFailed, readErr)
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("close file: %w", err)
	}
	if written != total {
		os.Remove(partPath)
		return fmt.Errorf("%w: got %d of %d bytes", ErrDownloadFailed, written, total)
	}
	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}
