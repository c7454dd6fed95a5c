// Package client fetches the release catalog and downloads release archives
// from the distribution server.
package client

import "errors"

var (
	// ErrNetworkError indicates a network-related failure.
	ErrNetworkError = errors.New("network error")

	// ErrDownloadFailed indicates the download could not be completed.
	ErrDownloadFailed = errors.New("download failed")

	// ErrCatalogUnavailable indicates the catalog could not be fetched or parsed.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
