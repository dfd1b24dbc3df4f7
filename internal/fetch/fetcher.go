package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrFilenameMissing is returned when the server response carries no
	// usable filename. The destination name is never derived from the URL.
	ErrFilenameMissing = errors.New("filename missing in server response")
	// errBadHTTPStatus is returned for non-200 download responses.
	errBadHTTPStatus = errors.New("unexpected http status")
)

// Fetcher downloads assets over HTTP, attributing the local filename from the
// server's Content-Disposition metadata.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher creates a fetcher with the provided request timeout and
// identifying client-agent header.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Download fetches the asset at url into scratchDir and returns the absolute
// path of the created file. Exactly one file is created per call; the caller
// owns cleanup of scratchDir.
//
// The response body is streamed to disk, never buffered wholly in memory.
func (f *Fetcher) Download(ctx context.Context, assetURL, scratchDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	response, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", assetURL, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s, %s: %w", assetURL, response.Status, errBadHTTPStatus)
	}

	filename, err := filenameFromResponse(response)
	if err != nil {
		return "", fmt.Errorf("%s: %w", assetURL, err)
	}

	outputPath, err := filepath.Abs(filepath.Join(scratchDir, filename))
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outputPath, err)
	}

	if _, err = io.Copy(outputFile, response.Body); err != nil {
		_ = outputFile.Close()

		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}

	if err = outputFile.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", outputPath, err)
	}

	return outputPath, nil
}

// filenameFromResponse extracts the filename the server declared in its
// Content-Disposition header.
func filenameFromResponse(response *http.Response) (string, error) {
	disposition := response.Header.Get("Content-Disposition")
	if disposition == "" {
		return "", ErrFilenameMissing
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return "", fmt.Errorf("parse content-disposition: %w", err)
	}

	filename := params["filename"]
	if filename == "" {
		return "", ErrFilenameMissing
	}

	// Strip any path components a hostile server might declare.
	return filepath.Base(filename), nil
}
