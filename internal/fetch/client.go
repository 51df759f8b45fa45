package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/musicpartmate/partmate/internal/media"
)

// retryExponent drives the exponential backoff between attempts:
// cooldown * retryExponent^tries seconds.
const retryExponent = 4.0

// Client wraps HTTP operations for retrieving song link targets.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Retry with exponential cooldown, honoring context cancellation
//   - File download streamed to disk with a collision-safe name
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := fetch.NewClient(7, 0.2)
//
//	// Download a linked score into the song's folder
//	local, err := client.Fetch(ctx, "https://example.com/scores/imagine.pdf", folder.Documents())
//
//	// Probe the remote size first
//	size, err := client.FileSize(ctx, "https://example.com/scores/imagine.pdf")
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
	cooldown   float64

	// OnProgress, when set, is called during Fetch with the running
	// byte count and the expected total (-1 when unknown).
	OnProgress func(written, total int64)
}

// NewClient creates a client for downloading link targets.
//
// Parameters:
//   - maxRetries: total attempts per download (values below 1 mean a single attempt)
//   - cooldown: base wait in seconds between attempts, grown exponentially
//
// The client is configured with a 60 second timeout and a "partmate"
// User-Agent header.
func NewClient(maxRetries int, cooldown float64) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent:  "partmate",
		maxRetries: maxRetries,
		cooldown:   cooldown,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Fetch downloads the target of a URL into destDir and returns the
// local path it was written to.
//
// The file name is taken from the URL path, sanitized for the local
// filesystem, and suffixed with _1, _2, ... when a file of that name
// already exists. URLs without a usable path component fall back to
// the name "download".
//
// Failed attempts are retried up to the configured maximum, waiting
// between attempts with exponential backoff. Cancelling the context
// skips any remaining wait and aborts the download.
//
// Returns an error if:
//   - The destination directory cannot be created
//   - All attempts fail
//
// Example:
//
//	local, err := client.Fetch(ctx, song.Links[0], folder.Documents())
func (c *Client) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	if err := media.EnsureDir(destDir); err != nil {
		return "", err
	}
	destPath := media.UniquePath(filepath.Join(destDir, filenameFromURL(rawURL)))

	var err error
	for tries := 0; tries < c.maxRetries; tries++ {
		err = c.download(ctx, rawURL, destPath)
		if err == nil {
			return destPath, nil
		}
		c.waitForRetry(ctx, tries)
	}

	return "", fmt.Errorf("fetch %s: %w", rawURL, err)
}

// FileSize returns the size of the file at the given URL via HEAD request.
//
// Returns an error if:
//   - The request fails
//   - The server doesn't return a Content-Length header
//
// Example:
//
//	size, err := client.FileSize(ctx, scoreURL)
//	fmt.Printf("File is %d bytes\n", size)
func (c *Client) FileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// download performs a single GET attempt, streaming the body to destPath.
func (c *Client) download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if c.OnProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: c.OnProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}

func (c *Client) waitForRetry(ctx context.Context, tries int) {
	cooldown := c.cooldown * math.Pow(retryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

// filenameFromURL derives a local file name from the URL path.
func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return "download"
	}
	name := media.SanitizeFileName(base)
	if name == "" {
		return "download"
	}
	return name
}
