// Package download materializes remote videos into local files so that
// resumable-only providers can still accept URL input.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"socialpub/pkg/httputil"
)

// ErrDownloadFailed wraps any non-success response from the video's host.
var ErrDownloadFailed = errors.New("download failed")

const (
	fetchTimeout = 10 * time.Minute
	defaultExt   = ".mp4"
)

var httpClient = httputil.NewClient(fetchTimeout)

// Fetch streams the resource at rawURL into a uniquely named file inside
// dir and returns the file's path. The caller owns dir and its lifecycle;
// nothing is retried here. gs:// URLs are read from Cloud Storage, anything
// else over plain HTTP(S).
func Fetch(ctx context.Context, dir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse download url: %w", err)
	}

	if u.Scheme == "gs" {
		return fetchGCS(ctx, dir, u)
	}
	return fetchHTTP(ctx, dir, u)
}

func fetchHTTP(ctx context.Context, dir string, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", u.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !httputil.IsSuccess(resp) {
		body, _ := httputil.ReadBody(resp)
		return "", fmt.Errorf("%w: fetching %q: %s",
			ErrDownloadFailed, u.String(), httputil.StatusDetail(resp, body))
	}

	return writeFile(dir, u.Path, resp.Body)
}

// writeFile copies src into a time-named file under dir, keeping the remote
// extension when there is one.
func writeFile(dir, remotePath string, src io.Reader) (string, error) {
	ext := path.Ext(remotePath)
	if ext == "" {
		ext = defaultExt
	}

	localPath := filepath.Join(dir, fmt.Sprintf("video-%d%s", time.Now().UnixNano(), ext))
	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(f, src)
	if err != nil {
		return "", fmt.Errorf("write %q: %w", localPath, err)
	}
	slog.Debug("Downloaded video", "path", localPath, "bytes", n)

	return localPath, nil
}
