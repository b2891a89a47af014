// Package publish orchestrates publishing a video to a social-media
// provider, selecting between remote-URL registration and resumable file
// upload based on what the provider supports.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"socialpub/internal/download"
	"socialpub/internal/uploader"
)

// FetchFunc materializes a remote URL into a file inside dir, returning the
// file's path.
type FetchFunc func(ctx context.Context, dir, rawURL string) (string, error)

// Publisher routes a publish request down the upload path the provider
// supports. Safe for concurrent use; each call owns its own resources.
type Publisher struct {
	usecases UseCases
	registry *uploader.Registry
	fetch    FetchFunc

	tempRoot          string
	pollInterval      time.Duration
	processingTimeout time.Duration
}

// New builds a Publisher. tempRoot is the parent directory for per-publish
// download directories; empty means the OS default.
func New(usecases UseCases, registry *uploader.Registry, tempRoot string) *Publisher {
	return &Publisher{
		usecases:          usecases,
		registry:          registry,
		fetch:             download.Fetch,
		tempRoot:          tempRoot,
		pollInterval:      pollInterval,
		processingTimeout: processingTimeout,
	}
}

// PublishVideo resolves the video source, picks an upload strategy for the
// provider, and returns the uniform publish result. Re-invoking with
// identical input creates a new, independent post.
func (p *Publisher) PublishVideo(ctx context.Context, in Input, provider string, opts uploader.Options) (*uploader.Result, error) {
	src, err := resolveSource(in)
	if err != nil {
		return nil, err
	}

	strategies := SupportedStrategies(provider)
	slog.Debug("Resolved video source",
		"provider", provider,
		"strategies", strategies,
		"is_url", src.url != nil,
	)

	if src.url != nil {
		if hasStrategy(strategies, StrategyRemoteURL) {
			return p.publishURL(ctx, in, src.url, provider, opts)
		}
		if hasStrategy(strategies, StrategyResumableUpload) {
			return p.publishURLAsFile(ctx, in, src.url, provider, opts)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	if hasStrategy(strategies, StrategyResumableUpload) {
		return p.publishFile(ctx, in, src.path, provider, opts)
	}
	return nil, fmt.Errorf("%w: %q does not support uploading local files", ErrUnsupportedProvider, provider)
}

// publishURLAsFile downloads the URL into a scoped temporary directory and
// runs the resumable path with the result. The directory is removed on
// every exit, success or failure.
func (p *Publisher) publishURLAsFile(ctx context.Context, in Input, videoURL *url.URL, provider string, opts uploader.Options) (*uploader.Result, error) {
	dir, err := os.MkdirTemp(p.tempRoot, "socialpub-")
	if err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Failed to clean up download dir", "dir", dir, "error", err)
		}
	}()

	slog.Debug("Downloading video for re-upload", "provider", provider, "url", videoURL.String())
	filePath, err := p.fetch(ctx, dir, videoURL.String())
	if err != nil {
		return nil, err
	}

	return p.publishFile(ctx, in, filePath, provider, opts)
}

func (p *Publisher) publishFile(ctx context.Context, in Input, filePath, provider string, opts uploader.Options) (*uploader.Result, error) {
	up, ok := p.registry.Get(provider)
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)",
			ErrNotImplemented, provider, strings.Join(p.registry.Providers(), ", "))
	}

	return up.Upload(ctx, filePath, uploader.Request{
		Caption:        in.Caption,
		ShortFormVideo: in.ShortFormVideo,
	}, opts)
}
