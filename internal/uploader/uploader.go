// Package uploader holds the per-provider resumable upload implementations
// and the registry the publisher dispatches through.
package uploader

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrUploadFailed wraps any non-success response, or an application
	// error code embedded in an otherwise successful one.
	ErrUploadFailed = errors.New("upload failed")

	// ErrNoUploadLocation is returned when a resumable session initiation
	// response omits the session location header.
	ErrNoUploadLocation = errors.New("no upload location received")

	// ErrMissingOption is returned when provider options are absent or of
	// the wrong variant for the selected uploader.
	ErrMissingOption = errors.New("missing provider option")
)

// Result is the uniform outcome of publishing a video, whichever path
// produced it. Either field may be empty depending on the provider.
type Result struct {
	PostID string
	URL    string
}

// Request carries the caption and flags accompanying a file upload.
type Request struct {
	Caption        string
	ShortFormVideo bool
}

// Uploader publishes a local video file to a single provider.
type Uploader interface {
	Upload(ctx context.Context, filePath string, req Request, opts Options) (*Result, error)
	Provider() string
}

// Registry maps provider identifiers to their uploader implementations.
// Adding a provider is a registration, not a branch edit.
type Registry struct {
	uploaders map[string]Uploader
}

func NewRegistry(uploaders ...Uploader) *Registry {
	r := &Registry{uploaders: make(map[string]Uploader)}
	for _, u := range uploaders {
		r.Register(u)
	}
	return r
}

func (r *Registry) Register(u Uploader) {
	r.uploaders[u.Provider()] = u
}

func (r *Registry) Get(provider string) (Uploader, bool) {
	u, ok := r.uploaders[provider]
	return u, ok
}

// Providers returns the registered provider identifiers, sorted.
func (r *Registry) Providers() []string {
	providers := make([]string, 0, len(r.uploaders))
	for provider := range r.uploaders {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}
