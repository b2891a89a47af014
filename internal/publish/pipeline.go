package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"socialpub/internal/uploader"
)

const (
	pollInterval      = 10 * time.Second
	processingTimeout = 5 * time.Minute
)

// UploadState is the remote processing state of a registered upload.
type UploadState string

const (
	StateExpired    UploadState = "expired"
	StateError      UploadState = "error"
	StateFinished   UploadState = "finished"
	StateInProgress UploadState = "inProgress"
	StatePublished  UploadState = "published"
)

// PublishingProfile is a provider-side account posts can be published to.
type PublishingProfile struct {
	ID   string
	Name string
}

// Registration is the input to upload registration.
type Registration struct {
	ProfileID  string
	Caption    string
	URL        string
	UploadType string
}

// Attachment references a registered upload by its ID.
type Attachment struct {
	ID string
}

// Post is the input to post publication.
type Post struct {
	ProfileID   string
	Text        string
	Attachments []Attachment
}

// UseCases is the effective contract of the provider-mediation layer the
// URL pipeline runs against. Implementations perform the named operation
// for the given provider and either return its typed value or an error;
// errors are propagated unchanged.
type UseCases interface {
	GetProfilesForPublishing(ctx context.Context, provider string, opts uploader.Options) ([]PublishingProfile, error)
	RegisterUpload(ctx context.Context, provider string, reg Registration, opts uploader.Options) (string, error)
	GetUploadState(ctx context.Context, provider, uploadID string, opts uploader.Options) (UploadState, error)
	PublishPost(ctx context.Context, provider string, post Post, opts uploader.Options) (*uploader.Result, error)
}

// publishURL registers the remote URL with the provider, waits for remote
// processing to finish, then publishes the post referencing the upload.
func (p *Publisher) publishURL(ctx context.Context, in Input, videoURL *url.URL, provider string, opts uploader.Options) (*uploader.Result, error) {
	profileID := in.ProfileID
	if profileID == "" {
		profiles, err := p.usecases.GetProfilesForPublishing(ctx, provider, opts)
		if err != nil {
			return nil, err
		}
		if len(profiles) == 0 {
			return nil, fmt.Errorf("%w: no profile ID supplied for %q", ErrNoProfiles, provider)
		}
		profileID = profiles[0].ID
		slog.Debug("Resolved publishing profile", "provider", provider, "profile_id", profileID)
	}

	uploadID, err := p.usecases.RegisterUpload(ctx, provider, Registration{
		ProfileID:  profileID,
		Caption:    in.Caption,
		URL:        videoURL.String(),
		UploadType: "video",
	}, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("Registered upload", "provider", provider, "upload_id", uploadID)

	if err := p.waitForProcessing(ctx, provider, uploadID, opts); err != nil {
		return nil, err
	}

	return p.usecases.PublishPost(ctx, provider, Post{
		ProfileID:   profileID,
		Text:        in.Caption,
		Attachments: []Attachment{{ID: uploadID}},
	}, opts)
}

// waitForProcessing polls the upload state at a fixed cadence until the
// provider reports finished or error, or the window elapses. The window is
// wall-clock from the start of polling, not from registration.
//
// Only error and finished are terminal here. Observing expired or published
// mid-poll keeps the loop going until the timeout; matching the historical
// behavior this was built against, deliberately left unchanged.
func (p *Publisher) waitForProcessing(ctx context.Context, provider, uploadID string, opts uploader.Options) error {
	start := time.Now()

	for time.Since(start) < p.processingTimeout {
		state, err := p.usecases.GetUploadState(ctx, provider, uploadID, opts)
		if err != nil {
			return err
		}
		slog.Debug("Polled upload state", "provider", provider, "upload_id", uploadID, "state", state)

		switch state {
		case StateError:
			return fmt.Errorf("%w: upload %s at %s", ErrProcessing, uploadID, provider)
		case StateFinished:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}

	return fmt.Errorf("%w: upload %s at %s", ErrProcessingTimeout, uploadID, provider)
}
