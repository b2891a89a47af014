package publish

import "errors"

var (
	// ErrNotFound means the video reference is neither a parseable URL nor
	// an existing local file.
	ErrNotFound = errors.New("video not found")

	// ErrUnsupportedProvider means the provider's strategies do not cover
	// the resolved source type.
	ErrUnsupportedProvider = errors.New("provider not supported")

	// ErrNotImplemented means the provider claims resumable upload support
	// but has no uploader registered.
	ErrNotImplemented = errors.New("no uploader implemented")

	// ErrNoProfiles means profile auto-resolution found no publishing
	// profiles and no profile ID was supplied.
	ErrNoProfiles = errors.New("no publishing profiles available")

	// ErrProcessing means the provider reported an error state while the
	// upload was being processed.
	ErrProcessing = errors.New("upload processing failed")

	// ErrProcessingTimeout means processing did not finish within the
	// polling window.
	ErrProcessingTimeout = errors.New("upload processing timed out")
)
