package uploader

// Security carries the credential fields common to every provider variant.
// Callers supply a valid token per call; nothing here refreshes it.
type Security struct {
	AccessToken string
}

func (s Security) security() Security { return s }

// Options is a closed union of per-provider option variants. The publisher
// forwards it unexamined; each uploader narrows it to its own variant and
// fails with ErrMissingOption on a mismatch.
type Options interface {
	security() Security
}

type InstagramOptions struct{ Security }

type FacebookOptions struct{ Security }

type TikTokOptions struct{ Security }

type YouTubeOptions struct{ Security }

type MockOptions struct{ Security }

// AccessToken extracts the token from any variant; empty for nil options.
func AccessToken(opts Options) string {
	if opts == nil {
		return ""
	}
	return opts.security().AccessToken
}
