package publish

import (
	"fmt"
	"net/url"
	"os"
)

// Input describes a video to publish. Video holds either a remote URL or a
// local file path; when the caller already has a parsed URL it goes in
// VideoURL and Video is ignored.
type Input struct {
	Video          string
	VideoURL       *url.URL
	ProfileID      string
	Caption        string
	ShortFormVideo bool
}

// source is the resolved form of an Input: exactly one field is set.
type source struct {
	url  *url.URL
	path string
}

// resolveSource classifies the video reference. A string that parses as an
// absolute URL is always a URL, even when a local file of the same name
// exists; only non-URL strings are checked against the filesystem.
func resolveSource(in Input) (source, error) {
	if in.VideoURL != nil {
		return source{url: in.VideoURL}, nil
	}

	if u, err := url.Parse(in.Video); err == nil && u.Scheme != "" && u.Host != "" {
		return source{url: u}, nil
	}

	info, err := os.Stat(in.Video)
	if err == nil && info.Mode().IsRegular() {
		return source{path: in.Video}, nil
	}

	return source{}, fmt.Errorf("%w: %q is neither a URL nor an existing file", ErrNotFound, in.Video)
}
