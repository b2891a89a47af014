package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// fetchGCS reads gs://bucket/object into dir using ambient credentials.
func fetchGCS(ctx context.Context, dir string, u *url.URL) (string, error) {
	bucket := u.Host
	object := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return "", fmt.Errorf("%w: %q is not a valid gs:// url", ErrDownloadFailed, u.String())
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create storage client: %w", err)
	}
	defer func() { _ = client.Close() }()

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		var apiErr *googleapi.Error
		switch {
		case errors.Is(err, storage.ErrObjectNotExist):
			return "", fmt.Errorf("%w: gs://%s/%s does not exist", ErrDownloadFailed, bucket, object)
		case errors.As(err, &apiErr):
			return "", fmt.Errorf("%w: fetching gs://%s/%s: %d: %s",
				ErrDownloadFailed, bucket, object, apiErr.Code, apiErr.Message)
		default:
			return "", fmt.Errorf("fetch gs://%s/%s: %w", bucket, object, err)
		}
	}
	defer func() { _ = reader.Close() }()

	return writeFile(dir, object, reader)
}
