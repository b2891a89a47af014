package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"socialpub/pkg/httputil"
)

const (
	youtubeUploadAPI = "https://www.googleapis.com/upload/youtube/v3"

	youtubeUploadTimeout = 10 * time.Minute
	youtubeContentType   = "video/*"
	youtubePlatform      = "youtube"

	// Appended to the title so the video lands in the Shorts shelf.
	shortsMarker = "#Shorts"
)

// YouTube performs the two-phase resumable upload: an initiation request
// declaring size and content type, then a single PUT of the full body to the
// session location returned in the initiation response.
// https://developers.google.com/youtube/v3/guides/using_resumable_upload_protocol
type YouTube struct {
	client  *http.Client
	baseURL string
}

type youtubeSnippet struct {
	Title string `json:"title"`
}

type youtubeInitBody struct {
	Snippet youtubeSnippet `json:"snippet"`
}

type youtubeUploadResponse struct {
	ID string `json:"id"`
}

func NewYouTube() *YouTube {
	return &YouTube{
		client:  httputil.NewClient(youtubeUploadTimeout),
		baseURL: youtubeUploadAPI,
	}
}

func (y *YouTube) Provider() string {
	return youtubePlatform
}

func (y *YouTube) Upload(ctx context.Context, filePath string, req Request, opts Options) (*Result, error) {
	options, ok := opts.(YouTubeOptions)
	if !ok || options.AccessToken == "" {
		return nil, fmt.Errorf("%w: youtube access token", ErrMissingOption)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat video file: %w", err)
	}

	location, err := y.initiate(ctx, filePath, req, options.AccessToken, stat.Size())
	if err != nil {
		return nil, err
	}
	slog.Debug("Initiated YouTube resumable session", "location", location)

	return y.transfer(ctx, filePath, options.AccessToken, location, stat.Size())
}

func (y *YouTube) initiate(ctx context.Context, filePath string, req Request, accessToken string, size int64) (string, error) {
	title := req.Caption
	if req.ShortFormVideo {
		title += shortsMarker
	}

	metadata, err := json.Marshal(youtubeInitBody{Snippet: youtubeSnippet{Title: title}})
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}

	initURL := y.baseURL + "/videos?uploadType=resumable&part=snippet"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, initURL, strings.NewReader(string(metadata)))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("X-Upload-Content-Length", strconv.FormatInt(size, 10))
	httpReq.Header.Set("X-Upload-Content-Type", youtubeContentType)

	resp, err := y.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("initiate upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return "", err
	}
	if !httputil.IsSuccess(resp) {
		return "", fmt.Errorf("%w: initiating upload of %q to youtube: %s",
			ErrUploadFailed, filePath, httputil.StatusDetail(resp, body))
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%w: initiating upload of %q to youtube",
			ErrNoUploadLocation, filePath)
	}
	return location, nil
}

func (y *YouTube) transfer(ctx context.Context, filePath, accessToken, location string, size int64) (*Result, error) {
	videoFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer func() { _ = videoFile.Close() }()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, location, videoFile)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.ContentLength = size
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", youtubeContentType)

	resp, err := y.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transfer video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if !httputil.IsSuccess(resp) {
		return nil, fmt.Errorf("%w: uploading %q to youtube: %s",
			ErrUploadFailed, filePath, httputil.StatusDetail(resp, body))
	}

	var uploadResp youtubeUploadResponse
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	slog.Debug("YouTube upload complete", "video_id", uploadResp.ID)

	return &Result{PostID: uploadResp.ID}, nil
}
