package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"socialpub/pkg/httputil"
)

const (
	tiktokAPIV1 = "https://open-api.tiktok.com"
	tiktokAPIV2 = "https://open.tiktokapis.com/v2"

	tiktokUploadTimeout = 5 * time.Minute
	tiktokPlatform      = "tiktok"
)

// TikTok uploads a video in a single multipart request, after resolving the
// caller's open_id through the authenticated user-info endpoint.
// https://developers.tiktok.com/doc/web-video-kit-with-web/
type TikTok struct {
	client *http.Client
	apiV1  string
	apiV2  string
}

func NewTikTok() *TikTok {
	return &TikTok{
		client: httputil.NewClient(tiktokUploadTimeout),
		apiV1:  tiktokAPIV1,
		apiV2:  tiktokAPIV2,
	}
}

func (t *TikTok) Provider() string {
	return tiktokPlatform
}

func (t *TikTok) Upload(ctx context.Context, filePath string, req Request, opts Options) (*Result, error) {
	options, ok := opts.(TikTokOptions)
	if !ok || options.AccessToken == "" {
		return nil, fmt.Errorf("%w: tiktok access token", ErrMissingOption)
	}

	openID, err := t.lookupOpenID(ctx, options.AccessToken)
	if err != nil {
		return nil, err
	}
	slog.Debug("Resolved TikTok identity", "open_id", openID)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	videoFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}
	defer func() { _ = videoFile.Close() }()

	videoPart, err := writer.CreateFormFile("video", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("create video part: %w", err)
	}
	if _, err := io.Copy(videoPart, videoFile); err != nil {
		return nil, fmt.Errorf("copy video: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	query := url.Values{
		"access_token": {options.AccessToken},
		"open_id":      {openID},
	}
	uploadURL := fmt.Sprintf("%s/share/video/upload/?%s", t.apiV1, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if !httputil.IsSuccess(resp) {
		return nil, fmt.Errorf("%w: uploading %q to tiktok: %s",
			ErrUploadFailed, filePath, httputil.StatusDetail(resp, respBody))
	}

	// TikTok reports failures inside an HTTP 200 body.
	if code := gjson.GetBytes(respBody, "data.error_code").Int(); code != 0 {
		return nil, fmt.Errorf("%w: uploading %q to tiktok: %d: %s / %s",
			ErrUploadFailed, filePath, code,
			gjson.GetBytes(respBody, "data.error_msg").String(),
			gjson.GetBytes(respBody, "extra.error_detail").String())
	}

	shareID := gjson.GetBytes(respBody, "data.share_id").String()
	if shareID == "" {
		return nil, fmt.Errorf("%w: uploading %q to tiktok: no share_id in response: %s",
			ErrUploadFailed, filePath, httputil.Snippet(respBody))
	}
	slog.Debug("TikTok upload complete", "share_id", shareID)

	return &Result{PostID: shareID}, nil
}

func (t *TikTok) lookupOpenID(ctx context.Context, accessToken string) (string, error) {
	infoURL := t.apiV2 + "/user/info/?fields=open_id"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("resolve tiktok identity: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return "", err
	}
	if !httputil.IsSuccess(resp) {
		return "", fmt.Errorf("%w: resolving tiktok identity: %s",
			ErrUploadFailed, httputil.StatusDetail(resp, body))
	}

	openID := gjson.GetBytes(body, "data.user.open_id").String()
	if openID == "" {
		return "", fmt.Errorf("%w: resolving tiktok identity: no open_id in response",
			ErrUploadFailed)
	}
	return openID, nil
}
