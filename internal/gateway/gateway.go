// Package gateway is the HTTP client for the provider-mediation service
// the URL publish pipeline runs against.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"socialpub/internal/publish"
	"socialpub/internal/uploader"
	"socialpub/pkg/httputil"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "socialpub/1.0"
)

var _ publish.UseCases = (*Client)(nil)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type profilesResponse struct {
	Profiles []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"profiles"`
}

type registerRequest struct {
	ProfileID  string `json:"profileId,omitempty"`
	Caption    string `json:"caption,omitempty"`
	URL        string `json:"url"`
	UploadType string `json:"uploadType"`
}

type registerResponse struct {
	UploadID string `json:"uploadId"`
}

type stateResponse struct {
	State string `json:"state"`
}

type postRequest struct {
	ProfileID   string           `json:"profileId"`
	Text        string           `json:"text,omitempty"`
	Attachments []postAttachment `json:"attachments"`
}

type postAttachment struct {
	ID string `json:"id"`
}

type postResponse struct {
	PostID string `json:"postId"`
	URL    string `json:"url"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: httputil.NewClient(defaultTimeout),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *Client) GetProfilesForPublishing(ctx context.Context, provider string, opts uploader.Options) ([]publish.PublishingProfile, error) {
	endpoint := fmt.Sprintf("%s/providers/%s/profiles", c.baseURL, url.PathEscape(provider))

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, opts)
	if err != nil {
		return nil, err
	}

	var resp profilesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse profiles response: %w", err)
	}

	profiles := make([]publish.PublishingProfile, 0, len(resp.Profiles))
	for _, p := range resp.Profiles {
		profiles = append(profiles, publish.PublishingProfile{ID: p.ID, Name: p.Name})
	}
	return profiles, nil
}

func (c *Client) RegisterUpload(ctx context.Context, provider string, reg publish.Registration, opts uploader.Options) (string, error) {
	endpoint := fmt.Sprintf("%s/providers/%s/uploads", c.baseURL, url.PathEscape(provider))

	body, err := c.doRequest(ctx, http.MethodPost, endpoint, registerRequest{
		ProfileID:  reg.ProfileID,
		Caption:    reg.Caption,
		URL:        reg.URL,
		UploadType: reg.UploadType,
	}, opts)
	if err != nil {
		return "", err
	}

	var resp registerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse registration response: %w", err)
	}
	return resp.UploadID, nil
}

func (c *Client) GetUploadState(ctx context.Context, provider, uploadID string, opts uploader.Options) (publish.UploadState, error) {
	endpoint := fmt.Sprintf("%s/providers/%s/uploads/%s", c.baseURL,
		url.PathEscape(provider), url.PathEscape(uploadID))

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, opts)
	if err != nil {
		return "", err
	}

	var resp stateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse state response: %w", err)
	}
	return publish.UploadState(resp.State), nil
}

func (c *Client) PublishPost(ctx context.Context, provider string, post publish.Post, opts uploader.Options) (*uploader.Result, error) {
	endpoint := fmt.Sprintf("%s/providers/%s/posts", c.baseURL, url.PathEscape(provider))

	attachments := make([]postAttachment, 0, len(post.Attachments))
	for _, a := range post.Attachments {
		attachments = append(attachments, postAttachment{ID: a.ID})
	}

	body, err := c.doRequest(ctx, http.MethodPost, endpoint, postRequest{
		ProfileID:   post.ProfileID,
		Text:        post.Text,
		Attachments: attachments,
	}, opts)
	if err != nil {
		return nil, err
	}

	var resp postResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse post response: %w", err)
	}
	return &uploader.Result{PostID: resp.PostID, URL: resp.URL}, nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any, opts uploader.Options) ([]byte, error) {
	var reqBody *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := uploader.AccessToken(opts); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if !httputil.IsSuccess(resp) {
		return nil, fmt.Errorf("gateway error: %s %s: %s",
			method, endpoint, httputil.StatusDetail(resp, body))
	}
	return body, nil
}
