// Package auth manages the OAuth credentials for providers that upload
// through authenticated APIs instead of a static access token.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var youtubeScopes = []string{
	"https://www.googleapis.com/auth/youtube.upload",
	"https://www.googleapis.com/auth/youtube",
}

type YouTubeAuth struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenPath string
}

func NewYouTubeAuth(clientID, clientSecret, tokenPath string) *YouTubeAuth {
	return &YouTubeAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       youtubeScopes,
			RedirectURL:  "http://localhost:8085/callback",
		},
		tokenPath: tokenPath,
	}
}

func (a *YouTubeAuth) LoadToken() error {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("failed to parse token: %w", err)
	}

	a.token = &token
	return nil
}

func (a *YouTubeAuth) SaveToken() error {
	data, err := json.MarshalIndent(a.token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func (a *YouTubeAuth) AuthURL() string {
	return a.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

func (a *YouTubeAuth) Exchange(ctx context.Context, code string) error {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	a.token = token
	return a.SaveToken()
}

// AccessToken returns a valid bearer token, refreshing and persisting it
// when the stored one has expired.
func (a *YouTubeAuth) AccessToken(ctx context.Context) (string, error) {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return "", err
		}
	}

	fresh, err := a.config.TokenSource(ctx, a.token).Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	if fresh.AccessToken != a.token.AccessToken {
		a.token = fresh
		if err := a.SaveToken(); err != nil {
			return "", err
		}
	}

	return fresh.AccessToken, nil
}

func (a *YouTubeAuth) IsAuthenticated() bool {
	if a.token == nil {
		if err := a.LoadToken(); err != nil {
			return false
		}
	}
	return a.token != nil && (a.token.Valid() || a.token.RefreshToken != "")
}
