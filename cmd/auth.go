package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"socialpub/internal/auth"
	"socialpub/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	authInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	authSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	authErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with external services",
	Long:  `Authenticate with YouTube or check credential status, using credentials from .env`,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authenticate with YouTube (OAuth)",
	Long:  `Complete YouTube OAuth flow using credentials from .env file.`,
	RunE:  runAuthYouTube,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authentication status for all providers",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authYouTubeCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(authInfoStyle.Render("\nProvider Authentication Status:\n"))

	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		ytAuth := auth.NewYouTubeAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
		if ytAuth.IsAuthenticated() {
			fmt.Println(authSuccessStyle.Render("✓ YouTube: authenticated"))
		} else {
			fmt.Println(authErrorStyle.Render("✗ YouTube: credentials set, but not authenticated"))
			fmt.Println(authInfoStyle.Render("  Run: socialpub auth youtube"))
		}
	} else {
		fmt.Println(authErrorStyle.Render("✗ YouTube: missing YOUTUBE_CLIENT_ID or YOUTUBE_CLIENT_SECRET"))
	}

	tokens := []struct {
		name  string
		value string
	}{
		{"Instagram", cfg.InstagramAccessToken},
		{"Facebook", cfg.FacebookAccessToken},
		{"TikTok", cfg.TikTokAccessToken},
	}
	for _, t := range tokens {
		if t.value != "" {
			fmt.Println(authSuccessStyle.Render("✓ " + t.name + ": access token configured"))
		} else {
			fmt.Println(authErrorStyle.Render("✗ " + t.name + ": missing access token"))
		}
	}

	fmt.Println()
	return nil
}

func runAuthYouTube(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return errors.New("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set in .env")
	}

	ytAuth := auth.NewYouTubeAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	return runYouTubeAuthFlow(ctx, ytAuth, cfg.YouTubeTokenPath)
}

func runYouTubeAuthFlow(ctx context.Context, ytAuth *auth.YouTubeAuth, tokenPath string) error {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", ":8085")
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
	}

	server.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- errors.New("no code in callback")
			_, _ = fmt.Fprintf(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
			return
		}

		codeChan <- code
		_, _ = fmt.Fprintf(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := ytAuth.AuthURL()
	fmt.Println(authInfoStyle.Render("\nOpening browser for YouTube authentication..."))
	fmt.Println(authInfoStyle.Render("If browser doesn't open, visit:\n" + authURL))

	_ = browser.OpenURL(authURL)

	fmt.Println(authInfoStyle.Render("\nWaiting for authentication..."))

	select {
	case code := <-codeChan:
		if err := ytAuth.Exchange(ctx, code); err != nil {
			return err
		}
		fmt.Println(authSuccessStyle.Render("✓ YouTube authentication complete"))
		fmt.Println(authSuccessStyle.Render("  Token saved to: " + tokenPath))
		return nil

	case err := <-errChan:
		return err

	case <-time.After(5 * time.Minute):
		return errors.New("authentication timed out")
	}
}
