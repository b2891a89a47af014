package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"socialpub/internal/auth"
	"socialpub/internal/gateway"
	"socialpub/internal/publish"
	"socialpub/internal/uploader"
	"socialpub/pkg/config"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var (
	publishProvider  string
	publishCaption   string
	publishProfileID string
	publishShort     bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <video>",
	Short: "Publish a video to a social platform",
	Long: `Publish a video, given as a URL or a local file path, to the chosen
provider. The upload strategy is picked per provider: some accept a remote
URL directly, others need the file uploaded through their API.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVarP(&publishProvider, "provider", "p", "", "Target provider (instagram, facebook, youtube, tiktok, mock)")
	publishCmd.Flags().StringVarP(&publishCaption, "caption", "c", "", "Caption for the post")
	publishCmd.Flags().StringVar(&publishProfileID, "profile-id", "", "Publishing profile ID (first available when omitted)")
	publishCmd.Flags().BoolVarP(&publishShort, "short", "s", false, "Mark the video as short-form")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	provider := publishProvider
	if provider == "" {
		provider = cfg.Publish.DefaultProvider
	}
	if provider == "" {
		return errors.New("please provide a provider with --provider")
	}

	opts, err := optionsFor(cmd, provider, cfg)
	if err != nil {
		return err
	}

	publisher := publish.New(gateway.NewClient(cfg.GatewayBaseURL), newRegistry(), cfg.Download.TempDir)

	input := publish.Input{
		Video:          args[0],
		ProfileID:      publishProfileID,
		Caption:        publishCaption,
		ShortFormVideo: publishShort || cfg.Publish.ShortFormVideo,
	}

	slog.Info("Publishing video", "provider", provider, "video", args[0])

	var result *uploader.Result
	err = runWithSpinner("Publishing to "+provider, func() error {
		var publishErr error
		result, publishErr = publisher.PublishVideo(ctx, input, provider, opts)
		return publishErr
	})
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Published"))
	fmt.Println(infoStyle.Render("  Post ID: " + result.PostID))
	if result.URL != "" {
		fmt.Println(infoStyle.Render("  URL:     " + result.URL))
	}
	return nil
}

func newRegistry() *uploader.Registry {
	return uploader.NewRegistry(
		uploader.NewTikTok(),
		uploader.NewYouTube(),
		uploader.NewMock(),
	)
}

func optionsFor(cmd *cobra.Command, provider string, cfg *config.Config) (uploader.Options, error) {
	switch provider {
	case "instagram":
		return uploader.InstagramOptions{Security: uploader.Security{AccessToken: cfg.InstagramAccessToken}}, nil
	case "facebook":
		return uploader.FacebookOptions{Security: uploader.Security{AccessToken: cfg.FacebookAccessToken}}, nil
	case "tiktok":
		return uploader.TikTokOptions{Security: uploader.Security{AccessToken: cfg.TikTokAccessToken}}, nil
	case "youtube":
		token, err := youtubeToken(cmd, cfg)
		if err != nil {
			return nil, err
		}
		return uploader.YouTubeOptions{Security: uploader.Security{AccessToken: token}}, nil
	case "mock":
		return uploader.MockOptions{Security: uploader.Security{AccessToken: cfg.MockAccessToken}}, nil
	default:
		return nil, nil
	}
}

func youtubeToken(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return "", errors.New("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set in .env")
	}

	ytAuth := auth.NewYouTubeAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	token, err := ytAuth.AccessToken(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("not authenticated with YouTube (run: socialpub auth youtube): %w", err)
	}
	return token, nil
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	return err
}
