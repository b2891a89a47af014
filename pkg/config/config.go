// Package config loads settings from .env, the environment, and config.yaml.
// Values prefixed with sm:// are resolved through Google Secret Manager.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultGatewayBaseURL = "http://localhost:8080/api"
	defaultTokenPath      = "./youtube_token.json"

	secretPrefix = "sm://"
)

type Config struct {
	GatewayBaseURL       string
	InstagramAccessToken string
	FacebookAccessToken  string
	TikTokAccessToken    string
	MockAccessToken      string
	YouTubeClientID      string
	YouTubeClientSecret  string
	YouTubeTokenPath     string

	Gateway  GatewayConfig  `yaml:"gateway"`
	Publish  PublishConfig  `yaml:"publish"`
	Download DownloadConfig `yaml:"download"`
}

type GatewayConfig struct {
	BaseURL string `yaml:"base_url"`
}

type PublishConfig struct {
	DefaultProvider string `yaml:"default_provider"`
	ShortFormVideo  bool   `yaml:"short_form_video"`
}

type DownloadConfig struct {
	// TempDir is the parent for per-publish download directories.
	// Empty means the OS default.
	TempDir string `yaml:"temp_dir"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GatewayBaseURL:       os.Getenv("GATEWAY_BASE_URL"),
		InstagramAccessToken: os.Getenv("INSTAGRAM_ACCESS_TOKEN"),
		FacebookAccessToken:  os.Getenv("FACEBOOK_ACCESS_TOKEN"),
		TikTokAccessToken:    os.Getenv("TIKTOK_ACCESS_TOKEN"),
		MockAccessToken:      os.Getenv("MOCK_ACCESS_TOKEN"),
		YouTubeClientID:      os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret:  os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:     getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	if err := resolveSecrets(ctx, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.GatewayBaseURL == "" {
		cfg.GatewayBaseURL = cfg.Gateway.BaseURL
	}
	if cfg.GatewayBaseURL == "" {
		cfg.GatewayBaseURL = defaultGatewayBaseURL
	}
}

// resolveSecrets replaces sm:// references with the secret payloads they
// point at. Plain values pass through untouched.
func resolveSecrets(ctx context.Context, cfg *Config) error {
	targets := []*string{
		&cfg.InstagramAccessToken,
		&cfg.FacebookAccessToken,
		&cfg.TikTokAccessToken,
		&cfg.MockAccessToken,
		&cfg.YouTubeClientSecret,
	}

	var client *secretmanager.Client
	for _, target := range targets {
		if !strings.HasPrefix(*target, secretPrefix) {
			continue
		}
		if client == nil {
			var err error
			client, err = secretmanager.NewClient(ctx)
			if err != nil {
				return fmt.Errorf("failed to create secret manager client: %w", err)
			}
			defer func() { _ = client.Close() }()
		}

		resolved, err := accessSecret(ctx, client, strings.TrimPrefix(*target, secretPrefix))
		if err != nil {
			return err
		}
		*target = resolved
	}

	return nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, name string) (string, error) {
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}

	return string(resp.GetPayload().GetData()), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
