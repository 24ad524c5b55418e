// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds process-level settings. Editing parameters live in the plan;
// this covers tool paths, work-dir behavior, publishing, and logging.
type Config struct {
	// Tool paths, resolved via PATH when empty.
	FFmpegPath  string `env:"FFMPEG_PATH, default=ffmpeg"`
	FFprobePath string `env:"FFPROBE_PATH, default=ffprobe"`

	// Work dir settings. WorkDir empty means the system temp dir.
	WorkDir  string `env:"MKSHORT_WORK_DIR"`
	KeepWork bool   `env:"MKSHORT_KEEP_WORK, default=false"`

	// Optional S3 settings for s3:// publish targets.
	S3Region           string `env:"S3_REGION"`
	S3Endpoint         string `env:"S3_ENDPOINT"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	// Logging settings.
	LogFormat string `env:"LOG_FORMAT, default=text"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info"`  // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// NewLogger creates a structured logger based on the configuration. Logs go
// to stderr so stdout stays clean for scripted use.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
