// Package config loads process-wide configuration for compositor-core
// consumers (the diagnostic CLI and any embedding compositor binary).
package config

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// CoreConfig configures the parts of compositor-core that need environment
// input: which DRM device to open, whether modesets are allowed, and how
// loud to log.
type CoreConfig struct {
	DRM DRM
	Log Log
}

// LoadCoreConfig reads CoreConfig from the environment.
func LoadCoreConfig() (CoreConfig, error) {
	var cfg CoreConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return CoreConfig{}, err
	}
	return cfg, nil
}

// DRM configures the drmkms device handle.
type DRM struct {
	Device       string `envconfig:"COMPOSITOR_DRM_DEVICE" default:"/dev/dri/card0"`
	AllowModeset bool   `envconfig:"COMPOSITOR_DRM_ALLOW_MODESET" default:"true"`
}

// Log configures zerolog output.
type Log struct {
	Level  string `envconfig:"COMPOSITOR_LOG_LEVEL" default:"info"`
	Format string `envconfig:"COMPOSITOR_LOG_FORMAT" default:"console"` // console | json
}

// Logger builds a zerolog.Logger writing to stderr per the configured
// level and format.
func (l Log) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = os.Stderr
	if l.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// SlogLogger builds a *slog.Logger at the configured level, for the
// constructor-injection logging convention drmkms.Open uses.
func (l Log) SlogLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
