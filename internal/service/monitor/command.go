package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/lightlid/internal/audio"
	"github.com/oshokin/lightlid/internal/brightness"
	"github.com/oshokin/lightlid/internal/config"
	"github.com/oshokin/lightlid/internal/logger"
	"github.com/oshokin/lightlid/internal/source"
)

// Options controls the monitor process. Zero values keep the configured settings.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Sensitivity overrides the configured sensitivity.
	Sensitivity int
	// Interval overrides the configured sampling period.
	Interval time.Duration
	// LogLevel overrides the configured log level.
	LogLevel string
	// Mute disables playback.
	Mute bool
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// Control enables line commands on Stdin.
	Control bool
	// Stdin is read for control commands.
	Stdin io.Reader
	// Stdout receives control replies.
	Stdout io.Writer
}

// Run loads settings, builds the session and blocks until ctx is canceled
// or the session is stopped from the control input.
//
//nolint:cyclop // Linear setup sequence.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "lightlid")

	cfg, err := LoadSettings(opts.ConfigPath, opts.Sensitivity, opts.Interval, opts.LogLevel)
	if err != nil {
		return err
	}

	if !opts.AllowMultiple {
		if err = checkSingleInstance(); err != nil {
			return err
		}
	}

	reduce, err := brightness.NewReducer(cfg.Brightness.Method, cfg.Brightness.Region)
	if err != nil {
		return err
	}

	src, err := source.New(cfg)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.Source.Kind, err)
	}

	player, err := audio.New(cfg.Audio, opts.Mute)
	if err != nil {
		_ = src.Close()

		return fmt.Errorf("prepare audio: %w", err)
	}

	session := NewSession(
		src,
		player,
		WithInterval(cfg.Interval),
		WithSensitivity(cfg.Sensitivity),
		WithReducer(reduce),
	)

	defer func() {
		if err := session.Close(); err != nil {
			logger.ErrorKV(ctx, "Failed to release resources", "error", err)
		}
	}()

	logger.InfoKV(
		ctx,
		"Starting monitor",
		"session_id", session.ID(),
		"source", cfg.Source.Kind,
		"audio", cfg.Audio.Enabled && !opts.Mute,
		"sound_locked", player.Locked(),
	)

	if opts.Control && opts.Stdin != nil && opts.Stdout != nil {
		go func() {
			if err := session.Control(ctx, opts.Stdin, opts.Stdout); err != nil {
				logger.ErrorKV(ctx, "Control input failed", "error", err)
			}
		}()
	}

	return session.Start(ctx)
}

// LoadSettings loads the settings file, applies non-zero overrides,
// validates the result and applies the log level.
func LoadSettings(path string, sensitivity int, interval time.Duration, logLevel string) (*config.Config, error) {
	cfg, fallback, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if sensitivity != 0 {
		cfg.Sensitivity = sensitivity
	}

	if interval != 0 {
		cfg.Interval = interval
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	// Validate accepted the level already.
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)

	if fallback {
		logger.Warn(context.Background(), "Settings file not found, using the synthetic source; run init-config to create one")
	}

	return cfg, nil
}
