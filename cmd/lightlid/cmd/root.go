package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/lightlid/internal/config"
	"github.com/oshokin/lightlid/internal/service/monitor"
	"github.com/oshokin/lightlid/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// sensitivity overrides the configured detector threshold when non-zero.
	sensitivity int
	// interval overrides the configured sampling period when non-zero.
	interval time.Duration
	// logLevel overrides the configured log level when set.
	logLevel string
	// mute disables sound playback.
	mute bool
	// allowMultiple skips the single-instance check.
	allowMultiple bool
	// noControl disables line commands on stdin.
	noControl bool

	// rootCmd represents the base command for monitoring the lid.
	rootCmd = &cobra.Command{
		Use:   "lightlid",
		Short: "Play a sound when a box lid opens or closes, judged by camera brightness.",
		Long: `Watches the average brightness of camera frames and reports a lid opening
when the scene becomes brighter and a lid closing when it becomes darker.

A change must exceed the sensitivity to count, and after each transition the
detector ignores everything for 2 seconds so a flickering picture triggers once.
Each transition plays a clip from the configuration file.

While running, commands are read from stdin: a number sets the sensitivity,
"p" pauses, "?" prints the status, "q" stops and Enter enables sound.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &monitor.Options{
				ConfigPath:    configPath,
				Sensitivity:   sensitivity,
				Interval:      interval,
				LogLevel:      logLevel,
				Mute:          mute,
				AllowMultiple: allowMultiple,
				Control:       !noControl,
				Stdin:         cmd.InOrStdin(),
				Stdout:        cmd.OutOrStdout(),
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the lightlid CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the configuration with the persistent flag overrides applied.
func loadSettings() (*config.Config, error) {
	return monitor.LoadSettings(configPath, sensitivity, interval, logLevel)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Flags shared by every subcommand.
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.IntVarP(&sensitivity, "sensitivity", "s", 0, "brightness change needed to trigger, 1-255 (default from config)")
	flags.DurationVarP(&interval, "interval", "i", 0, "sampling period, e.g. 250ms (default from config)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")

	// Monitor-only flags.
	rootCmd.Flags().BoolVar(&mute, "mute", false, "do not play sounds")
	rootCmd.Flags().BoolVar(&allowMultiple, "allow-multiple", false, "start even if another monitor is running")
	rootCmd.Flags().BoolVar(&noControl, "no-control", false, "ignore commands on stdin")
}
