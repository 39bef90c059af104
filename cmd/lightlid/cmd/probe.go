package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/lightlid/internal/service/probe"
)

var (
	// probeCount is the number of samples to take.
	probeCount int
	// probeInterval is the pause between samples.
	probeInterval time.Duration

	// probeCmd samples the configured source without detecting transitions.
	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Sample the configured source and print brightness levels.",
		Long: `Reads a few frames from the configured source and prints their brightness,
one "<n>	level=<l>" line per sample, to check the camera and pick a sensitivity.
Fails only if no sample could be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			options := &probe.Options{
				Count:    probeCount,
				Interval: probeInterval,
				Stdout:   cmd.OutOrStdout(),
			}

			return probe.Run(ctx, cfg, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	probeCmd.Flags().IntVarP(&probeCount, "count", "n", probe.DefaultCount, "number of samples")
	probeCmd.Flags().DurationVar(&probeInterval, "every", probe.DefaultInterval, "pause between samples")

	rootCmd.AddCommand(probeCmd)
}
