package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/lightlid/internal/service/replay"
)

var (
	// baseline is the level the replayed detector starts from.
	baseline int

	// replayCmd feeds a recorded trace through the detector.
	replayCmd = &cobra.Command{
		Use:   "replay [trace-file]",
		Short: "Print the transitions a recorded brightness trace would trigger.",
		Long: `Reads "<offset> <level>" lines and prints one line per detected transition.

The offset is a Go duration (1.5s, 500ms) or a number of milliseconds since the
start of the trace. Blank lines and lines starting with # are ignored.
Without a file, or with "-", the trace is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := loadSettings()
			if err != nil {
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			}

			options := &replay.Options{
				Path:        path,
				Sensitivity: cfg.Sensitivity,
				Baseline:    baseline,
				Stdin:       cmd.InOrStdin(),
				Stdout:      cmd.OutOrStdout(),
			}

			return replay.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	replayCmd.Flags().IntVarP(&baseline, "baseline", "b", 0, "level the detector starts from")

	rootCmd.AddCommand(replayCmd)
}
