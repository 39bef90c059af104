package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/lightlid/internal/config"
)

// errConfigExists is returned when init-config would overwrite a file.
var errConfigExists = errors.New("configuration file already exists, use --force to overwrite it")

var (
	// force allows init-config to overwrite an existing file.
	force bool

	// initConfigCmd writes the default configuration.
	initConfigCmd = &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a default configuration file.",
		Long: `Writes the default configuration to the given path, or to the --config path.
The default uses the synthetic source, so edit "source" before pointing it at a camera.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%w: %s", errConfigExists, path)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	rootCmd.AddCommand(initConfigCmd)
}
