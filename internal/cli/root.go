// Package cli wires the applaunch command line: one positional descriptor
// path, flag overrides for logging and the reconcile wait, and exit codes.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ynput/applaunch/internal/logging"
)

// Execute runs the root command and returns the process exit code.
func Execute(version string) int {
	cmd := newRootCmd(version)
	if err := cmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("launch failed")
		return 1
	}
	return 0
}

func newRootCmd(version string) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "applaunch <descriptor.json>",
		Short: "Launch a detached process described by a JSON descriptor",
		Long: "applaunch reads a JSON launch descriptor, starts the described\n" +
			"process in its own session so it survives the supervisor's death,\n" +
			"and writes the resulting pid back into the descriptor file.",
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument validation passed; usage output would only bury
			// the actual diagnostic from here on.
			cmd.SilenceUsage = true
			opts.waitSet = cmd.Flags().Changed("wait")
			return runLaunch(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/applaunch/config.yaml)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override logging level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "override logging format (json, console)")
	cmd.Flags().DurationVar(&opts.wait, "wait", 500*time.Millisecond, "how long to wait for a wrapper script to report the real pid")

	return cmd
}

type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	wait       time.Duration
	waitSet    bool
}
