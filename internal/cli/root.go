package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flowdiff/flowdiff/pkg/buildinfo"
	"github.com/flowdiff/flowdiff/pkg/config"
)

// configPathFlag is the persistent --config flag value, shared by all
// commands through loadConfig.
var configPathFlag string

// Execute runs the flowdiff CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree. Each
// invocation gets a short run id in its log fields so that interleaved
// batch runs can be told apart.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "flowdiff",
		Short:        "Flowdiff finds behavior changes between request-flow snapshots",
		Long:         `Flowdiff compares two snapshots of a distributed system's request flows and reports which request categories changed in frequency and which caller/callee edges changed in latency.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level).With("run", shortRunID())
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPathFlag, "config", "", "TOML config file with comparison settings")

	root.AddCommand(newCompareCmd())
	root.AddCommand(newGraphCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig returns the settings for this invocation: the --config file
// when given, the defaults otherwise.
func loadConfig() (config.Config, error) {
	if configPathFlag == "" {
		return config.Default(), nil
	}
	return config.Load(configPathFlag)
}

func shortRunID() string {
	return uuid.NewString()[:8]
}
