// Package commands wires the depscan CLI.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/depscan/internal/logging"
)

// RootCmd creates the root command for the depscan CLI.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depscan",
		Short: "Dependency and duplication analyzer for Python projects",
		Long: `depscan statically analyzes a Python project tree: it builds a
file-level import dependency graph, detects dependency cycles, classifies
core and peripheral components, computes cyclomatic complexity and
test-coverage heuristics, and finds duplicated functions and classes.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("log-file", "logs/depscan.log", "log file path")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

// setupLogging builds the slog logger from the persistent flags.
func setupLogging(cmd *cobra.Command) (*slog.Logger, func(), error) {
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, nil, err
	}
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, nil, err
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}
	return logging.Setup(logFile, level)
}
