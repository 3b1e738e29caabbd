// Package commands implements the resolvefs CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "resolvefs",
	Short: "resolvefs - handle-based namespace resolution",
	Long: `resolvefs resolves opaque object handles, absolute paths and junctions
against a persistent namespace store. Handles are stable across renames;
paths are resolved component by component with directory-type and
permission enforcement at every step.

Use "resolvefs [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/resolvefs/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(removeCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
