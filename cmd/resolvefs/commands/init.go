package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/resolvefs/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Write a configuration file with default values to the config location.

Examples:
  # Initialize config at the default location
  resolvefs init

  # Initialize at a custom path
  resolvefs init --config /etc/resolvefs/config.yaml`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}
