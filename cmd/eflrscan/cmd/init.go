/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/eflrscan/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration with a generated API key",
	Long: `Write a configuration file with defaults and a freshly generated API key.

Examples:
  eflrscan init
  eflrscan init --config ./eflrscan.yaml --data-dir ./catalog`,
	// the config file may not exist yet
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")
		return runInit(cmd.OutOrStdout(), path, dataDir, force)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}

func runInit(out io.Writer, path, dataDir string, force bool) error {
	if config.ConfigExists(path) && !force {
		fmt.Fprintf(out, "Configuration already exists at %s. Use --force to overwrite.\n", path)
		return nil
	}

	cfg, err := config.BootstrapConfig(path, dataDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote configuration to %s\n", path)
	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
	fmt.Fprintf(out, "API key: %s\n", cfg.Security.APIKey)
	fmt.Fprintf(out, "\nYou can now start the server with:\n")
	fmt.Fprintf(out, "  eflrscan serve --config %s\n", path)
	return nil
}
