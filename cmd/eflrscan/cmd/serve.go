/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/eflrscan/pkg/api"
	"github.com/ssargent/eflrscan/pkg/config"
	"github.com/ssargent/eflrscan/pkg/scan"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the eflrscan REST API server. Uploaded files are scanned and the
results kept in the catalog under the data directory.

Examples:
  eflrscan serve
  eflrscan serve --port=9000 --api-key=mysecretkey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.GetConfig()
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if v, _ := cmd.Flags().GetString("api-key"); v != "" {
			cfg.Security.APIKey = v
		}

		serverConfig, err := serverConfigFrom(cfg)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		cat, err := container.GetCatalogFactory().OpenCatalog(cfg.DataDir, container.GetLogger())
		if err != nil {
			return err
		}
		defer cat.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, cat, serverConfig, container.GetLogger())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key for authentication (overrides config)")
}

// serverConfigFrom validates cfg and converts it to the server's settings
func serverConfigFrom(cfg *config.Config) (api.ServerConfig, error) {
	if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
		return api.ServerConfig{}, fmt.Errorf("an API key is required: run 'eflrscan init' or pass --api-key")
	}
	loc, err := cfg.Location()
	if err != nil {
		return api.ServerConfig{}, err
	}
	policy, err := scan.ParseOrphanPolicy(cfg.Scan.OrphanPolicy)
	if err != nil {
		return api.ServerConfig{}, err
	}
	return api.ServerConfig{
		Port:          cfg.Port,
		Bind:          cfg.Bind,
		APIKey:        cfg.Security.APIKey,
		MaxUploadSize: cfg.Security.MaxUploadSize,
		Location:      loc,
		OrphanPolicy:  policy,
	}, nil
}
