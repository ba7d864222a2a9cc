/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/eflrscan/pkg/config"
)

const (
	serviceName    = "eflrscan.service"
	defaultUnitDir = "/etc/systemd/system"
)

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the eflrscan API server as a systemd service",
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the API server as a systemd service",
	Long: `Install the API server as a systemd service.

This will:
- Create or reuse the configuration
- Write the systemd unit file
- Enable and optionally start the service

Examples:
  eflrscan service install
  eflrscan service install --data-dir /var/lib/eflrscan --user eflrscan`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		user, _ := cmd.Flags().GetString("user")
		unitDir, _ := cmd.Flags().GetString("unit-dir")
		startNow, _ := cmd.Flags().GetBool("start")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if unitDir == defaultUnitDir && os.Geteuid() != 0 {
			return fmt.Errorf("service install requires root privileges, run with: sudo eflrscan service install")
		}

		out := cmd.OutOrStdout()
		cfg, err := ensureServiceConfig(out, configPath, dataDir)
		if err != nil {
			return err
		}

		binary, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate eflrscan binary: %w", err)
		}
		unitPath, err := writeSystemdUnit(unitDir, systemdUnit(cfg, configPath, user, binary))
		if err != nil {
			return fmt.Errorf("failed to write systemd unit: %w", err)
		}
		fmt.Fprintf(out, "✅ Wrote %s\n", unitPath)

		if unitDir != defaultUnitDir {
			return nil
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}
		if err := runSystemctlCommand("enable", serviceName); err != nil {
			return fmt.Errorf("failed to enable service: %w", err)
		}
		if startNow {
			if err := runSystemctlCommand("start", serviceName); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
		}

		fmt.Fprintf(out, "Service: %s\nConfig: %s\nData: %s\nListening: %s:%d\n",
			serviceName, configPath, cfg.DataDir, cfg.Bind, cfg.Port)
		fmt.Fprintf(out, "To view logs: sudo journalctl -u %s -f\n", serviceName)
		return nil
	},
}

// systemctlCmd builds a subcommand that forwards to systemctl
func systemctlCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSystemctlCommand(verb, serviceName)
		},
	}
}

// logsCmd represents the service logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show service logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")
		return runCommand("journalctl", journalArgs(follow, lines)...)
	},
}

// uninstallCmd represents the service uninstall command
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the systemd service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return fmt.Errorf("service uninstall requires root privileges, run with: sudo eflrscan service uninstall")
		}

		_ = runSystemctlCommand("stop", serviceName)
		if err := runSystemctlCommand("disable", serviceName); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not disable service: %v\n", err)
		}

		unitPath := filepath.Join(defaultUnitDir, serviceName)
		if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove unit file: %w", err)
		}
		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Service uninstalled, configuration and catalog were kept\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(systemctlCmd("start", "Start the service"))
	serviceCmd.AddCommand(systemctlCmd("stop", "Stop the service"))
	serviceCmd.AddCommand(systemctlCmd("restart", "Restart the service"))
	serviceCmd.AddCommand(systemctlCmd("status", "Show service status"))
	serviceCmd.AddCommand(logsCmd)
	serviceCmd.AddCommand(uninstallCmd)

	installServiceCmd.Flags().String("user", "eflrscan", "User to run the service as")
	installServiceCmd.Flags().String("unit-dir", defaultUnitDir, "Directory the unit file is written to")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// ensureServiceConfig loads the config at path or bootstraps one
func ensureServiceConfig(out io.Writer, path, dataDir string) (*config.Config, error) {
	if !config.ConfigExists(path) {
		cfg, err := config.BootstrapConfig(path, dataDir)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "✅ Created new configuration at %s\n", path)
		return cfg, nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if dataDir != "" && dataDir != cfg.DataDir {
		cfg.DataDir = dataDir
		if err := config.SaveConfig(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// systemdUnit renders the unit file running the API server
func systemdUnit(cfg *config.Config, configPath, user, binary string) string {
	return fmt.Sprintf(`[Unit]
Description=eflrscan API server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=%s serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, binary, configPath, cfg.DataDir)
}

func writeSystemdUnit(dir, content string) (string, error) {
	unitPath := filepath.Join(dir, serviceName)
	if err := os.WriteFile(unitPath, []byte(content), 0600); err != nil {
		return "", err
	}
	return unitPath, nil
}

func journalArgs(follow bool, lines int) []string {
	args := []string{"-u", serviceName}
	if follow {
		args = append(args, "-f")
	}
	if lines > 0 {
		args = append(args, fmt.Sprintf("-n%d", lines))
	}
	return args
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command and returns its error
func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
