/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/eflrscan/pkg/eflr"
)

// registryCmd represents the registry command
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List logical record types and their set types",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}
		return writeRegistry(cmd.OutOrStdout(), format, eflr.Types())
	},
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json or yaml")
}
