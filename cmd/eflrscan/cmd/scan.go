/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/eflrscan/pkg/scan"
	"github.com/ssargent/eflrscan/pkg/source"
)

type scanOptions struct {
	format   string
	save     bool
	timezone string
	orphans  string
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan a file for EFLR records",
	Long: `Scan a file for explicitly formatted logical records and print the decoded
tables grouped by object and record kind.

Examples:
  eflrscan scan sample.dlis
  eflrscan scan sample.dlis --format json
  eflrscan scan sample.dlis --timezone UTC --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := scanOptions{}
		opts.format, _ = cmd.Flags().GetString("format")
		opts.save, _ = cmd.Flags().GetBool("save")
		opts.timezone, _ = cmd.Flags().GetString("timezone")
		opts.orphans, _ = cmd.Flags().GetString("orphans")
		return runScan(cmd.OutOrStdout(), args[0], opts)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json or yaml")
	scanCmd.Flags().Bool("save", false, "Store the result in the catalog")
	scanCmd.Flags().String("timezone", "", "Location for DTIME values (overrides config)")
	scanCmd.Flags().String("orphans", "", "Records before any file header: defer or drop (overrides config)")
}

func runScan(out io.Writer, path string, opts scanOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	cfg := container.GetConfig()
	if opts.timezone != "" {
		cfg.Scan.Timezone = opts.timezone
	}
	if opts.orphans != "" {
		cfg.Scan.OrphanPolicy = opts.orphans
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := scan.ParseOrphanPolicy(cfg.Scan.OrphanPolicy)
	if err != nil {
		return err
	}

	src, err := source.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	res := scan.NewScanner(src, scan.ScannerConfig{
		Logger:       container.GetLogger(),
		Location:     loc,
		OrphanPolicy: policy,
	}).Scan()

	if err := writeResult(out, opts.format, res); err != nil {
		return err
	}

	if !opts.save {
		return nil
	}

	cat, err := container.GetCatalogFactory().OpenCatalog(cfg.DataDir, container.GetLogger())
	if err != nil {
		return err
	}
	defer cat.Close()

	sum, err := cat.Save(filepath.Base(path), src.Len(), res)
	if err != nil {
		return err
	}
	if opts.format == formatTable {
		fmt.Fprintf(out, "Saved as %s\n", sum.ID)
	}
	return nil
}
