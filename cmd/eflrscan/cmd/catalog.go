/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/eflrscan/pkg/api"
)

// catalogCmd groups the commands that work on stored scans
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect stored scan results",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withCatalog(func(cat api.Catalog) error {
			return runCatalogList(cmd.OutOrStdout(), cat, format)
		})
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id> [object kind]",
	Short: "Show a stored scan, or one of its frames",
	Long: `Show a stored scan. With an object name and a record key such as HEADER,
CHANNEL or PARAMETER_1 only that frame is shown.

Examples:
  eflrscan catalog show 2mXyZ...
  eflrscan catalog show 2mXyZ... WELL-1 CHANNEL`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts <id> or <id> <object> <kind>, received %d args", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withCatalog(func(cat api.Catalog) error {
			return runCatalogShow(cmd.OutOrStdout(), cat, format, args)
		})
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored scan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(cat api.Catalog) error {
			if err := cat.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd, catalogDeleteCmd)
	catalogListCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json or yaml")
	catalogShowCmd.Flags().StringP("format", "f", formatTable, "Output format: table, json or yaml")
}

func withCatalog(fn func(cat api.Catalog) error) error {
	cfg := container.GetConfig()
	cat, err := container.GetCatalogFactory().OpenCatalog(cfg.DataDir, container.GetLogger())
	if err != nil {
		return err
	}
	defer cat.Close()
	return fn(cat)
}

func runCatalogList(out io.Writer, store api.ScanStore, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	list, err := store.List()
	if err != nil {
		return err
	}
	return writeSummaries(out, format, list)
}

func runCatalogShow(out io.Writer, store api.ScanStore, format string, args []string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	entry, err := store.Get(args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		if format != formatTable {
			return writeStructured(out, format, entry)
		}
		fmt.Fprintf(out, "Scan %s of %s (%d bytes)\n\n", entry.ID, entry.Source, entry.Size)
		return writeResult(out, format, entry.Result)
	}

	frame, ok := entry.Result.Objects.Frame(args[1], args[2])
	if !ok {
		return fmt.Errorf("no %s frame for object %q in scan %s", args[2], args[1], args[0])
	}
	if format != formatTable {
		return writeStructured(out, format, frame)
	}
	return writeFrame(out, frame)
}
