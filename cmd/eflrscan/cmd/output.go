package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/eflrscan/pkg/catalog"
	"github.com/ssargent/eflrscan/pkg/eflr"
	"github.com/ssargent/eflrscan/pkg/scan"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// writeStructured writes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return checkFormat(format)
}

// writeResult displays a scan result
func writeResult(w io.Writer, format string, res *scan.Result) error {
	if format != formatTable {
		return writeStructured(w, format, res)
	}

	objects := sortedKeys(res.Objects)
	if len(objects) == 0 {
		fmt.Fprintln(w, "No objects found")
	}
	for _, object := range objects {
		kinds := res.Objects[object]
		for _, key := range sortedKeys(kinds) {
			fmt.Fprintf(w, "== %s / %s ==\n", object, key)
			if err := writeFrame(w, kinds[key]); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	}

	for _, o := range res.Orphans {
		fmt.Fprintf(w, "== (no file header) / %s ==\n", o.Kind)
		if err := writeFrame(w, o.Frame); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	for _, v := range res.Violations {
		fmt.Fprintf(w, "violation: %s\n", v)
	}
	return writeStats(w, res.Stats)
}

// writeFrame displays one frame as a table, the identity column is headed OBJECT
func writeFrame(w io.Writer, f eflr.Frame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := append([]string{"OBJECT"}, f.Header[min(1, len(f.Header)):]...)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range f.Data {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeStats(w io.Writer, s scan.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Bytes scanned:\t%d\n", s.BytesScanned)
	fmt.Fprintf(tw, "Bytes skipped:\t%d\n", s.BytesSkipped)
	fmt.Fprintf(tw, "Segments:\t%d (%d continuations, %d encrypted skipped)\n",
		s.Segments, s.Continuations, s.EncryptedSegments)
	fmt.Fprintf(tw, "Records:\t%d (%d decoded, %d unhandled, %d schema failures)\n",
		s.Records, s.Decoded, s.Unhandled, s.SchemaFailures)
	if s.RowFailures > 0 {
		fmt.Fprintf(tw, "Row failures:\t%d\n", s.RowFailures)
	}
	return tw.Flush()
}

// writeSummaries displays catalog summaries
func writeSummaries(w io.Writer, format string, list []catalog.Summary) error {
	if format != formatTable {
		return writeStructured(w, format, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No scans found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tSIZE\tOBJECTS\tRECORDS\tCREATED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			s.ID, s.Source, s.Size, strings.Join(s.Objects, ","), s.Stats.Records,
			s.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// writeRegistry displays the object-set registry
func writeRegistry(w io.Writer, format string, types []eflr.EFLRType) error {
	if format != formatTable {
		return writeStructured(w, format, types)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tTYPE\tDESCRIPTION\tSET TYPES")
	for _, t := range types {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.Code, t.Short, t.Description, strings.Join(t.SetTypes, ", "))
	}
	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
