package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/StefanEhlert/chefsnumbers/internal/core"
)

// parseMappingFlags turns header=field pairs into mapping overrides. The
// last "=" separates header and field so headers may contain "=". An empty
// field unmaps the header.
func parseMappingFlags(pairs []string) (core.FieldMapping, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(core.FieldMapping, len(pairs))
	for _, p := range pairs {
		i := strings.LastIndex(p, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%w: %q is not header=field", core.ErrInvalidMapping, p)
		}
		header := strings.TrimSpace(p[:i])
		key := core.FieldKey(strings.TrimSpace(p[i+1:]))
		if key != "" && !key.Valid() {
			return nil, fmt.Errorf("%w: unknown field %q", core.ErrInvalidMapping, key)
		}
		m[header] = key
	}
	return m, nil
}

func printResult(w io.Writer, result *core.ImportResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "summary", "":
		return printSummary(w, result)
	default:
		return fmt.Errorf("unknown output format %q (use summary or json)", format)
	}
}

func printSummary(w io.Writer, r *core.ImportResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	verb := "Imported"
	if r.DryRun {
		verb = "Would import"
	}
	fmt.Fprintf(tw, "File:\t%s (%s, %s", r.FileName, r.Format, r.Encoding)
	if r.Delimiter != "" {
		fmt.Fprintf(tw, ", delimiter %q", r.Delimiter)
	}
	fmt.Fprintln(tw, ")")
	fmt.Fprintf(tw, "%s:\t%d articles\n", verb, r.Outcome.ImportedCount)
	fmt.Fprintf(tw, "Skipped:\t%d rows\n", r.Outcome.SkippedCount)
	fmt.Fprintf(tw, "New suppliers:\t%d\n", r.Outcome.SuppliersCreatedCount)

	if len(r.Mapping) > 0 {
		fmt.Fprintln(tw, "\nColumn\tField")
		for _, h := range r.Headers {
			if k, ok := r.Mapping[h]; ok {
				fmt.Fprintf(tw, "%s\t%s\n", h, k)
			}
		}
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintln(tw, "\nLine\tName\tReason")
		for _, s := range r.Skipped {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Line, s.Name, s.Reason)
		}
	}
	if len(r.Notes) > 0 {
		fmt.Fprintln(tw, "\nLine\tName\tNote")
		for _, n := range r.Notes {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", n.Line, n.Name, n.Message)
		}
	}
	return tw.Flush()
}
