package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"sdkscout"
)

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDetectionText renders a detection result as readable text.
func formatDetectionText(w io.Writer, result *sdkscout.DetectionResult) {
	fmt.Fprintf(w, "Root: %s\n", result.Root)
	if result.Language == "" {
		fmt.Fprintln(w, "Language: (none detected)")
	} else {
		fmt.Fprintf(w, "Language: %s\n", result.DisplayName)
		fmt.Fprintf(w, "Marker: %s\n", result.MarkerPath)
		fmt.Fprintf(w, "Source: %s (%d files)\n", result.SourceDir, result.SourceFileCount)
	}
	if result.LibraryName != "" {
		fmt.Fprintf(w, "Library: %s\n", result.LibraryName)
	}
	if result.SamplesDir != "" {
		fmt.Fprintf(w, "Samples: %s\n", result.SamplesDir)
	} else {
		fmt.Fprintf(w, "Samples: none found (suggested: %s)\n", result.SuggestedSamplesDir)
	}

	if len(result.SamplesCandidates) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CANDIDATE\tIMPORTS\tFILES")
		for _, c := range result.SamplesCandidates {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", c.Dir, c.ImportScore, c.FileScore)
		}
		tw.Flush()
	}
}

// formatCoverageText renders a usage index as readable text.
func formatCoverageText(w io.Writer, index sdkscout.UsageIndex) {
	total := len(index.Covered) + len(index.Uncovered)
	fmt.Fprintf(w, "Coverage: %d/%d reachable operations across %d sample files\n",
		len(index.Covered), total, index.FileCount)
	if len(index.Patterns) > 0 {
		fmt.Fprintf(w, "Patterns: %s\n", strings.Join(index.Patterns, ", "))
	}

	if len(index.Covered) > 0 {
		fmt.Fprintln(w, "\nCovered:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  CLIENT\tMETHOD\tFILE\tLINE")
		for _, c := range index.Covered {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n", c.Type, c.Operation, c.File, c.Line)
		}
		tw.Flush()
	}

	if len(index.Uncovered) > 0 {
		fmt.Fprintln(w, "\nUncovered:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  CLIENT\tMETHOD")
		for _, u := range index.Uncovered {
			fmt.Fprintf(tw, "  %s\t%s\n", u.Type, u.Operation)
		}
		tw.Flush()
	}
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
