package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"doccheck/internal/models"
)

// writeOutput encodes data as YAML or JSON. YAML keys follow the JSON tags
// so both formats show the same field names.
func writeOutput(w io.Writer, format string, data any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		var plain any
		if err := json.Unmarshal(raw, &plain); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(plain)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

var (
	colorPass = color.New(color.FgGreen)
	colorWarn = color.New(color.FgYellow)
	colorFail = color.New(color.FgRed)
	colorHead = color.New(color.FgWhite, color.Bold)
)

func statusColor(s models.ComparisonStatus) *color.Color {
	switch s {
	case models.StatusExactMatch, models.StatusVeryCloseMatch, models.StatusCloseMatch:
		return colorPass
	case models.StatusPartialMatch, models.StatusMissing:
		return colorWarn
	default:
		return colorFail
	}
}

// printSummary writes a human readable digest of a report.
func printSummary(w io.Writer, r models.VerificationReport) {
	colorHead.Fprintf(w, "Verification summary (%s)\n", r.Timestamp)
	sections := []struct {
		label   string
		section *models.PersonSection
	}{
		{"student", &r.Student},
		{"father", r.Father},
		{"mother", r.Mother},
	}
	for _, s := range sections {
		if s.section == nil {
			continue
		}
		colorHead.Fprintf(w, "%s (%s)\n", s.label, s.section.PassportData.FullName)
		keys := make([]string, 0, len(s.section.Comparisons))
		for k := range s.section.Comparisons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			res := s.section.Comparisons[k]
			statusColor(res.Status).Fprintf(w, "  %-16s %-18s %3d%%", k, res.Status, res.Score)
			fmt.Fprintf(w, "  %s\n", res.Details)
		}
	}

	sum := r.Summary
	line := fmt.Sprintf("%d checks: %d passed, %d failed, %d warnings", sum.TotalChecks, sum.Passed, sum.Failed, sum.Warnings)
	switch {
	case sum.Failed > 0:
		colorFail.Fprintln(w, line)
	case sum.Warnings > 0:
		colorWarn.Fprintln(w, line)
	default:
		colorPass.Fprintln(w, line)
	}
	if v := r.Student.PassportData.Validation; v != nil && len(v.Warnings) > 0 {
		colorWarn.Fprintf(w, "passport warnings: %s\n", strings.Join(v.Warnings, "; "))
	}
	if r.Receipt != "" {
		fmt.Fprintf(w, "receipt: %s\n", r.Receipt)
	}
}
