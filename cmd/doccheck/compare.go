package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"doccheck/internal/compare"
)

var compareKind string

var compareCmd = &cobra.Command{
	Use:   "compare <passport-value> <translated-value>",
	Short: "Compare two field values the way a document check does",
	Long: `Score a passport value against a translated-document value.

Kinds: text (default), name, date, generic.

Examples:
  doccheck compare "ABDUKODIROVA RAYYONA" "Abdukodirova Rayyona Zokirovna" --kind name
  doccheck compare 2007-05-06 06.05.2007 --kind date`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := compare.ParseKind(compareKind)
		if err != nil {
			return err
		}
		res := compare.Field(args[0], args[1], kind)
		if cmd.Flags().Changed("output") {
			return writeOutput(cmd.OutOrStdout(), outputFormat, res)
		}
		out := cmd.OutOrStdout()
		statusColor(res.Status).Fprintf(out, "%s %d%%", res.Status, res.Score)
		fmt.Fprintf(out, "  %s\n", res.Details)
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareKind, "kind", string(compare.KindText), "comparison kind: text, name, date or generic")
	rootCmd.AddCommand(compareCmd)
}
