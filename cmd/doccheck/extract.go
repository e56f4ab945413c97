package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doccheck/internal/ocr"
)

var extractCmd = &cobra.Command{
	Use:   "extract passport|translated <image>",
	Short: "Extract identity fields from one document image",
	Long: `Run OCR and field extraction on a local image and print the record.

Examples:
  doccheck extract passport scan.jpg
  doccheck extract translated translation.png -o json`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"passport", "translated"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := args[0], args[1]
		if kind != "passport" && kind != "translated" {
			return fmt.Errorf("unknown document kind %q (want passport or translated)", kind)
		}
		image, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		provider, err := newProvider(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer provider.Close()

		return runExtract(cmd, newOrchestrator(provider, cfg, log, nil), kind, image)
	},
}

func runExtract(cmd *cobra.Command, orch *ocr.Orchestrator, kind string, image []byte) error {
	ctx := cmd.Context()
	if kind == "passport" {
		rec, err := orch.ExtractPassport(ctx, image)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, rec)
	}
	rec, err := orch.ExtractTranslatedDoc(ctx, image)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), outputFormat, rec)
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
