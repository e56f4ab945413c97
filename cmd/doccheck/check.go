package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doccheck/internal/receipt"
	"doccheck/internal/verify"
)

var (
	checkStudent    string
	checkTranslated string
	checkFather     string
	checkMother     string
	checkSummary    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify local document images without starting the server",
	Long: `Run the same check as POST /check-docs against files on disk.

Examples:
  doccheck check --student passport.jpg --translated translation.jpg
  doccheck check --student s.jpg --translated t.jpg --father f.jpg --summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := readDocuments()
		if err != nil {
			return err
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

		opts := []verify.Option{verify.WithParallel(cfg.OCR.Parallel), verify.WithLogger(log)}
		if cfg.Receipt.Secret != "" {
			signer, err := receipt.NewSigner(cfg.Receipt.Secret, cfg.Receipt.TTL)
			if err != nil {
				return err
			}
			opts = append(opts, verify.WithReceipts(signer))
		}
		svc := verify.New(newOrchestrator(provider, cfg, log, nil), opts...)

		report, err := svc.Check(ctx, docs)
		if err != nil {
			return err
		}
		if checkSummary {
			printSummary(cmd.OutOrStdout(), report)
			return nil
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, report)
	},
}

func readDocuments() (verify.Documents, error) {
	var docs verify.Documents
	files := []struct {
		path string
		dst  *[]byte
	}{
		{checkStudent, &docs.Student},
		{checkTranslated, &docs.Translated},
		{checkFather, &docs.Father},
		{checkMother, &docs.Mother},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		data, err := os.ReadFile(f.path)
		if err != nil {
			return docs, fmt.Errorf("read %s: %w", f.path, err)
		}
		*f.dst = data
	}
	return docs, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkStudent, "student", "", "student passport image (required)")
	checkCmd.Flags().StringVar(&checkTranslated, "translated", "", "translated document image (required)")
	checkCmd.Flags().StringVar(&checkFather, "father", "", "father passport image")
	checkCmd.Flags().StringVar(&checkMother, "mother", "", "mother passport image")
	checkCmd.Flags().BoolVar(&checkSummary, "summary", false, "print a colored summary instead of the full report")
	_ = checkCmd.MarkFlagRequired("student")
	_ = checkCmd.MarkFlagRequired("translated")

	rootCmd.AddCommand(checkCmd)
}
