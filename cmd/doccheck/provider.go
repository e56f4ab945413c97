package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"doccheck/internal/config"
	"doccheck/internal/gemini"
	googlevision "doccheck/internal/google-vision"
	"doccheck/internal/metrics"
	"doccheck/internal/ocr"
)

type closingProvider interface {
	ocr.Provider
	io.Closer
}

func newProvider(ctx context.Context, cfg *config.Config, log *slog.Logger) (closingProvider, error) {
	switch cfg.OCR.Provider {
	case "gemini":
		return gemini.New(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, log)
	case "vision":
		return googlevision.New(ctx, googlevision.Config{
			CredentialsFile: cfg.Vision.CredentialsFile,
			RetryAttempts:   cfg.OCR.RetryAttempts,
		}, log)
	default:
		return nil, fmt.Errorf("unknown ocr provider %q", cfg.OCR.Provider)
	}
}

func newOrchestrator(p ocr.Provider, cfg *config.Config, log *slog.Logger, m *metrics.Metrics) *ocr.Orchestrator {
	return ocr.New(p,
		ocr.WithLanguage(cfg.OCR.Language),
		ocr.WithThreshold(cfg.OCR.EarlyExitScore),
		ocr.WithLogger(log),
		ocr.WithMetrics(m),
	)
}
