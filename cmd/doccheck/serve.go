package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"doccheck/internal/config"
	"doccheck/internal/handlers"
	"doccheck/internal/metrics"
	"doccheck/internal/ratelimit"
	"doccheck/internal/receipt"
	"doccheck/internal/router"
	"doccheck/internal/verify"
)

const shutdownTimeout = 15 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verification HTTP server",
	Long: `Start the doccheck HTTP server.

Endpoints:
  POST /check-docs        - verify student_passport + translated_doc uploads
  POST /debug-ocr         - raw OCR text of one image
  GET  /health            - liveness
  GET  /metrics           - Prometheus metrics
  GET  /receipts/verify   - decode a verification receipt
  GET  /receipts/qrcode   - receipt QR code (PNG)

Examples:
  doccheck serve                  # listen on server.addr (default :8000)
  doccheck serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	provider, err := newProvider(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init ocr provider: %w", err)
	}
	defer provider.Close()
	orch := newOrchestrator(provider, cfg, log, m)

	verifyOpts := []verify.Option{
		verify.WithParallel(cfg.OCR.Parallel),
		verify.WithLogger(log),
		verify.WithMetrics(m),
	}
	hcfg := handlers.Config{
		Recognizer: orch,
		MaxUpload:  cfg.MaxUploadBytes(),
		PublicURL:  cfg.Server.PublicURL,
		Logger:     log,
	}
	if cfg.Receipt.Secret != "" {
		signer, err := receipt.NewSigner(cfg.Receipt.Secret, cfg.Receipt.TTL)
		if err != nil {
			return fmt.Errorf("init receipts: %w", err)
		}
		verifyOpts = append(verifyOpts, verify.WithReceipts(signer))
		hcfg.Receipts = signer
	} else {
		log.Warn("receipt.secret not set, verification receipts disabled")
	}
	hcfg.Checker = verify.New(orch, verifyOpts...)

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.RegisterRouter(router.Deps{
			Handler:  handlers.New(hcfg),
			Limiter:  limiter,
			Logger:   log,
			Metrics:  m,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "provider", provider.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// newLimiter prefers Redis when ratelimit.redis_url is set. A zero
// requests_per_minute disables limiting.
func newLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) (ratelimit.Limiter, func(), error) {
	noop := func() {}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		return nil, noop, nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisURL)
	if err != nil {
		return nil, noop, fmt.Errorf("init rate limiter: %w", err)
	}
	if client == nil {
		log.Info("rate limiting in memory", "requests_per_minute", cfg.RateLimit.RequestsPerMinute)
		return ratelimit.NewMemory(cfg.RateLimit.RequestsPerMinute, time.Minute), noop, nil
	}
	log.Info("rate limiting via redis", "requests_per_minute", cfg.RateLimit.RequestsPerMinute)
	return ratelimit.NewRedis(client, cfg.RateLimit.RequestsPerMinute, time.Minute), func() { client.Close() }, nil
}
