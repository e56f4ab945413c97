package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doccheck/internal/handlers"
	"doccheck/internal/metrics"
	"doccheck/internal/middleware"
	"doccheck/internal/ratelimit"
)

type Deps struct {
	Handler *handlers.Handler
	// Limiter guards the OCR endpoints. nil disables rate limiting.
	Limiter  ratelimit.Limiter
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func RegisterRouter(d Deps) http.Handler {
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	h := d.Handler

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.Logging(d.Logger, d.Metrics))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(d.Limiter, d.Logger, d.Metrics))
		r.Post("/check-docs", h.CheckDocs)
		r.Post("/debug-ocr", h.DebugOCR)
	})

	r.Get("/receipts/verify", h.VerifyReceipt)
	r.Get("/receipts/qrcode", h.ReceiptQRCode)
	return r
}
