// Package handlers implements the HTTP endpoints of the verification
// service.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"doccheck/internal/models"
	"doccheck/internal/receipt"
	"doccheck/internal/verify"
)

const (
	Version          = "2.1.0"
	DefaultMaxUpload = 50 << 20
	// multipart parts beyond this size are spooled to disk
	maxMemory = 32 << 20
)

// Checker runs a full document check.
type Checker interface {
	Check(ctx context.Context, docs verify.Documents) (models.VerificationReport, error)
}

// Recognizer returns the raw text of an image.
type Recognizer interface {
	RecognizeRaw(ctx context.Context, image []byte) (string, error)
}

// ReceiptVerifier validates receipt tokens.
type ReceiptVerifier interface {
	Verify(token string) (*receipt.Claims, error)
}

type Config struct {
	Checker    Checker
	Recognizer Recognizer
	// Receipts is nil when receipts are disabled.
	Receipts  ReceiptVerifier
	MaxUpload int64
	PublicURL string
	Logger    *slog.Logger
	Now       func() time.Time
}

type Handler struct {
	checker    Checker
	recognizer Recognizer
	receipts   ReceiptVerifier
	maxUpload  int64
	publicURL  string
	logger     *slog.Logger
	now        func() time.Time
}

func New(cfg Config) *Handler {
	h := &Handler{
		checker:    cfg.Checker,
		recognizer: cfg.Recognizer,
		receipts:   cfg.Receipts,
		maxUpload:  cfg.MaxUpload,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = DefaultMaxUpload
	}
	if h.publicURL == "" {
		h.publicURL = "http://localhost:8000"
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) timestamp() string {
	return models.Timestamp(h.now())
}
