// Package verify runs one document check: it extracts every uploaded
// document and builds the report.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"doccheck/internal/metrics"
	"doccheck/internal/models"
	"doccheck/internal/report"
)

var ErrMissingDocuments = errors.New("student passport and translated document are required")

// Extractor reads passports and translated documents. *ocr.Orchestrator
// implements it.
type Extractor interface {
	ExtractPassport(ctx context.Context, image []byte) (models.IdentityRecord, error)
	ExtractTranslatedDoc(ctx context.Context, image []byte) (models.TranslatedDocRecord, error)
}

// ReceiptIssuer signs a finished report.
type ReceiptIssuer interface {
	Issue(r models.VerificationReport) (string, error)
}

// Documents are the uploaded images of one request. Father and Mother are
// optional.
type Documents struct {
	Student    []byte
	Translated []byte
	Father     []byte
	Mother     []byte
}

type Service struct {
	extractor Extractor
	receipts  ReceiptIssuer
	parallel  bool
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Service)

// WithParallel extracts the documents concurrently.
func WithParallel(enabled bool) Option {
	return func(s *Service) { s.parallel = enabled }
}

// WithReceipts attaches a signed receipt to every report.
func WithReceipts(r ReceiptIssuer) Option {
	return func(s *Service) { s.receipts = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(extractor Extractor, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check extracts the documents and compares them. Failing to read the
// student passport fails the check. Other unreadable documents compare as
// missing.
func (s *Service) Check(ctx context.Context, docs Documents) (models.VerificationReport, error) {
	if len(docs.Student) == 0 || len(docs.Translated) == 0 {
		return models.VerificationReport{}, ErrMissingDocuments
	}

	var (
		in  report.Inputs
		err error
	)
	if s.parallel {
		in, err = s.extractParallel(ctx, docs)
	} else {
		in, err = s.extractSequential(ctx, docs)
	}
	if err != nil {
		s.metrics.IncrementVerifications("error")
		return models.VerificationReport{}, err
	}

	r := report.Build(in, s.now())
	s.observe(r)

	if s.receipts != nil {
		token, err := s.receipts.Issue(r)
		if err != nil {
			s.logger.Error("failed to issue receipt", "error", err)
		} else {
			r.Receipt = token
		}
	}

	s.metrics.IncrementVerifications("success")
	s.logger.Info("document check completed",
		"total_checks", r.Summary.TotalChecks,
		"passed", r.Summary.Passed,
		"failed", r.Summary.Failed,
		"warnings", r.Summary.Warnings,
	)
	return r, nil
}

func (s *Service) extractSequential(ctx context.Context, docs Documents) (report.Inputs, error) {
	var in report.Inputs

	s.logger.Debug("processing student passport")
	student, err := s.extractor.ExtractPassport(ctx, docs.Student)
	if err != nil {
		return in, fmt.Errorf("extract student passport: %w", err)
	}
	in.Student = student

	s.logger.Debug("processing translated document")
	if in.Translated, err = s.translated(ctx, docs.Translated); err != nil {
		return in, err
	}
	if in.Father, err = s.parent(ctx, "father", docs.Father); err != nil {
		return in, err
	}
	if in.Mother, err = s.parent(ctx, "mother", docs.Mother); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Service) extractParallel(ctx context.Context, docs Documents) (report.Inputs, error) {
	var in report.Inputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		student, err := s.extractor.ExtractPassport(gctx, docs.Student)
		if err != nil {
			return fmt.Errorf("extract student passport: %w", err)
		}
		in.Student = student
		return nil
	})
	g.Go(func() error {
		var err error
		in.Translated, err = s.translated(gctx, docs.Translated)
		return err
	})
	g.Go(func() error {
		var err error
		in.Father, err = s.parent(gctx, "father", docs.Father)
		return err
	})
	g.Go(func() error {
		var err error
		in.Mother, err = s.parent(gctx, "mother", docs.Mother)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.Inputs{}, err
	}
	return in, nil
}

// translated reads the translated document. An extraction failure yields a
// record with every field "Not found" and Error set, so its comparisons
// report as missing. Only cancellation aborts the check.
func (s *Service) translated(ctx context.Context, image []byte) (models.TranslatedDocRecord, error) {
	rec, err := s.extractor.ExtractTranslatedDoc(ctx, image)
	if err == nil {
		return rec, nil
	}
	if ctx.Err() != nil {
		return rec, fmt.Errorf("extract translated document: %w", err)
	}
	s.logger.Warn("translated document extraction failed", "error", err)
	rec = models.NewTranslatedDocRecord("")
	rec.Error = err.Error()
	return rec, nil
}

// parent returns nil when no image was supplied. A supplied passport that
// cannot be read still yields a record, so its section reports a missing
// name instead of vanishing from the report.
func (s *Service) parent(ctx context.Context, role string, image []byte) (*models.IdentityRecord, error) {
	if len(image) == 0 {
		return nil, nil
	}
	s.logger.Debug("processing parent passport", "role", role)
	rec, err := s.extractor.ExtractPassport(ctx, image)
	if err == nil {
		return &rec, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("extract %s passport: %w", role, err)
	}
	s.logger.Warn("parent passport extraction failed", "role", role, "error", err)
	rec = models.NewIdentityRecord("")
	rec.Error = err.Error()
	return &rec, nil
}

func (s *Service) observe(r models.VerificationReport) {
	for field, c := range r.Student.Comparisons {
		s.metrics.ObserveComparison(field, string(c.Status))
	}
	for _, p := range []*models.PersonSection{r.Father, r.Mother} {
		if p == nil {
			continue
		}
		for field, c := range p.Comparisons {
			s.metrics.ObserveComparison("parent_"+field, string(c.Status))
		}
	}
}
