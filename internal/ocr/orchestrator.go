// Package ocr runs passport images through several recognizer profiles and
// keeps the extraction that finds the most required fields.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"doccheck/internal/extract"
	"doccheck/internal/metrics"
	"doccheck/internal/models"
	"doccheck/internal/mrz"
	"doccheck/internal/validate"
)

var (
	ErrAllAttemptsFailed = errors.New("all OCR attempts failed")
	ErrNoProvider        = errors.New("no OCR provider configured")
)

const (
	DefaultThreshold = 4
	DefaultLanguage  = "eng"
)

var translatedProfile = Profile{Name: "translated", Segmentation: SegmentAuto}

// RawOcrAttempt is the outcome of one profile on one image. Only the best
// attempt survives selection.
type RawOcrAttempt struct {
	ProfileIndex     int
	RawText          string
	ExtractedFields  models.IdentityRecord
	FieldsFoundCount int
}

// Orchestrator drives a Provider through the passport profiles.
type Orchestrator struct {
	provider  Provider
	profiles  []Profile
	threshold int
	lang      string
	logger    *slog.Logger
	mrz       *mrz.Parser
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Orchestrator)

func WithProfiles(profiles ...Profile) Option {
	return func(o *Orchestrator) { o.profiles = profiles }
}

// WithThreshold sets the score at which remaining profiles are skipped.
func WithThreshold(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.threshold = n
		}
	}
}

func WithLanguage(lang string) Option {
	return func(o *Orchestrator) {
		if lang != "" {
			o.lang = lang
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(provider Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:  provider,
		profiles:  DefaultProfiles(),
		threshold: DefaultThreshold,
		lang:      DefaultLanguage,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.mrz = mrz.NewParser(o.logger)
	return o
}

// ExtractPassport tries each profile in order and returns the record with
// the most required fields, validated. It stops early once an attempt
// reaches the threshold. A provider error fails only its own attempt.
func (o *Orchestrator) ExtractPassport(ctx context.Context, image []byte) (models.IdentityRecord, error) {
	if o.provider == nil {
		return models.IdentityRecord{}, ErrNoProvider
	}

	var (
		best    *RawOcrAttempt
		lastErr error
	)
	for i, profile := range o.profiles {
		if err := ctx.Err(); err != nil {
			return models.IdentityRecord{}, err
		}

		attempt, err := o.attempt(ctx, i, profile, image)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return models.IdentityRecord{}, ctxErr
			}
			lastErr = err
			o.metrics.ObserveOCRAttempt(profile.Name, "error")
			o.logger.Warn("ocr attempt failed", "provider", o.provider.Name(), "profile", profile.Name, "attempt", i+1, "error", err)
			continue
		}

		o.metrics.ObserveOCRAttempt(profile.Name, "ok")
		o.logger.Debug("ocr attempt scored", "profile", profile.Name, "attempt", i+1, "fields_found", attempt.FieldsFoundCount, "method", attempt.ExtractedFields.ExtractionMethod)

		if best == nil || attempt.FieldsFoundCount > best.FieldsFoundCount {
			best = &attempt
		}
		if best.FieldsFoundCount >= o.threshold {
			o.logger.Debug("ocr early exit", "profile", profile.Name, "fields_found", best.FieldsFoundCount)
			break
		}
	}

	if best == nil {
		if lastErr == nil {
			return models.IdentityRecord{}, ErrAllAttemptsFailed
		}
		return models.IdentityRecord{}, fmt.Errorf("%w: %w", ErrAllAttemptsFailed, lastErr)
	}

	o.metrics.ObserveBestScore(best.FieldsFoundCount)
	o.logger.Info("ocr attempt selected", "profile", o.profiles[best.ProfileIndex].Name, "attempt", best.ProfileIndex+1, "fields_found", best.FieldsFoundCount)

	rec := best.ExtractedFields
	v := validate.Passport(rec, o.now())
	rec.Validation = &v
	return rec, nil
}

func (o *Orchestrator) attempt(ctx context.Context, index int, profile Profile, image []byte) (RawOcrAttempt, error) {
	res, err := o.provider.Recognize(ctx, image, o.lang, profile, o.progress(profile.Name))
	if err != nil {
		return RawOcrAttempt{}, err
	}

	rec := o.mrz.Parse(res.Text)
	extract.PassportDetails(res.Text).FillGaps(&rec)

	return RawOcrAttempt{
		ProfileIndex:     index,
		RawText:          res.Text,
		ExtractedFields:  rec,
		FieldsFoundCount: rec.FieldsFound(),
	}, nil
}

// ExtractTranslatedDoc recognizes a translated certificate in a single pass
// and pulls its labelled fields.
func (o *Orchestrator) ExtractTranslatedDoc(ctx context.Context, image []byte) (models.TranslatedDocRecord, error) {
	text, err := o.recognize(ctx, image, translatedProfile)
	if err != nil {
		return models.TranslatedDocRecord{}, fmt.Errorf("recognize translated document: %w", err)
	}
	rec := extract.TranslatedDoc(text)
	o.logger.Debug("translated document extracted", "student_name", rec.StudentName, "dob", rec.DOB)
	return rec, nil
}

// RecognizeRaw returns the unprocessed text of image.
func (o *Orchestrator) RecognizeRaw(ctx context.Context, image []byte) (string, error) {
	return o.recognize(ctx, image, translatedProfile)
}

func (o *Orchestrator) recognize(ctx context.Context, image []byte, profile Profile) (string, error) {
	if o.provider == nil {
		return "", ErrNoProvider
	}
	res, err := o.provider.Recognize(ctx, image, o.lang, profile, o.progress(profile.Name))
	if err != nil {
		o.metrics.ObserveOCRAttempt(profile.Name, "error")
		return "", err
	}
	o.metrics.ObserveOCRAttempt(profile.Name, "ok")
	return res.Text, nil
}

func (o *Orchestrator) progress(profile string) ProgressFunc {
	return func(percent int) {
		o.logger.Debug("recognizing text", "profile", profile, "progress", percent)
	}
}
