// Package googlevision recognizes document text with the Google Cloud
// Vision API.
package googlevision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/avast/retry-go/v4"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"doccheck/internal/ocr"
)

const ProviderName = "vision"

var ErrEmptyResponse = errors.New("vision returned no annotation")

// languageHints maps recognizer language codes to the BCP-47 hints Vision
// expects.
var languageHints = map[string]string{
	"eng": "en",
	"rus": "ru",
	"uzb": "uz",
	"fra": "fr",
	"deu": "de",
}

type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

type Config struct {
	CredentialsFile string
	RetryAttempts   int
	RetryDelay      time.Duration
}

// Provider is an ocr.Provider backed by the Vision image annotator.
type Provider struct {
	client   annotator
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// New dials the Vision API. Without a credentials file the client falls
// back to application default credentials.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return newProvider(client, cfg, logger), nil
}

func newProvider(client annotator, cfg Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := uint(1)
	if cfg.RetryAttempts > 0 {
		attempts = uint(cfg.RetryAttempts) + 1
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Provider{client: client, attempts: attempts, delay: delay, logger: logger}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Close() error {
	return p.client.Close()
}

// Recognize runs text detection on image. Single-block profiles use plain
// text detection, the others dense document detection. The profile
// whitelist is applied to the returned text.
func (p *Provider) Recognize(ctx context.Context, image []byte, lang string, profile ocr.Profile, progress ocr.ProgressFunc) (*ocr.Result, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{Type: featureFor(profile.Segmentation)}},
		}},
	}
	if hint := languageHint(lang); hint != "" {
		req.Requests[0].ImageContext = &visionpb.ImageContext{LanguageHints: []string{hint}}
	}

	report(progress, 0)

	var resp *visionpb.BatchAnnotateImagesResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = p.client.BatchAnnotateImages(ctx, req)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("vision request failed, retrying", "attempt", n+1, "profile", profile.Name, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("vision annotate: %w", err)
	}

	text, err := textOf(resp)
	if err != nil {
		return nil, err
	}

	report(progress, 100)
	return &ocr.Result{Text: profile.Filter(text)}, nil
}

func textOf(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.GetResponses()) == 0 {
		return "", ErrEmptyResponse
	}
	r := resp.GetResponses()[0]
	if msg := r.GetError().GetMessage(); msg != "" {
		return "", fmt.Errorf("vision annotate: %s", msg)
	}
	if text := r.GetFullTextAnnotation().GetText(); text != "" {
		return text, nil
	}
	if anns := r.GetTextAnnotations(); len(anns) > 0 {
		return anns[0].GetDescription(), nil
	}
	// An image without text is a valid, empty result.
	return "", nil
}

func featureFor(s ocr.Segmentation) visionpb.Feature_Type {
	if s == ocr.SegmentSingleBlock {
		return visionpb.Feature_TEXT_DETECTION
	}
	return visionpb.Feature_DOCUMENT_TEXT_DETECTION
}

func languageHint(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if hint, ok := languageHints[lang]; ok {
		return hint
	}
	return lang
}

func retryable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Internal:
		return true
	}
	return false
}

func report(progress ocr.ProgressFunc, percent int) {
	if progress != nil {
		progress(percent)
	}
}
