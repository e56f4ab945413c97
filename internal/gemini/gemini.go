// Package gemini transcribes document images with a Gemini vision model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"doccheck/internal/ocr"
)

const (
	ProviderName = "gemini"
	DefaultModel = "gemini-2.0-flash-lite"
)

var (
	ErrMissingAPIKey = errors.New("missing Gemini API key")
	ErrEmptyResponse = errors.New("empty response from Gemini")
)

const basePrompt = `You are an OCR engine. Transcribe all text visible in this document image exactly as printed.

Rules:
1. Keep the original line breaks. Put each printed line on its own line.
2. Do not translate, correct, summarize or explain anything.
3. Copy machine-readable zone lines character for character, including every '<' filler.
4. Your entire response must be ONLY the transcribed text.`

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey string
	Model  string
}

// Provider is an ocr.Provider backed by a Gemini multimodal model.
type Provider struct {
	client *genai.Client
	model  generator
	logger *slog.Logger
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to init Gemini client: %w", err)
	}
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0)

	p := newProvider(model, logger)
	p.client = client
	return p, nil
}

func newProvider(model generator, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{model: model, logger: logger}
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *Provider) Recognize(ctx context.Context, image []byte, lang string, profile ocr.Profile, progress ocr.ProgressFunc) (*ocr.Result, error) {
	if progress != nil {
		progress(0)
	}

	resp, err := p.model.GenerateContent(ctx,
		genai.ImageData(imageFormat(image), image),
		genai.Text(prompt(lang, profile)),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("gemini transcription", "profile", profile.Name, "chars", len(text))

	if progress != nil {
		progress(100)
	}
	return &ocr.Result{Text: profile.Filter(text)}, nil
}

func prompt(lang string, profile ocr.Profile) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)
	if lang != "" {
		fmt.Fprintf(&sb, "\n5. The document language is %q.", lang)
	}
	switch profile.Segmentation {
	case ocr.SegmentSingleBlock:
		sb.WriteString("\n6. Treat the image as a single uniform block of text.")
	case ocr.SegmentAutoOSD:
		sb.WriteString("\n6. The image may be rotated. Detect the orientation before reading.")
	}
	if profile.Whitelist != "" {
		fmt.Fprintf(&sb, "\n7. Use only these characters: %s", profile.Whitelist)
	}
	return sb.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return stripCodeFences(sb.String()), nil
}

// imageFormat returns the genai image format ("png", "jpeg", ...) sniffed
// from the image bytes.
func imageFormat(image []byte) string {
	ct := http.DetectContentType(image)
	if format, ok := strings.CutPrefix(ct, "image/"); ok {
		return format
	}
	return "jpeg"
}

// stripCodeFences removes surrounding Markdown code fences like ```text ... ```.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop a language tag on the opening fence
	if i := strings.IndexByte(s, '\n'); i != -1 {
		first := strings.TrimSpace(s[:i])
		if len(first) < 20 && !strings.ContainsAny(first, " <") {
			s = s[i+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
