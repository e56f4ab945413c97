// Package ocrtest provides a scripted ocr.Provider for tests.
package ocrtest

import (
	"context"
	"errors"
	"sync"

	"doccheck/internal/ocr"
)

var ErrNoResponse = errors.New("ocrtest: no scripted response left")

// Response is what the provider returns for one call.
type Response struct {
	Text string
	Err  error
}

// Call records the arguments of one Recognize call.
type Call struct {
	Profile   ocr.Profile
	Lang      string
	ImageSize int
}

// Provider replays Responses in order, one per Recognize call. When
// ByImage is set, the response is looked up by image content instead.
type Provider struct {
	ProviderName string
	Responses    []Response
	ByImage      map[string]Response

	mu    sync.Mutex
	calls []Call
}

func New(responses ...Response) *Provider {
	return &Provider{ProviderName: "ocrtest", Responses: responses}
}

// Texts builds a provider that returns each text in turn.
func Texts(texts ...string) *Provider {
	responses := make([]Response, len(texts))
	for i, t := range texts {
		responses[i] = Response{Text: t}
	}
	return New(responses...)
}

func (p *Provider) Name() string {
	return p.ProviderName
}

func (p *Provider) Recognize(ctx context.Context, image []byte, lang string, profile ocr.Profile, progress ocr.ProgressFunc) (*ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	n := len(p.calls)
	p.calls = append(p.calls, Call{Profile: profile, Lang: lang, ImageSize: len(image)})
	p.mu.Unlock()

	var resp Response
	switch {
	case p.ByImage != nil:
		r, ok := p.ByImage[string(image)]
		if !ok {
			return nil, ErrNoResponse
		}
		resp = r
	case n < len(p.Responses):
		resp = p.Responses[n]
	default:
		return nil, ErrNoResponse
	}

	if progress != nil {
		progress(100)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &ocr.Result{Text: resp.Text}, nil
}

// Calls returns the calls made so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}
