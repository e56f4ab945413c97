package ocr

import (
	"context"
	"strings"
)

// Provider turns an image into text.
type Provider interface {
	// Name returns the provider identifier (e.g. "vision", "gemini").
	Name() string

	// Recognize extracts text from image. progress may be nil.
	Recognize(ctx context.Context, image []byte, lang string, profile Profile, progress ProgressFunc) (*Result, error)
}

// Result is the text recognized from one image.
type Result struct {
	Text string
}

// ProgressFunc receives recognition progress as a percentage.
type ProgressFunc func(percent int)

// Segmentation is the page layout a profile asks the provider to assume.
type Segmentation string

const (
	SegmentAuto        Segmentation = "auto"
	SegmentSingleBlock Segmentation = "single_block"
	SegmentAutoOSD     Segmentation = "auto_osd"
)

const (
	generalWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz<>/-., "
	mrzWhitelist     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ<"
)

// Profile is one recognizer configuration tried on a passport image.
type Profile struct {
	Name         string
	Segmentation Segmentation
	// Whitelist restricts the recognized characters. Empty means no
	// restriction.
	Whitelist string
}

// DefaultProfiles returns the passport profiles in the order they are tried.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "auto", Segmentation: SegmentAuto, Whitelist: generalWhitelist},
		{Name: "single_block", Segmentation: SegmentSingleBlock, Whitelist: mrzWhitelist},
		{Name: "auto_osd", Segmentation: SegmentAutoOSD},
	}
}

// Filter drops characters outside the whitelist, keeping line breaks.
// Providers without a native character whitelist apply it to their output.
func (p Profile) Filter(text string) string {
	if p.Whitelist == "" {
		return text
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || strings.ContainsRune(p.Whitelist, r) {
			return r
		}
		return -1
	}, text)
}
