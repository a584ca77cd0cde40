// Package document validates uploaded job documents and turns them into text
// through a pluggable extractor.
package document

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// MaxSize is the largest document accepted.
const MaxSize = 10 << 20

const (
	MediaPDF      = "application/pdf"
	MediaJPEG     = "image/jpeg"
	MediaJPG      = "image/jpg"
	MediaPNG      = "image/png"
	MediaWebP     = "image/webp"
	MediaText     = "text/plain"
	MediaMarkdown = "text/markdown"
)

// ErrUnsupportedInput rejects a document before any extraction happens.
var ErrUnsupportedInput = errors.New("unsupported input")

var supported = map[string]bool{
	MediaPDF:      true,
	MediaJPEG:     true,
	MediaJPG:      true,
	MediaPNG:      true,
	MediaWebP:     true,
	MediaText:     true,
	MediaMarkdown: true,
}

var byExtension = map[string]string{
	".pdf":      MediaPDF,
	".jpg":      MediaJPEG,
	".jpeg":     MediaJPEG,
	".png":      MediaPNG,
	".webp":     MediaWebP,
	".txt":      MediaText,
	".md":       MediaMarkdown,
	".markdown": MediaMarkdown,
}

// Result is the outcome of one extraction. Confidence is in [0, 1]; zero
// means the extractor could not tell.
type Result struct {
	Text           string        `json:"text" yaml:"text"`
	Confidence     float64       `json:"confidence" yaml:"confidence"`
	ProcessingTime time.Duration `json:"processing_time" yaml:"processing_time"`
}

// Extractor turns validated document bytes into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) (Result, error)
}

// NormalizeMediaType lowercases a media type and strips its parameters.
func NormalizeMediaType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	return strings.ToLower(mediaType)
}

// DetectMediaType guesses the media type from the file name, falling back to
// sniffing the content.
func DetectMediaType(name string, data []byte) string {
	if mt, ok := byExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return NormalizeMediaType(mimetype.Detect(data).String())
}

// Validate checks size and media type. Every failure matches ErrUnsupportedInput.
func Validate(data []byte, mediaType string) (string, error) {
	mt := NormalizeMediaType(mediaType)
	if !supported[mt] {
		return "", fmt.Errorf("%w: media type %q", ErrUnsupportedInput, mediaType)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrUnsupportedInput)
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrUnsupportedInput, len(data), MaxSize)
	}
	return mt, nil
}

// IsText reports whether mediaType is handled without OCR.
func IsText(mediaType string) bool {
	mt := NormalizeMediaType(mediaType)
	return mt == MediaText || mt == MediaMarkdown
}

// Process validates the document and runs extractor on it.
func Process(ctx context.Context, extractor Extractor, data []byte, mediaType string) (Result, error) {
	mt, err := Validate(data, mediaType)
	if err != nil {
		return Result{}, err
	}
	if extractor == nil {
		return Result{}, errors.New("no extractor configured")
	}

	start := time.Now()
	res, err := extractor.Extract(ctx, data, mt)
	if err != nil {
		return Result{}, fmt.Errorf("extract %s: %w", mt, err)
	}

	if res.ProcessingTime <= 0 {
		res.ProcessingTime = time.Since(start)
	}
	res.Text = strings.TrimSpace(res.Text)
	if math.IsNaN(res.Confidence) {
		res.Confidence = 0
	}
	res.Confidence = min(max(res.Confidence, 0), 1)

	if res.Text == "" {
		return Result{}, fmt.Errorf("extract %s: no text found", mt)
	}

	return res, nil
}
