package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// PlainText reads text and markdown documents as they are.
type PlainText struct{}

func (PlainText) Extract(_ context.Context, data []byte, mediaType string) (Result, error) {
	if !IsText(mediaType) {
		return Result{}, fmt.Errorf("%w: %s needs an OCR extractor", ErrUnsupportedInput, mediaType)
	}
	if !utf8.Valid(data) {
		return Result{}, fmt.Errorf("%w: document is not valid UTF-8", ErrUnsupportedInput)
	}
	return Result{Text: string(data), Confidence: 1}, nil
}

// Command runs an external OCR program, writing the document to its stdin
// and reading the text from its stdout. The program's confidence is not
// known, so results report zero.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

func (c Command) Extract(ctx context.Context, data []byte, _ string) (Result, error) {
	if strings.TrimSpace(c.Path) == "" {
		return Result{}, errors.New("ocr command is not configured")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Result{}, fmt.Errorf("run %s: %w: %s", c.Path, err, msg)
		}
		return Result{}, fmt.Errorf("run %s: %w", c.Path, err)
	}

	return Result{Text: stdout.String(), ProcessingTime: time.Since(start)}, nil
}

// Router sends text documents to Text and everything else to OCR.
type Router struct {
	Text Extractor
	OCR  Extractor
}

func (r Router) Extract(ctx context.Context, data []byte, mediaType string) (Result, error) {
	if IsText(mediaType) {
		text := r.Text
		if text == nil {
			text = PlainText{}
		}
		return text.Extract(ctx, data, mediaType)
	}
	if r.OCR == nil {
		return Result{}, fmt.Errorf("%w: no OCR extractor for %s", ErrUnsupportedInput, mediaType)
	}
	return r.OCR.Extract(ctx, data, mediaType)
}
