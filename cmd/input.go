package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/document"
	"github.com/spigell/talent-scout/internal/logger"
)

// requirementInput is the free-text requirement given on the command line:
// inline text, a text file, or a document that is run through extraction.
type requirementInput struct {
	Text     string
	TextFile string
	Document string
}

func (in requirementInput) resolve(ctx context.Context, extractor document.Extractor, lg *zap.Logger) (string, error) {
	given := 0
	for _, s := range []string{in.Text, in.TextFile, in.Document} {
		if strings.TrimSpace(s) != "" {
			given++
		}
	}
	switch {
	case given == 0:
		return "", errors.New("one of --text, --text-file or --document is required")
	case given > 1:
		return "", errors.New("--text, --text-file and --document are mutually exclusive")
	}

	if text := strings.TrimSpace(in.Text); text != "" {
		return text, nil
	}

	if in.TextFile != "" {
		data, err := os.ReadFile(in.TextFile)
		if err != nil {
			return "", fmt.Errorf("reading requirement file: %w", err)
		}
		return string(data), nil
	}

	res, err := extractDocument(ctx, extractor, in.Document)
	if err != nil {
		return "", err
	}
	logger.OrNop(lg).Info("document text extracted",
		zap.String("file", in.Document),
		zap.Int("length", len(res.Text)),
		zap.Float64("confidence", res.Confidence),
		zap.Duration("took", res.ProcessingTime),
	)
	return res.Text, nil
}

func extractDocument(ctx context.Context, extractor document.Extractor, path string) (document.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Result{}, fmt.Errorf("reading document: %w", err)
	}
	return document.Process(ctx, extractor, data, document.DetectMediaType(path, data))
}
