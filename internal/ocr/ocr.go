// Package ocr turns the district ranking report into plain text for the
// import parser.
package ocr

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/water-intel/internal/config"
)

// Extractor extracts text content from a report file.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// NewExtractor creates an Extractor based on config. The returned extractor
// reads .txt and .md reports directly and sends everything else through the
// configured PDF backend.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	var pdf Extractor
	switch cfg.Provider {
	case "local", "":
		pdf = NewPdfToText(cfg.PdfToTextPath)
	case "text":
		pdf = PlainText{}
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
	return &byExtension{pdf: pdf, text: PlainText{}}, nil
}

type byExtension struct {
	pdf  Extractor
	text Extractor
}

func (b *byExtension) ExtractText(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text":
		return b.text.ExtractText(ctx, path)
	default:
		return b.pdf.ExtractText(ctx, path)
	}
}

// PlainText reads a pre-extracted report as-is.
type PlainText struct{}

func (PlainText) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "ocr: read text")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "ocr: read text %s", path)
	}
	return string(b), nil
}
