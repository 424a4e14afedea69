package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PdfToText extracts the text layer of a PDF with poppler's pdftotext.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText. An empty binPath means "pdftotext" on PATH.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText returns the report text in layout order, with page breaks
// turned into blank lines.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return "", eris.Wrapf(err, "ocr: stat %s", pdfPath)
	}
	bin, err := exec.LookPath(p.binPath)
	if err != nil {
		return "", eris.Wrapf(err, "ocr: %s not found; install poppler-utils or set import.ocr.pdftotext_path", p.binPath)
	}

	cmd := exec.CommandContext(ctx, bin, "-layout", "-enc", "UTF-8", pdfPath, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext %s: %s", pdfPath, strings.TrimSpace(stderr.String()))
	}

	text := strings.ReplaceAll(stdout.String(), "\f", "\n\n")
	zap.L().Debug("ocr: extracted pdf text",
		zap.String("path", pdfPath),
		zap.Int("pages", strings.Count(stdout.String(), "\f")),
		zap.Int("bytes", len(text)),
	)
	return text, nil
}
