// Package extract turns stored uploads into plain text.
//
// Supported formats:
//   - .txt  read verbatim
//   - .pdf  page text concatenated, one page per line block
//   - .docx paragraphs of word/document.xml joined by newlines
//   - .doc  handled as .docx; legacy binary files fail to open
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for extensions without an extractor.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies a document type by extension.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatDOC  Format = "doc"
)

// Detect returns the document format based on file extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatTXT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".doc":
		return FormatDOC, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Extractor reads text out of stored documents.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the plain text content of the file at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	format, err := Detect(path)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.logger.Debug("extracting document", zap.String("path", path), zap.String("format", string(format)))

	var text string
	switch format {
	case FormatTXT:
		text, err = extractText(path)
	case FormatPDF:
		text, err = extractPDF(path)
		if err != nil {
			e.logger.Warn("pdf reader failed, scanning content streams", zap.String("path", path), zap.Error(err))
			text, err = extractPDFContentStreams(path)
		}
	case FormatDOCX, FormatDOC:
		text, err = extractDocx(path)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s (%s): %w", filepath.Base(path), format, err)
	}
	return text, nil
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
