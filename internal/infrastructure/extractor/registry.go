package extractor

import (
	"context"
	"io"
	"log/slog"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor/plaintext"
)

// FormatExtractor reads the text of one document format.
type FormatExtractor interface {
	Extract(ctx context.Context, body io.Reader) (string, error)
}

// Registry dispatches documents to a FormatExtractor by filename suffix.
type Registry struct {
	extractors map[domain.DocumentFormat]FormatExtractor
}

func NewRegistry(extractors map[domain.DocumentFormat]FormatExtractor) *Registry {
	out := make(map[domain.DocumentFormat]FormatExtractor, len(extractors))
	for format, ex := range extractors {
		if ex != nil && format != domain.FormatUnknown {
			out[format] = ex
		}
	}
	return &Registry{extractors: out}
}

// NewDefaultRegistry registers the PDF, DOCX and plain text extractors.
func NewDefaultRegistry(logger *slog.Logger) *Registry {
	return NewRegistry(map[domain.DocumentFormat]FormatExtractor{
		domain.FormatPDF:  pdf.NewExtractor(logger),
		domain.FormatDOCX: docx.NewExtractor(),
		domain.FormatText: plaintext.NewExtractor(),
	})
}

// Extract returns an empty string and a nil error for unsupported formats.
func (r *Registry) Extract(ctx context.Context, filename string, body io.Reader) (string, error) {
	ex, ok := r.extractors[domain.FormatFromFilename(filename)]
	if !ok {
		return "", nil
	}
	if body == nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract", io.ErrUnexpectedEOF)
	}
	text, err := ex.Extract(ctx, body)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (r *Registry) Supports(format domain.DocumentFormat) bool {
	_, ok := r.extractors[format]
	return ok
}
