package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/normalize"
)

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// pageSource is the subset of a paginated document the extractor walks.
type pageSource interface {
	NumPage() int
	PageText(pageNumber int) (string, error)
}

type readerPages struct {
	reader *pdf.Reader
}

func (p readerPages) NumPage() int {
	return p.reader.NumPage()
}

func (p readerPages) PageText(pageNumber int) (string, error) {
	page := p.reader.Page(pageNumber)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// Extract concatenates the plain text of every page in order, without a
// separator, and trims the result.
func (e *Extractor) Extract(_ context.Context, body io.Reader) (text string, err error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "read pdf", err)
	}
	if len(raw) == 0 {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open pdf", errors.New("empty document"))
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtractionFailed, "parse pdf", fmt.Errorf("malformed document: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open pdf", err)
	}
	return e.extractPages(readerPages{reader: reader})
}

func (e *Extractor) extractPages(src pageSource) (string, error) {
	total := src.NumPage()
	e.logger.Debug("pdf_extract_start", "total_pages", total)

	var b strings.Builder
	for pageNumber := 1; pageNumber <= total; pageNumber++ {
		pageText, err := src.PageText(pageNumber)
		if err != nil {
			return "", domain.WrapError(
				domain.ErrExtractionFailed,
				"extract pdf page",
				fmt.Errorf("page %d: %w", pageNumber, err),
			)
		}
		b.WriteString(pageText)
	}

	text := normalize.TrimBlank(b.String())
	e.logger.Debug("pdf_extract_done", "total_pages", total, "text_length", len(text))
	return text, nil
}
