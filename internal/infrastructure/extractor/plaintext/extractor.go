package plaintext

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/normalize"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract decodes the body as UTF-8, falling back to Latin-1 for byte
// sequences that are not valid UTF-8.
func (e *Extractor) Extract(_ context.Context, body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "read text document", err)
	}
	text, err := Decode(raw)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "decode text document", err)
	}
	return normalize.TrimBlank(text), nil
}

func Decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("latin-1 fallback: %w", err)
	}
	return string(decoded), nil
}
