package domain

import (
	"io"
	"strings"
)

type DocumentFormat string

const (
	FormatPDF     DocumentFormat = "pdf"
	FormatDOCX    DocumentFormat = "docx"
	FormatText    DocumentFormat = "txt"
	FormatUnknown DocumentFormat = "unknown"
)

// FormatFromFilename derives the format tag from the lowercase suffix after
// the last dot. A name without a dot is its own suffix.
func FormatFromFilename(filename string) DocumentFormat {
	suffix := filename
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		suffix = filename[idx+1:]
	}
	switch DocumentFormat(strings.ToLower(suffix)) {
	case FormatPDF:
		return FormatPDF
	case FormatDOCX:
		return FormatDOCX
	case FormatText:
		return FormatText
	default:
		return FormatUnknown
	}
}

// Upload is a single submitted document. Body is read at most once.
type Upload struct {
	Filename string
	Body     io.Reader
}

func (u Upload) Format() DocumentFormat {
	return FormatFromFilename(u.Filename)
}

type Prediction struct {
	Filename string         `json:"filename"`
	Format   DocumentFormat `json:"format"`
	Category string         `json:"category"`
	Text     string         `json:"text,omitempty"`
}
