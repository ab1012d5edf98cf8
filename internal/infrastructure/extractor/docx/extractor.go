package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const (
	wordMLNamespace      = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	officeDocumentSuffix = "/officeDocument"
	defaultMainPart      = "word/document.xml"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract joins the text of every body-level paragraph with a newline.
// Paragraphs nested in tables or content controls are not part of the body
// paragraph list and are skipped.
func (e *Extractor) Extract(_ context.Context, body io.Reader) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "read docx", err)
	}
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open docx", err)
	}

	part, err := openMainPart(archive)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "open docx main part", err)
	}
	defer part.Close()

	paragraphs, err := readParagraphs(part)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "parse docx", err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

type relationships struct {
	Items []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func openMainPart(archive *zip.Reader) (io.ReadCloser, error) {
	files := make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		files[f.Name] = f
	}

	name := defaultMainPart
	if rels, ok := files["_rels/.rels"]; ok {
		if target, err := mainPartFromRels(rels); err == nil && target != "" {
			name = target
		}
	}

	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("missing part %q", name)
	}
	return f.Open()
}

func mainPartFromRels(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var rels relationships
	if err := xml.NewDecoder(rc).Decode(&rels); err != nil {
		return "", err
	}
	for _, rel := range rels.Items {
		if strings.HasSuffix(rel.Type, officeDocumentSuffix) {
			return strings.TrimPrefix(path.Clean("/"+rel.Target), "/"), nil
		}
	}
	return "", nil
}

func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		sawBody    bool
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := token.(type) {
		case xml.StartElement:
			name := localName(el.Name)
			if name == "body" {
				sawBody = true
			}
			if name == "p" && endsWith(stack, "body") {
				inPara = true
				current.Reset()
			}
			stack = append(stack, name)
			if inPara && inRun(stack) {
				current.WriteString(runMarkup(name, el))
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced document markup")
			}
			stack = stack[:len(stack)-1]
			if localName(el.Name) == "p" && inPara && endsWith(stack, "body") {
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
		case xml.CharData:
			if inPara && endsWith(stack, "t") && inRun(stack) {
				current.Write(el)
			}
		}
	}

	if !sawBody {
		return nil, errors.New("document body not found")
	}
	return paragraphs, nil
}

// localName keeps WordprocessingML element names and marks every other
// namespace so that, for example, a drawing's <a:t> never counts as text.
func localName(name xml.Name) string {
	if name.Space == wordMLNamespace {
		return name.Local
	}
	return "?" + name.Local
}

func endsWith(stack []string, names ...string) bool {
	if len(stack) < len(names) {
		return false
	}
	tail := stack[len(stack)-len(names):]
	for i := range names {
		if tail[i] != names[i] {
			return false
		}
	}
	return true
}

// inRun reports whether the innermost element is a direct child of a run
// that belongs to a body paragraph, optionally through a hyperlink.
func inRun(stack []string) bool {
	if len(stack) < 4 {
		return false
	}
	parents := stack[:len(stack)-1]
	return endsWith(parents, "body", "p", "r") || endsWith(parents, "body", "p", "hyperlink", "r")
}

func runMarkup(name string, el xml.StartElement) string {
	switch name {
	case "tab", "ptab":
		return "\t"
	case "cr":
		return "\n"
	case "br":
		for _, attr := range el.Attr {
			if attr.Name.Local == "type" && (attr.Value == "page" || attr.Value == "column") {
				return ""
			}
		}
		return "\n"
	case "noBreakHyphen":
		return "-"
	default:
		return ""
	}
}
