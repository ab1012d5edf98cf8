// Package mlmodel loads the pre-trained résumé classification artifacts and
// runs inference with them.
package mlmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	KindVectorizer   = "tfidf-vectorizer"
	KindLinearSVC    = "linear-svc"
	KindLabelEncoder = "label-encoder"

	SupportedVersion = 1
)

type header struct {
	Kind    string `json:"kind" yaml:"kind"`
	Version int    `json:"version" yaml:"version"`
}

func (h header) check(wantKind string) error {
	if h.Kind != wantKind {
		return fmt.Errorf("artifact kind %q, expected %q", h.Kind, wantKind)
	}
	if h.Version != SupportedVersion {
		return fmt.Errorf("%s version %d is not supported (want %d)", h.Kind, h.Version, SupportedVersion)
	}
	return nil
}

// decodeArtifact strictly decodes raw into out. The encoding is picked from
// the file extension: .yaml and .yml are YAML, everything else is JSON.
// Unknown fields are rejected.
func decodeArtifact(name string, raw []byte, out any) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode yaml artifact %s: %w", name, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode json artifact %s: %w", name, err)
		}
		if dec.More() {
			return fmt.Errorf("decode json artifact %s: trailing data", name)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
