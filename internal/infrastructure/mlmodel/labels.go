package mlmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

type LabelEncoderSpec struct {
	Kind    string   `json:"kind" yaml:"kind"`
	Version int      `json:"version" yaml:"version"`
	Classes []string `json:"classes" yaml:"classes"`
}

// LabelEncoder maps class indices to category names.
type LabelEncoder struct {
	classes []string
}

func NewLabelEncoder(spec LabelEncoderSpec) (*LabelEncoder, error) {
	if err := (header{Kind: spec.Kind, Version: spec.Version}).check(KindLabelEncoder); err != nil {
		return nil, err
	}
	if len(spec.Classes) == 0 {
		return nil, errors.New("label encoder has no classes")
	}
	seen := make(map[string]struct{}, len(spec.Classes))
	for i, name := range spec.Classes {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("label %d is empty", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("label %q is listed twice", name)
		}
		seen[name] = struct{}{}
	}
	return &LabelEncoder{classes: append([]string(nil), spec.Classes...)}, nil
}

func (e *LabelEncoder) Label(index int) (string, error) {
	if index < 0 || index >= len(e.classes) {
		return "", domain.WrapError(
			domain.ErrModelSkew,
			"decode label",
			fmt.Errorf("class index %d outside [0,%d)", index, len(e.classes)),
		)
	}
	return e.classes[index], nil
}

func (e *LabelEncoder) Labels() []string {
	return append([]string(nil), e.classes...)
}
