package mlmodel

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

// Paths names the three artifacts inside an ArtifactStore.
type Paths struct {
	Vectorizer string
	Classifier string
	Encoder    string
}

// Bundle holds the three fitted artifacts. It is never mutated after
// LoadBundle returns and may be shared across goroutines.
type Bundle struct {
	Vectorizer *TFIDFVectorizer
	Classifier *LinearSVC
	Encoder    *LabelEncoder
}

// LoadBundle reads, validates and cross-checks the artifacts. Any failure is
// reported as domain.ErrModelBundle.
func LoadBundle(ctx context.Context, store ports.ArtifactStore, paths Paths) (*Bundle, error) {
	var vecSpec VectorizerSpec
	if err := loadSpec(ctx, store, paths.Vectorizer, &vecSpec); err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "load vectorizer", err)
	}
	vectorizer, err := NewTFIDFVectorizer(vecSpec)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "load vectorizer", err)
	}

	var clfSpec LinearSVCSpec
	if err := loadSpec(ctx, store, paths.Classifier, &clfSpec); err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "load classifier", err)
	}
	classifier, err := NewLinearSVC(clfSpec)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "load classifier", err)
	}

	var encSpec LabelEncoderSpec
	if err := loadSpec(ctx, store, paths.Encoder, &encSpec); err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "load label encoder", err)
	}
	encoder, err := NewLabelEncoder(encSpec)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "load label encoder", err)
	}

	bundle := &Bundle{Vectorizer: vectorizer, Classifier: classifier, Encoder: encoder}
	if err := bundle.validate(); err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "validate bundle", err)
	}
	return bundle, nil
}

func (b *Bundle) validate() error {
	if b.Vectorizer.FeatureCount() != b.Classifier.FeatureCount() {
		return fmt.Errorf(
			"vectorizer produces %d features, classifier expects %d",
			b.Vectorizer.FeatureCount(),
			b.Classifier.FeatureCount(),
		)
	}
	labels := len(b.Encoder.classes)
	for _, c := range b.Classifier.classes {
		if c < 0 || c >= labels {
			return fmt.Errorf("classifier class %d has no label (encoder knows %d)", c, labels)
		}
	}
	return nil
}

func (b *Bundle) Labels() []string {
	return b.Encoder.Labels()
}

func (b *Bundle) FeatureCount() int {
	return b.Vectorizer.FeatureCount()
}

func loadSpec(ctx context.Context, store ports.ArtifactStore, key string, out any) error {
	if key == "" {
		return fmt.Errorf("artifact path is empty")
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", key, err)
	}
	return decodeArtifact(key, raw, out)
}
