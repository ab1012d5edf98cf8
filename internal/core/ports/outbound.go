package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// TextExtractor returns the raw text of an uploaded document. An empty string
// with a nil error means the format is not supported.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, body io.Reader) (string, error)
}

// Vectorizer maps cleaned text to a feature vector over a fixed vocabulary.
type Vectorizer interface {
	Transform(text string) (domain.FeatureVector, error)
}

// Predictor maps a feature vector to a class index.
type Predictor interface {
	Predict(features domain.FeatureVector) (int, error)
}

// LabelDecoder maps a class index to its category name.
type LabelDecoder interface {
	Label(index int) (string, error)
	Labels() []string
}

// ArtifactStore opens read-only model artifacts by key.
type ArtifactStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ClassificationObserver receives per-document outcomes.
type ClassificationObserver interface {
	ObserveExtractionFailure(format domain.DocumentFormat)
	ObservePrediction(category string, elapsed time.Duration)
}
