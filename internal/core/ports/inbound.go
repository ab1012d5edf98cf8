package ports

import (
	"context"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// ResumeClassifier is the inbound contract for classifying résumés.
type ResumeClassifier interface {
	Submit(ctx context.Context, upload domain.Upload, includeText bool) (*domain.Prediction, error)
	Classify(ctx context.Context, rawText string) (string, error)
}

// ModelInfo describes the loaded model bundle.
type ModelInfo interface {
	Labels() []string
	FeatureCount() int
}
