package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/core/usecase"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/mlmodel"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Model      ports.ModelInfo
	Classifier ports.ResumeClassifier
}

// New loads the model bundle once and wires the classification flow. Any
// artifact problem is returned before the caller starts serving.
func New(ctx context.Context, cfg config.Config, observer ports.ClassificationObserver, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := localfs.New(cfg.ModelDir)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelBundle, "open model dir", err)
	}

	bundle, err := mlmodel.LoadBundle(ctx, store, mlmodel.Paths{
		Vectorizer: cfg.ModelVectorizer,
		Classifier: cfg.ModelClassifier,
		Encoder:    cfg.ModelEncoder,
	})
	if err != nil {
		return nil, fmt.Errorf("load model bundle: %w", err)
	}
	logger.Info("model_bundle_loaded",
		"model_dir", store.BasePath(),
		"features", bundle.FeatureCount(),
		"labels", len(bundle.Labels()),
	)

	classifier := usecase.NewClassifyUseCase(
		extractor.NewDefaultRegistry(logger),
		bundle.Vectorizer,
		bundle.Classifier,
		bundle.Encoder,
		observer,
		logger,
	)

	return &App{
		Config:     cfg,
		Model:      bundle,
		Classifier: classifier,
	}, nil
}
