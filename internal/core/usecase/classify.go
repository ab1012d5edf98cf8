package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/normalize"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

type ClassifyUseCase struct {
	extractor  ports.TextExtractor
	vectorizer ports.Vectorizer
	predictor  ports.Predictor
	labels     ports.LabelDecoder
	observer   ports.ClassificationObserver
	logger     *slog.Logger
}

func NewClassifyUseCase(
	extractor ports.TextExtractor,
	vectorizer ports.Vectorizer,
	predictor ports.Predictor,
	labels ports.LabelDecoder,
	observer ports.ClassificationObserver,
	logger *slog.Logger,
) *ClassifyUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyUseCase{
		extractor:  extractor,
		vectorizer: vectorizer,
		predictor:  predictor,
		labels:     labels,
		observer:   observer,
		logger:     logger,
	}
}

// Submit extracts, classifies and labels one uploaded document. Panics raised
// anywhere in the flow are returned as domain.ErrProcessing.
func (uc *ClassifyUseCase) Submit(ctx context.Context, upload domain.Upload, includeText bool) (prediction *domain.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			prediction = nil
			err = fmt.Errorf("%w: %v", domain.ErrProcessing, r)
			uc.logger.Error("classification_panic", "filename", upload.Filename, "panic", r)
		}
	}()

	format := upload.Format()
	text, err := uc.extractText(ctx, upload)
	if err != nil {
		return nil, err
	}

	category, err := uc.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("document_classified",
		"filename", upload.Filename,
		"format", string(format),
		"text_length", len(text),
		"category", category,
	)

	prediction = &domain.Prediction{
		Filename: upload.Filename,
		Format:   format,
		Category: category,
	}
	if includeText {
		prediction.Text = text
	}
	return prediction, nil
}

func (uc *ClassifyUseCase) extractText(ctx context.Context, upload domain.Upload) (string, error) {
	format := upload.Format()
	text, extractErr := uc.extractor.Extract(ctx, upload.Filename, upload.Body)
	if extractErr != nil {
		uc.logger.Warn("extraction_failed",
			"filename", upload.Filename,
			"format", string(format),
			"error", extractErr,
		)
		text = ""
	}

	if text != "" {
		return text, nil
	}

	uc.observer.ObserveExtractionFailure(format)
	if extractErr == nil {
		extractErr = errors.New("no text content")
		if format == domain.FormatUnknown {
			extractErr = fmt.Errorf("unsupported file type %q", upload.Filename)
		}
	}
	if domain.IsKind(extractErr, domain.ErrExtractionFailed) {
		return "", extractErr
	}
	return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", extractErr)
}

// Classify normalizes raw text and returns the single best category.
func (uc *ClassifyUseCase) Classify(_ context.Context, rawText string) (string, error) {
	start := time.Now()
	cleaned := normalize.Clean(rawText)

	features, err := uc.vectorizer.Transform(cleaned)
	if err != nil {
		return "", fmt.Errorf("vectorize text: %w", err)
	}

	index, err := uc.predictor.Predict(features)
	if err != nil {
		return "", fmt.Errorf("predict category: %w", err)
	}

	label, err := uc.labels.Label(index)
	if err != nil {
		uc.logger.Error("label_decode_failed", "class_index", index, "error", err)
		return "", fmt.Errorf("decode category: %w", err)
	}

	uc.observer.ObservePrediction(label, time.Since(start))
	return label, nil
}

type noopObserver struct{}

func (noopObserver) ObserveExtractionFailure(domain.DocumentFormat) {}
func (noopObserver) ObservePrediction(string, time.Duration) {}
