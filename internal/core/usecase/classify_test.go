package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

type extractorFake struct {
	text  string
	err   error
	panic bool
	calls int
}

func (f *extractorFake) Extract(_ context.Context, _ string, body io.Reader) (string, error) {
	f.calls++
	if f.panic {
		panic("corrupt stream")
	}
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type vectorizerFake struct {
	mu     sync.Mutex
	inputs []string
	err    error
}

func (f *vectorizerFake) Transform(text string) (domain.FeatureVector, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	f.mu.Unlock()
	if f.err != nil {
		return domain.FeatureVector{}, f.err
	}
	return domain.FeatureVector{Dim: 3, Indices: []int{0}, Values: []float64{float64(len(text))}}, nil
}

func (f *vectorizerFake) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type predictorFake struct {
	index int
	err   error
}

func (f *predictorFake) Predict(domain.FeatureVector) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.index, nil
}

type labelsFake struct {
	labels []string
}

func (f *labelsFake) Label(index int) (string, error) {
	if index < 0 || index >= len(f.labels) {
		return "", domain.WrapError(domain.ErrModelSkew, "decode label", fmt.Errorf("index %d out of range", index))
	}
	return f.labels[index], nil
}

func (f *labelsFake) Labels() []string { return f.labels }

type observerFake struct {
	failures    []domain.DocumentFormat
	predictions []string
}

func (f *observerFake) ObserveExtractionFailure(format domain.DocumentFormat) {
	f.failures = append(f.failures, format)
}

func (f *observerFake) ObservePrediction(category string, _ time.Duration) {
	f.predictions = append(f.predictions, category)
}

func newUseCase(ex *extractorFake, vec *vectorizerFake, pred *predictorFake, obs *observerFake) *ClassifyUseCase {
	return NewClassifyUseCase(ex, vec, pred, &labelsFake{labels: []string{"Data Science", "HR", "Java Developer"}}, obs, nil)
}

func TestSubmitClassifiesDocument(t *testing.T) {
	ex := &extractorFake{text: "Senior Java engineer, Spring & Hibernate"}
	vec := &vectorizerFake{}
	obs := &observerFake{}
	uc := newUseCase(ex, vec, &predictorFake{index: 2}, obs)

	got, err := uc.Submit(context.Background(), domain.Upload{Filename: "cv.PDF", Body: strings.NewReader("%PDF")}, false)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.Category != "Java Developer" {
		t.Fatalf("expected Java Developer, got %q", got.Category)
	}
	if got.Format != domain.FormatPDF || got.Filename != "cv.PDF" {
		t.Fatalf("unexpected prediction metadata: %+v", got)
	}
	if got.Text != "" {
		t.Fatalf("text must be omitted unless requested, got %q", got.Text)
	}
	if len(vec.inputs) != 1 || vec.inputs[0] != "Senior Java engineer Spring Hibernate" {
		t.Fatalf("vectorizer must receive cleaned text, got %q", vec.inputs)
	}
	if len(obs.predictions) != 1 || obs.predictions[0] != "Java Developer" {
		t.Fatalf("expected prediction to be observed, got %v", obs.predictions)
	}
}

func TestSubmitIncludesTextWhenRequested(t *testing.T) {
	ex := &extractorFake{text: "Recruiter with onboarding experience"}
	uc := newUseCase(ex, &vectorizerFake{}, &predictorFake{index: 1}, &observerFake{})

	got, err := uc.Submit(context.Background(), domain.Upload{Filename: "cv.txt", Body: strings.NewReader("x")}, true)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.Text != ex.text {
		t.Fatalf("expected raw extracted text, got %q", got.Text)
	}
}

func TestSubmitEmptyTextSkipsClassifier(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ex       *extractorFake
		format   domain.DocumentFormat
	}{
		{name: "empty text", filename: "blank.txt", ex: &extractorFake{text: ""}, format: domain.FormatText},
		{name: "unsupported extension", filename: "photo.png", ex: &extractorFake{}, format: domain.FormatUnknown},
		{name: "extractor error", filename: "broken.docx", ex: &extractorFake{err: errors.New("zip: not a valid zip file")}, format: domain.FormatDOCX},
		{name: "kind already set", filename: "scan.pdf", ex: &extractorFake{err: domain.WrapError(domain.ErrExtractionFailed, "pdf", errors.New("bad xref"))}, format: domain.FormatPDF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vec := &vectorizerFake{}
			obs := &observerFake{}
			uc := newUseCase(tc.ex, vec, &predictorFake{}, obs)

			got, err := uc.Submit(context.Background(), domain.Upload{Filename: tc.filename, Body: strings.NewReader("data")}, false)
			if got != nil {
				t.Fatalf("expected nil prediction, got %+v", got)
			}
			if !errors.Is(err, domain.ErrExtractionFailed) {
				t.Fatalf("expected ErrExtractionFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "failed to extract text, please upload a valid file") {
				t.Fatalf("expected user-visible message, got %q", err.Error())
			}
			if vec.calls() != 0 {
				t.Fatalf("classifier must not be invoked, vectorizer calls = %d", vec.calls())
			}
			if len(obs.failures) != 1 || obs.failures[0] != tc.format {
				t.Fatalf("expected one failure for %q, got %v", tc.format, obs.failures)
			}
		})
	}
}

func TestSubmitClassifiesBlankParagraphs(t *testing.T) {
	vec := &vectorizerFake{}
	obs := &observerFake{}
	uc := newUseCase(&extractorFake{text: "\n"}, vec, &predictorFake{index: 1}, obs)

	got, err := uc.Submit(context.Background(), domain.Upload{Filename: "empty.docx", Body: strings.NewReader("x")}, false)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.Category != "HR" {
		t.Fatalf("expected HR, got %q", got.Category)
	}
	if vec.calls() != 1 || len(obs.failures) != 0 {
		t.Fatalf("non-empty text must reach the classifier: calls=%d failures=%v", vec.calls(), obs.failures)
	}
}

func TestSubmitRecoversPanic(t *testing.T) {
	uc := newUseCase(&extractorFake{panic: true}, &vectorizerFake{}, &predictorFake{}, &observerFake{})

	got, err := uc.Submit(context.Background(), domain.Upload{Filename: "cv.pdf", Body: strings.NewReader("x")}, false)
	if got != nil {
		t.Fatalf("expected nil prediction, got %+v", got)
	}
	if !errors.Is(err, domain.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if !strings.Contains(err.Error(), "corrupt stream") {
		t.Fatalf("expected panic value in error, got %q", err.Error())
	}
}

func TestClassifyPropagatesModelSkew(t *testing.T) {
	obs := &observerFake{}
	uc := newUseCase(&extractorFake{}, &vectorizerFake{}, &predictorFake{index: 7}, obs)

	_, err := uc.Classify(context.Background(), "python pandas")
	if !errors.Is(err, domain.ErrModelSkew) {
		t.Fatalf("expected ErrModelSkew, got %v", err)
	}
	if len(obs.predictions) != 0 {
		t.Fatalf("failed decode must not be observed as prediction, got %v", obs.predictions)
	}
}

func TestClassifyPropagatesVectorizerAndPredictorErrors(t *testing.T) {
	vecErr := errors.New("vocabulary missing")
	uc := newUseCase(&extractorFake{}, &vectorizerFake{err: vecErr}, &predictorFake{}, &observerFake{})
	if _, err := uc.Classify(context.Background(), "text"); !errors.Is(err, vecErr) {
		t.Fatalf("expected vectorizer error, got %v", err)
	}

	predErr := errors.New("dimension mismatch")
	uc = newUseCase(&extractorFake{}, &vectorizerFake{}, &predictorFake{err: predErr}, &observerFake{})
	if _, err := uc.Classify(context.Background(), "text"); !errors.Is(err, predErr) {
		t.Fatalf("expected predictor error, got %v", err)
	}
}

func TestClassifyIsDeterministicAndConcurrent(t *testing.T) {
	vec := &vectorizerFake{}
	uc := NewClassifyUseCase(&extractorFake{}, vec, &predictorFake{index: 0}, &labelsFake{labels: []string{"Data Science"}}, nil, nil)

	var wg sync.WaitGroup
	results := make([]string, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.Classify(context.Background(), "Machine learning, #python @kaggle")
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("Classify() error = %v", errs[i])
		}
		if results[i] != "Data Science" {
			t.Fatalf("expected Data Science, got %q", results[i])
		}
	}
	for _, in := range vec.inputs {
		if in != vec.inputs[0] {
			t.Fatalf("cleaned text differs between calls: %q vs %q", in, vec.inputs[0])
		}
	}
}
