package mlmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const (
	StrategyOneVsRest = "ovr"
	StrategyOneVsOne  = "ovo"
)

// LinearSVCSpec is the serialized form of a fitted linear support vector
// classifier. Row r scores w_r·x + b_r.
type LinearSVCSpec struct {
	Kind      string      `json:"kind" yaml:"kind"`
	Version   int         `json:"version" yaml:"version"`
	NFeatures int         `json:"n_features" yaml:"n_features"`
	Classes   []int       `json:"classes" yaml:"classes"`
	Strategy  string      `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Coef      [][]float64 `json:"coef" yaml:"coef"`
	Intercept []float64   `json:"intercept" yaml:"intercept"`
}

// LinearSVC predicts a class index from a feature vector.
//
// One-vs-rest keeps one row per class and predicts the best scoring class; a
// single row for two classes selects classes[1] when its score is positive.
// One-vs-one keeps a row per class pair (i, j), i < j, in lexicographic
// order; a positive score votes for i and anything else for j. Ties resolve
// to the class listed first.
type LinearSVC struct {
	nFeatures int
	classes   []int
	strategy  string
	coef      [][]float64
	intercept []float64
}

func NewLinearSVC(spec LinearSVCSpec) (*LinearSVC, error) {
	if err := (header{Kind: spec.Kind, Version: spec.Version}).check(KindLinearSVC); err != nil {
		return nil, err
	}
	if spec.NFeatures <= 0 {
		return nil, fmt.Errorf("n_features must be positive, got %d", spec.NFeatures)
	}

	k := len(spec.Classes)
	if k < 2 {
		return nil, fmt.Errorf("classifier needs at least two classes, got %d", k)
	}
	seen := make(map[int]struct{}, k)
	for _, c := range spec.Classes {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("class %d is listed twice", c)
		}
		seen[c] = struct{}{}
	}

	strategy := strings.ToLower(strings.TrimSpace(spec.Strategy))
	if strategy == "" {
		strategy = StrategyOneVsRest
	}
	var wantRows int
	switch strategy {
	case StrategyOneVsRest:
		wantRows = k
		if k == 2 && len(spec.Coef) == 1 {
			wantRows = 1
		}
	case StrategyOneVsOne:
		wantRows = k * (k - 1) / 2
	default:
		return nil, fmt.Errorf("unsupported strategy %q", spec.Strategy)
	}

	if len(spec.Coef) != wantRows {
		return nil, fmt.Errorf("%s classifier with %d classes needs %d coef rows, got %d", strategy, k, wantRows, len(spec.Coef))
	}
	if len(spec.Intercept) != wantRows {
		return nil, fmt.Errorf("classifier needs %d intercepts, got %d", wantRows, len(spec.Intercept))
	}

	coef := make([][]float64, wantRows)
	for r, row := range spec.Coef {
		if len(row) != spec.NFeatures {
			return nil, fmt.Errorf("coef row %d has %d weights, want %d", r, len(row), spec.NFeatures)
		}
		for _, w := range row {
			if !finite(w) {
				return nil, fmt.Errorf("coef row %d has a non-finite weight", r)
			}
		}
		coef[r] = append([]float64(nil), row...)
	}
	for r, b := range spec.Intercept {
		if !finite(b) {
			return nil, fmt.Errorf("intercept %d is not finite", r)
		}
	}

	return &LinearSVC{
		nFeatures: spec.NFeatures,
		classes:   append([]int(nil), spec.Classes...),
		strategy:  strategy,
		coef:      coef,
		intercept: append([]float64(nil), spec.Intercept...),
	}, nil
}

func (c *LinearSVC) FeatureCount() int {
	return c.nFeatures
}

// Classes returns every class index the classifier can emit.
func (c *LinearSVC) Classes() []int {
	return append([]int(nil), c.classes...)
}

func (c *LinearSVC) Predict(features domain.FeatureVector) (int, error) {
	if features.Dim != c.nFeatures {
		return 0, domain.WrapError(
			domain.ErrModelSkew,
			"predict",
			fmt.Errorf("feature vector has %d columns, classifier expects %d", features.Dim, c.nFeatures),
		)
	}
	if len(features.Indices) != len(features.Values) {
		return 0, domain.WrapError(domain.ErrInvalidInput, "predict", errors.New("malformed feature vector"))
	}

	if c.strategy == StrategyOneVsOne {
		return c.predictOneVsOne(features), nil
	}
	return c.predictOneVsRest(features), nil
}

func (c *LinearSVC) score(row int, features domain.FeatureVector) float64 {
	return features.Dot(c.coef[row]) + c.intercept[row]
}

func (c *LinearSVC) predictOneVsRest(features domain.FeatureVector) int {
	if len(c.coef) == 1 {
		if c.score(0, features) > 0 {
			return c.classes[1]
		}
		return c.classes[0]
	}

	best := 0
	bestScore := c.score(0, features)
	for r := 1; r < len(c.coef); r++ {
		if s := c.score(r, features); s > bestScore {
			best, bestScore = r, s
		}
	}
	return c.classes[best]
}

func (c *LinearSVC) predictOneVsOne(features domain.FeatureVector) int {
	k := len(c.classes)
	votes := make([]int, k)
	row := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if c.score(row, features) > 0 {
				votes[i]++
			} else {
				votes[j]++
			}
			row++
		}
	}

	best := 0
	for i := 1; i < k; i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return c.classes[best]
}
