package mlmodel

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const defaultTokenPattern = `(?u)\b\w\w+\b`

// VectorizerSpec is the serialized form of a fitted TF-IDF vectorizer.
type VectorizerSpec struct {
	Kind         string         `json:"kind" yaml:"kind"`
	Version      int            `json:"version" yaml:"version"`
	Lowercase    *bool          `json:"lowercase,omitempty" yaml:"lowercase,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty" yaml:"token_pattern,omitempty"`
	NgramRange   []int          `json:"ngram_range,omitempty" yaml:"ngram_range,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty" yaml:"stop_words,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf,omitempty" yaml:"sublinear_tf,omitempty"`
	Norm         string         `json:"norm,omitempty" yaml:"norm,omitempty"`
	Vocabulary   map[string]int `json:"vocabulary" yaml:"vocabulary"`
	IDF          []float64      `json:"idf" yaml:"idf"`
}

// TFIDFVectorizer maps text to an L1/L2 normalized TF-IDF row over a fixed
// vocabulary. It is immutable and safe for concurrent use.
type TFIDFVectorizer struct {
	lowercase   bool
	token       *regexp.Regexp
	minN, maxN  int
	stopWords   map[string]struct{}
	sublinearTF bool
	norm        string
	vocabulary  map[string]int
	idf         []float64
}

func NewTFIDFVectorizer(spec VectorizerSpec) (*TFIDFVectorizer, error) {
	if err := (header{Kind: spec.Kind, Version: spec.Version}).check(KindVectorizer); err != nil {
		return nil, err
	}

	n := len(spec.Vocabulary)
	if n == 0 {
		return nil, errors.New("vectorizer vocabulary is empty")
	}
	if len(spec.IDF) != n {
		return nil, fmt.Errorf("vectorizer idf has %d weights for %d terms", len(spec.IDF), n)
	}
	seen := make([]bool, n)
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("vocabulary term %q has column %d outside [0,%d)", term, idx, n)
		}
		if seen[idx] {
			return nil, fmt.Errorf("vocabulary column %d is assigned twice", idx)
		}
		seen[idx] = true
	}
	for i, w := range spec.IDF {
		if !finite(w) || w <= 0 {
			return nil, fmt.Errorf("idf weight %d is invalid: %v", i, w)
		}
	}

	minN, maxN := 1, 1
	if spec.NgramRange != nil {
		if len(spec.NgramRange) != 2 {
			return nil, fmt.Errorf("ngram_range must have two bounds, got %d", len(spec.NgramRange))
		}
		minN, maxN = spec.NgramRange[0], spec.NgramRange[1]
		if minN < 1 || maxN < minN {
			return nil, fmt.Errorf("ngram_range [%d,%d] is invalid", minN, maxN)
		}
	}

	norm := strings.ToLower(strings.TrimSpace(spec.Norm))
	switch norm {
	case "":
		norm = "l2"
	case "l1", "l2", "none":
	default:
		return nil, fmt.Errorf("unsupported norm %q", spec.Norm)
	}

	pattern := spec.TokenPattern
	if pattern == "" {
		pattern = defaultTokenPattern
	}
	// RE2 has no (?u) flag; \w and \b are ASCII, which matches cleaned text.
	token, err := regexp.Compile(strings.TrimPrefix(pattern, "(?u)"))
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}
	if token.NumSubexp() > 1 {
		return nil, fmt.Errorf("token pattern %q has more than one capturing group", pattern)
	}

	stop := make(map[string]struct{}, len(spec.StopWords))
	for _, w := range spec.StopWords {
		stop[w] = struct{}{}
	}

	lowercase := true
	if spec.Lowercase != nil {
		lowercase = *spec.Lowercase
	}

	vocab := make(map[string]int, n)
	for term, idx := range spec.Vocabulary {
		vocab[term] = idx
	}
	idf := append([]float64(nil), spec.IDF...)

	return &TFIDFVectorizer{
		lowercase:   lowercase,
		token:       token,
		minN:        minN,
		maxN:        maxN,
		stopWords:   stop,
		sublinearTF: spec.SublinearTF,
		norm:        norm,
		vocabulary:  vocab,
		idf:         idf,
	}, nil
}

func (v *TFIDFVectorizer) FeatureCount() int {
	return len(v.idf)
}

func (v *TFIDFVectorizer) Transform(text string) (domain.FeatureVector, error) {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, term := range v.terms(v.tokenize(text)) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		values[i] = tf * v.idf[idx]
	}
	v.normalize(values)

	return domain.FeatureVector{Dim: len(v.idf), Indices: indices, Values: values}, nil
}

func (v *TFIDFVectorizer) tokenize(text string) []string {
	var tokens []string
	if v.token.NumSubexp() == 1 {
		for _, m := range v.token.FindAllStringSubmatch(text, -1) {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = v.token.FindAllString(text, -1)
	}

	if len(v.stopWords) == 0 {
		return tokens
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := v.stopWords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return kept
}

func (v *TFIDFVectorizer) terms(tokens []string) []string {
	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}
	var out []string
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func (v *TFIDFVectorizer) normalize(values []float64) {
	var total float64
	switch v.norm {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
