package domain

// FeatureVector is a sparse single-row feature matrix. Indices are strictly
// increasing and lower than Dim.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Dot returns the inner product with a dense weight row of length Dim.
func (v FeatureVector) Dot(weights []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(weights) {
			sum += v.Values[i] * weights[idx]
		}
	}
	return sum
}
