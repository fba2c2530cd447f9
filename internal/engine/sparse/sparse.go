// Package sparse holds the sparse feature vector shared by the vectorizer
// and the classifier.
package sparse

import "math"

// Vector is a sparse vector with strictly increasing Indices.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored (non-zero) entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Dot computes the dot product with a dense vector. Indices outside w
// contribute nothing.
func (v Vector) Dot(w []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		if i < len(w) {
			sum += v.Values[k] * w[i]
		}
	}
	return sum
}

// AddScaledTo accumulates alpha*v into the dense vector dst.
func (v Vector) AddScaledTo(dst []float64, alpha float64) {
	for k, i := range v.Indices {
		if i < len(dst) {
			dst[i] += alpha * v.Values[k]
		}
	}
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dense expands the vector into a dense slice of length dim.
func (v Vector) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for k, i := range v.Indices {
		if i < dim {
			out[i] = v.Values[k]
		}
	}
	return out
}
