package geometry

import (
	"errors"
	"fmt"
	"math"
)

// minWeightSum is the threshold below which a weight triple is treated as
// effectively zero and rejected.
const minWeightSum = 1e-9

// Weights is a barycentric weight triple for three-image merging. Callers
// may supply unnormalized values (e.g. raw slider positions); the engine
// normalizes them so they sum to one before use.
type Weights struct {
	T1 float64 `json:"t1"`
	T2 float64 `json:"t2"`
	T3 float64 `json:"t3"`
}

// EqualWeights returns the uniform triple (1/3, 1/3, 1/3).
func EqualWeights() Weights {
	return Weights{T1: 1.0 / 3.0, T2: 1.0 / 3.0, T3: 1.0 / 3.0}
}

// Normalize rescales the triple so its components sum to one. Negative
// components and a (near-)zero sum are invalid input.
func (w Weights) Normalize() (Weights, error) {
	if w.T1 < 0 || w.T2 < 0 || w.T3 < 0 {
		return Weights{}, &ConfigurationError{
			Operation: "weights",
			Err:       fmt.Errorf("weights must be non-negative, got (%g, %g, %g)", w.T1, w.T2, w.T3),
		}
	}
	sum := w.T1 + w.T2 + w.T3
	if sum < minWeightSum || math.IsNaN(sum) {
		return Weights{}, &ConfigurationError{
			Operation: "weights",
			Err:       errors.New("weight sum is zero"),
		}
	}
	return Weights{T1: w.T1 / sum, T2: w.T2 / sum, T3: w.T3 / sum}, nil
}
