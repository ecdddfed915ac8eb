package warp

import "fmt"

// Params are the stability and falloff parameters of the weighted
// displacement model. With the defaults, weight_i = length_i^P / (A+dist_i)^B
// reduces to 1/(0.01+dist)^2: lines influence nearby pixels strongly and the
// influence falls off quadratically with distance.
type Params struct {
	// A is a small positive stabilizer added to the distance so that pixels
	// lying exactly on a line keep a finite weight.
	A float64 `json:"a"`
	// B is the distance falloff exponent.
	B float64 `json:"b"`
	// P is the line-length weighting exponent; 0 means all lines weigh
	// equally regardless of length.
	P float64 `json:"p"`
}

// DefaultParams returns the canonical field-morphing parameters.
func DefaultParams() Params {
	return Params{A: 0.01, B: 2.0, P: 0.0}
}

// Validate rejects parameter combinations that break the weight model.
func (p Params) Validate() error {
	if p.A <= 0 {
		return fmt.Errorf("stabilizer a must be positive, got %g", p.A)
	}
	if p.B < 0 {
		return fmt.Errorf("falloff exponent b must be non-negative, got %g", p.B)
	}
	return nil
}

// Options control execution of a warp, not its result.
type Options struct {
	// Workers is the number of goroutines splitting the destination rows.
	// Zero or negative means runtime.NumCPU().
	Workers int
}
