package geometry

import (
	"testing"
)

func TestWeightsNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Weights
		want    Weights
		wantErr bool
	}{
		{"already normalized", Weights{0.2, 0.3, 0.5}, Weights{0.2, 0.3, 0.5}, false},
		{"uniform scale", Weights{2, 2, 2}, EqualWeights(), false},
		{"single winner", Weights{5, 0, 0}, Weights{1, 0, 0}, false},
		{"zero sum", Weights{0, 0, 0}, Weights{}, true},
		{"negative component", Weights{-1, 1, 1}, Weights{}, true},
	}
	for _, tt := range tests {
		got, err := tt.in.Normalize()
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if !almostEqual(got.T1, tt.want.T1) || !almostEqual(got.T2, tt.want.T2) || !almostEqual(got.T3, tt.want.T3) {
			t.Errorf("%s: Normalize = %+v, want %+v", tt.name, got, tt.want)
		}
		if sum := got.T1 + got.T2 + got.T3; !almostEqual(sum, 1) {
			t.Errorf("%s: normalized sum = %g, want 1", tt.name, sum)
		}
	}
}
