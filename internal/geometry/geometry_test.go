package geometry

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) <= tol }

func pointsClose(a, b Point) bool { return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) }

// TestComputeUVOnLine verifies the local frame along a horizontal line.
func TestComputeUVOnLine(t *testing.T) {
	l := FeatureLine{P: Point{X: 0, Y: 0}, Q: Point{X: 10, Y: 0}}

	tests := []struct {
		name  string
		x     Point
		wantU float64
		wantV float64
	}{
		{"at P", Point{0, 0}, 0, 0},
		{"at Q", Point{10, 0}, 1, 0},
		{"midpoint", Point{5, 0}, 0.5, 0},
		{"above midpoint", Point{5, 3}, 0.5, 3},
		{"below midpoint", Point{5, -3}, 0.5, -3},
		{"before P", Point{-5, 0}, -0.5, 0},
		{"past Q", Point{15, 0}, 1.5, 0},
	}
	for _, tt := range tests {
		u, v := ComputeUV(tt.x, l)
		if !almostEqual(u, tt.wantU) || !almostEqual(v, tt.wantV) {
			t.Errorf("%s: ComputeUV = (%g, %g), want (%g, %g)", tt.name, u, v, tt.wantU, tt.wantV)
		}
	}
}

// TestComputeUVPerpConvention pins the sign convention: perp is (Q-P)
// rotated by +90 degrees, so for a line along +X the positive side is +Y.
func TestComputeUVPerpConvention(t *testing.T) {
	l := FeatureLine{P: Point{0, 0}, Q: Point{0, 10}} // along +Y
	_, v := ComputeUV(Point{-4, 5}, l)
	if v <= 0 {
		t.Errorf("expected positive v on perp side, got %g", v)
	}
	_, v = ComputeUV(Point{4, 5}, l)
	if v >= 0 {
		t.Errorf("expected negative v on opposite side, got %g", v)
	}
}

// TestComputeXPrimeInverse checks that ComputeUV and ComputeXPrime are
// mutual inverses for arbitrary (u, v) against the same line.
func TestComputeXPrimeInverse(t *testing.T) {
	lines := []FeatureLine{
		{P: Point{0, 0}, Q: Point{10, 0}},
		{P: Point{3, 7}, Q: Point{-2, 11}},
		{P: Point{100, 50}, Q: Point{40, 90}},
	}
	uvs := [][2]float64{{0, 0}, {1, 0}, {0.5, 2.5}, {-0.3, -4}, {1.7, 0.01}}
	for _, l := range lines {
		for _, uv := range uvs {
			x := ComputeXPrime(uv[0], uv[1], l)
			u, v := ComputeUV(x, l)
			if !almostEqual(u, uv[0]) || !almostEqual(v, uv[1]) {
				t.Errorf("line %+v uv (%g,%g): round trip gave (%g,%g)", l, uv[0], uv[1], u, v)
			}
		}
	}
}

// TestCorrespondingPointOnLine checks that a point exactly on the line maps
// to the corresponding point on the paired line at the same u.
func TestCorrespondingPointOnLine(t *testing.T) {
	src := FeatureLine{P: Point{0, 0}, Q: Point{10, 0}}
	dst := FeatureLine{P: Point{20, 20}, Q: Point{20, 40}}
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		x := Point{X: 10 * u, Y: 0}
		gotU, gotV := ComputeUV(x, src)
		mapped := ComputeXPrime(gotU, gotV, dst)
		want := Point{X: 20, Y: 20 + 20*u}
		if !pointsClose(mapped, want) {
			t.Errorf("u=%g: mapped to (%g,%g), want (%g,%g)", u, mapped.X, mapped.Y, want.X, want.Y)
		}
	}
}

func TestSegmentDistance(t *testing.T) {
	l := FeatureLine{P: Point{0, 0}, Q: Point{10, 0}}

	tests := []struct {
		name string
		x    Point
		want float64
	}{
		{"perpendicular within segment", Point{5, 4}, 4},
		{"before P", Point{-3, 4}, 5},
		{"past Q", Point{13, 4}, 5},
		{"on segment", Point{2, 0}, 0},
	}
	for _, tt := range tests {
		u, v := ComputeUV(tt.x, l)
		if got := SegmentDistance(tt.x, l, u, v); !almostEqual(got, tt.want) {
			t.Errorf("%s: SegmentDistance = %g, want %g", tt.name, got, tt.want)
		}
	}
}

func TestLineSetValidate(t *testing.T) {
	good := LineSet{{P: Point{0, 0}, Q: Point{1, 1}}}
	if err := good.Validate(); err != nil {
		t.Errorf("unexpected error for valid set: %v", err)
	}

	bad := LineSet{{P: Point{2, 2}, Q: Point{2, 2}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for degenerate line")
	}
}

func TestValidatePairLengthMismatch(t *testing.T) {
	a := LineSet{{P: Point{0, 0}, Q: Point{1, 0}}}
	b := LineSet{{P: Point{0, 0}, Q: Point{1, 0}}, {P: Point{0, 1}, Q: Point{1, 1}}}
	err := ValidatePair(a, b)
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}
