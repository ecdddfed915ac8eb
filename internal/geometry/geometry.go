package geometry

import (
	"fmt"
	"math"
)

// minLineLength is the threshold below which a feature line is considered
// degenerate (its endpoints coincide for all practical purposes).
const minLineLength = 1e-6

// Point represents a 2D coordinate in float space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q component-wise.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q component-wise.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Perp returns p rotated by +90 degrees: (x,y) -> (-y,x).
func (p Point) Perp() Point { return Point{X: -p.Y, Y: p.X} }

// FeatureLine is a directed segment from P to Q marking a corresponding
// feature across images. Zero-length lines are invalid input.
type FeatureLine struct {
	P Point `json:"p"`
	Q Point `json:"q"`
}

// Vector returns Q - P.
func (l FeatureLine) Vector() Point { return l.Q.Sub(l.P) }

// Length returns the segment length |Q - P|.
func (l FeatureLine) Length() float64 { return l.Vector().Norm() }

// Degenerate reports whether the line is too short to define a local frame.
func (l FeatureLine) Degenerate() bool { return l.Length() < minLineLength }

// ComputeUV expresses X in the local coordinate frame of l.
// u is the normalized projection along the line (0 at P, 1 at Q, unbounded
// outside the segment); v is the signed perpendicular distance in pixels,
// positive on the side of perp(Q-P).
func ComputeUV(x Point, l FeatureLine) (u, v float64) {
	pq := l.Vector()
	length := pq.Norm()
	if length < minLineLength {
		return 0, 0
	}
	xp := x.Sub(l.P)
	u = xp.Dot(pq) / (length * length)
	v = xp.Dot(pq.Perp()) / length
	return u, v
}

// ComputeXPrime maps local coordinates (u,v) back into image space relative
// to l. It is the exact inverse of ComputeUV for the same line.
func ComputeXPrime(u, v float64, l FeatureLine) Point {
	pq := l.Vector()
	length := pq.Norm()
	if length < minLineLength {
		return l.P
	}
	return l.P.Add(pq.Scale(u)).Add(pq.Perp().Scale(v / length))
}

// SegmentDistance returns the distance from X to the segment of l, given the
// local coordinates previously computed for X against l. Outside the segment
// the distance is taken to the nearer endpoint.
func SegmentDistance(x Point, l FeatureLine, u, v float64) float64 {
	switch {
	case l.Degenerate():
		return x.Sub(l.P).Norm()
	case u < 0:
		return x.Sub(l.P).Norm()
	case u > 1:
		return x.Sub(l.Q).Norm()
	default:
		return math.Abs(v)
	}
}

// LineSet is an ordered sequence of feature lines. Position in the sequence
// is the correspondence key: line i in one set pairs with line i in another.
type LineSet []FeatureLine

// Validate rejects degenerate lines.
func (s LineSet) Validate() error {
	for i, l := range s {
		if l.Degenerate() {
			return &ConfigurationError{
				Operation: "validate",
				Err:       fmt.Errorf("line %d is degenerate: P and Q coincide at (%g, %g)", i, l.P.X, l.P.Y),
			}
		}
	}
	return nil
}

// ValidatePair checks that two corresponding line sets can drive one warp.
func ValidatePair(a, b LineSet) error {
	if len(a) != len(b) {
		return &ConfigurationError{
			Operation: "validate",
			Err:       fmt.Errorf("line set lengths differ: %d vs %d", len(a), len(b)),
		}
	}
	if err := a.Validate(); err != nil {
		return err
	}
	return b.Validate()
}
