package geometry

// lerpPoint linearly interpolates between two points.
func lerpPoint(a, b Point, t float64) Point {
	return Point{
		X: (1-t)*a.X + t*b.X,
		Y: (1-t)*a.Y + t*b.Y,
	}
}

// InterpolateLines produces the intermediate geometry between two
// corresponding line sets at the given alpha (0 = a, 1 = b).
func InterpolateLines(a, b LineSet, alpha float64) (LineSet, error) {
	if err := ValidatePair(a, b); err != nil {
		return nil, err
	}
	out := make(LineSet, len(a))
	for i := range a {
		out[i] = FeatureLine{
			P: lerpPoint(a[i].P, b[i].P, alpha),
			Q: lerpPoint(a[i].Q, b[i].Q, alpha),
		}
	}
	return out, nil
}

// InterpolateMultipleLines computes the shared geometry for a three-way
// merge: each endpoint is the barycentric combination of the corresponding
// endpoints in the three sets. Weights are normalized before use.
func InterpolateMultipleLines(l1, l2, l3 LineSet, w Weights) (LineSet, error) {
	nw, err := w.Normalize()
	if err != nil {
		return nil, err
	}
	if err := ValidatePair(l1, l2); err != nil {
		return nil, err
	}
	if err := ValidatePair(l2, l3); err != nil {
		return nil, err
	}
	out := make(LineSet, len(l1))
	for i := range l1 {
		out[i] = FeatureLine{
			P: combine(l1[i].P, l2[i].P, l3[i].P, nw),
			Q: combine(l1[i].Q, l2[i].Q, l3[i].Q, nw),
		}
	}
	return out, nil
}

func combine(p1, p2, p3 Point, w Weights) Point {
	return Point{
		X: w.T1*p1.X + w.T2*p2.X + w.T3*p3.X,
		Y: w.T1*p1.Y + w.T2*p2.Y + w.T3*p3.Y,
	}
}
