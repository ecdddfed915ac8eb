package warp

import (
	"github.com/MeKo-Tech/morphium/internal/geometry"
)

// Polyline is an ordered sequence of points forming a connected path.
type Polyline []geometry.Point

// gridSamples is the number of sample points per grid line. Keeping the
// count fixed bounds the overlay cost independently of image size.
const gridSamples = 20

// GenerateGrid produces horizontal and vertical polylines covering a
// width x height extent, one line every spacing pixels, each sampled at
// gridSamples points so it can bend smoothly under the displacement field.
func GenerateGrid(width, height, spacing int) []Polyline {
	if width <= 0 || height <= 0 || spacing <= 0 {
		return nil
	}

	var grid []Polyline

	// Horizontal lines, including the bottom edge.
	for y := 0; y <= height; y += spacing {
		fy := float64(min(y, height-1))
		line := make(Polyline, gridSamples)
		for i := 0; i < gridSamples; i++ {
			fx := float64(i) / float64(gridSamples-1) * float64(width-1)
			line[i] = geometry.Point{X: fx, Y: fy}
		}
		grid = append(grid, line)
	}

	// Vertical lines, including the right edge.
	for x := 0; x <= width; x += spacing {
		fx := float64(min(x, width-1))
		line := make(Polyline, gridSamples)
		for i := 0; i < gridSamples; i++ {
			fy := float64(i) / float64(gridSamples-1) * float64(height-1)
			line[i] = geometry.Point{X: fx, Y: fy}
		}
		grid = append(grid, line)
	}

	return grid
}

// WarpGridPoints pushes every grid sample point through the same
// displacement field WarpImage uses, so the overlay shows the exact
// deformation applied to pixels rather than an approximation. No color
// lookup happens here.
func WarpGridPoints(grid []Polyline, srcLines, dstLines geometry.LineSet, params Params) ([]Polyline, error) {
	field, err := NewField(srcLines, dstLines, params)
	if err != nil {
		return nil, err
	}

	out := make([]Polyline, len(grid))
	for i, line := range grid {
		warped := make(Polyline, len(line))
		for j, pt := range line {
			warped[j] = field.Displace(pt)
		}
		out[i] = warped
	}
	return out, nil
}
