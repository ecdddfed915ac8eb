package warp

import (
	"testing"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGridCoverage(t *testing.T) {
	grid := GenerateGrid(90, 60, 30)
	require.NotEmpty(t, grid)

	// 3 horizontal lines at y=0,30,60(clamped) plus 4 vertical at x=0,30,60,90(clamped).
	assert.Len(t, grid, 7)
	for _, line := range grid {
		assert.Len(t, line, gridSamples)
		for _, pt := range line {
			assert.GreaterOrEqual(t, pt.X, 0.0)
			assert.LessOrEqual(t, pt.X, 89.0)
			assert.GreaterOrEqual(t, pt.Y, 0.0)
			assert.LessOrEqual(t, pt.Y, 59.0)
		}
	}
}

func TestGenerateGridInvalidInput(t *testing.T) {
	assert.Nil(t, GenerateGrid(0, 60, 30))
	assert.Nil(t, GenerateGrid(90, 0, 30))
	assert.Nil(t, GenerateGrid(90, 60, 0))
}

func TestWarpGridPointsIdentity(t *testing.T) {
	lines := geometry.LineSet{{P: geometry.Point{X: 10, Y: 10}, Q: geometry.Point{X: 50, Y: 10}}}
	grid := GenerateGrid(60, 60, 20)

	warped, err := WarpGridPoints(grid, lines, lines, DefaultParams())
	require.NoError(t, err)
	require.Len(t, warped, len(grid))
	for i, line := range warped {
		for j, pt := range line {
			assert.InDelta(t, grid[i][j].X, pt.X, 1e-9)
			assert.InDelta(t, grid[i][j].Y, pt.Y, 1e-9)
		}
	}
}

func TestWarpGridPointsMatchesField(t *testing.T) {
	srcLines := geometry.LineSet{{P: geometry.Point{X: 5, Y: 5}, Q: geometry.Point{X: 25, Y: 5}}}
	dstLines := geometry.LineSet{{P: geometry.Point{X: 5, Y: 15}, Q: geometry.Point{X: 25, Y: 15}}}
	grid := GenerateGrid(30, 30, 10)

	warped, err := WarpGridPoints(grid, srcLines, dstLines, DefaultParams())
	require.NoError(t, err)

	// The overlay must use the exact same displacement the pixel warp does.
	field, err := NewField(srcLines, dstLines, DefaultParams())
	require.NoError(t, err)
	for i, line := range grid {
		for j, pt := range line {
			want := field.Displace(pt)
			assert.Equal(t, want, warped[i][j])
		}
	}
}

func TestWarpGridPointsMismatch(t *testing.T) {
	grid := GenerateGrid(30, 30, 10)
	a := geometry.LineSet{{P: geometry.Point{X: 0, Y: 0}, Q: geometry.Point{X: 1, Y: 0}}}
	_, err := WarpGridPoints(grid, a, geometry.LineSet{}, DefaultParams())
	require.Error(t, err)
}
