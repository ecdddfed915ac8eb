package morph

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/warp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func horizontalLine(y float64, w float64) geometry.LineSet {
	return geometry.LineSet{{P: geometry.Point{X: 1, Y: y}, Q: geometry.Point{X: w - 2, Y: y}}}
}

func TestMorphAlphaEndpoints(t *testing.T) {
	imgA := solid(16, 16, 40)
	imgB := solid(16, 16, 220)
	linesA := horizontalLine(4, 16)
	linesB := horizontalLine(12, 16)

	at0, err := Morph(context.Background(), imgA, imgB, linesA, linesB, 0, warp.DefaultParams(), warp.Options{})
	require.NoError(t, err)
	// Blend at alpha 0 is fully the first (warped) image; both inputs are
	// constant so warping preserves the value exactly.
	assert.Equal(t, uint8(40), at0.Blended.NRGBAAt(8, 8).R)

	at1, err := Morph(context.Background(), imgA, imgB, linesA, linesB, 1, warp.DefaultParams(), warp.Options{})
	require.NoError(t, err)
	assert.Equal(t, uint8(220), at1.Blended.NRGBAAt(8, 8).R)
}

func TestMorphMidpointBlend(t *testing.T) {
	imgA := solid(8, 8, 0)
	imgB := solid(8, 8, 255)
	lines := horizontalLine(4, 8)

	mid, err := Morph(context.Background(), imgA, imgB, lines, lines, 0.5, warp.DefaultParams(), warp.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 127.5, float64(mid.Blended.NRGBAAt(3, 3).R), 0.5)
	assert.NotNil(t, mid.WarpedA)
	assert.NotNil(t, mid.WarpedB)
}

func TestMorphDimensionMismatch(t *testing.T) {
	_, err := Morph(context.Background(), solid(8, 8, 0), solid(9, 8, 0),
		horizontalLine(4, 8), horizontalLine(4, 9), 0.5, warp.DefaultParams(), warp.Options{})
	require.Error(t, err)

	var cfgErr *geometry.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestMorphLineMismatch(t *testing.T) {
	img := solid(8, 8, 0)
	_, err := Morph(context.Background(), img, img, horizontalLine(4, 8), geometry.LineSet{}, 0.5,
		warp.DefaultParams(), warp.Options{})
	require.Error(t, err)
}

func TestMergeMultipleIdenticalImages(t *testing.T) {
	img := solid(12, 12, 90)
	lines := horizontalLine(6, 12)

	for _, w := range []geometry.Weights{
		{T1: 1},
		geometry.EqualWeights(),
		{T1: 0.5, T2: 0.25, T3: 0.25},
	} {
		res, err := MergeMultiple(context.Background(),
			[3]image.Image{img, img, img},
			[3]geometry.LineSet{lines, lines, lines},
			w, warp.DefaultParams(), warp.Options{})
		require.NoError(t, err)
		// Identical inputs must survive the merge unchanged.
		for y := 0; y < 12; y++ {
			for x := 0; x < 12; x++ {
				require.InDelta(t, 90, float64(res.Blended.NRGBAAt(x, y).R), 1,
					"weights %+v pixel (%d,%d)", w, x, y)
			}
		}
	}
}

func TestMergeMultipleNormalizesWeights(t *testing.T) {
	img := solid(8, 8, 60)
	lines := horizontalLine(4, 8)

	res, err := MergeMultiple(context.Background(),
		[3]image.Image{img, img, img},
		[3]geometry.LineSet{lines, lines, lines},
		geometry.Weights{T1: 2, T2: 2, T3: 2}, warp.DefaultParams(), warp.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, res.Weights.T1, 1e-9)
	assert.InDelta(t, 1.0, res.Weights.T1+res.Weights.T2+res.Weights.T3, 1e-9)
}

func TestMergeMultipleSharedGeometry(t *testing.T) {
	img := solid(8, 8, 60)
	l1 := geometry.LineSet{{P: geometry.Point{X: 0, Y: 0}, Q: geometry.Point{X: 6, Y: 0}}}
	l2 := geometry.LineSet{{P: geometry.Point{X: 0, Y: 3}, Q: geometry.Point{X: 6, Y: 3}}}
	l3 := geometry.LineSet{{P: geometry.Point{X: 0, Y: 6}, Q: geometry.Point{X: 6, Y: 6}}}

	res, err := MergeMultiple(context.Background(),
		[3]image.Image{img, img, img},
		[3]geometry.LineSet{l1, l2, l3},
		geometry.EqualWeights(), warp.DefaultParams(), warp.Options{})
	require.NoError(t, err)
	require.Len(t, res.Shared, 1)
	assert.InDelta(t, 3.0, res.Shared[0].P.Y, 1e-9)
}

func TestMergeMultipleZeroWeights(t *testing.T) {
	img := solid(4, 4, 0)
	lines := horizontalLine(2, 4)
	_, err := MergeMultiple(context.Background(),
		[3]image.Image{img, img, img},
		[3]geometry.LineSet{lines, lines, lines},
		geometry.Weights{}, warp.DefaultParams(), warp.Options{})
	require.Error(t, err)
}

func TestMergeMultipleDimensionMismatch(t *testing.T) {
	lines := horizontalLine(2, 4)
	_, err := MergeMultiple(context.Background(),
		[3]image.Image{solid(4, 4, 0), solid(4, 4, 0), solid(5, 4, 0)},
		[3]geometry.LineSet{lines, lines, lines},
		geometry.EqualWeights(), warp.DefaultParams(), warp.Options{})
	require.Error(t, err)
}
