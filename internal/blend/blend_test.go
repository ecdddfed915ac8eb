package blend

import (
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/morphium/internal/geometry"
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

func TestImagesEndpoints(t *testing.T) {
	a := solid(4, 4, 10)
	b := solid(4, 4, 200)

	at0, err := Images(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, a.NRGBAAt(2, 2), at0.NRGBAAt(2, 2))

	at1, err := Images(a, b, 1)
	require.NoError(t, err)
	assert.Equal(t, b.NRGBAAt(2, 2), at1.NRGBAAt(2, 2))
}

func TestImagesMidpoint(t *testing.T) {
	a := solid(4, 4, 0)
	b := solid(4, 4, 255)

	mid, err := Images(a, b, 0.5)
	require.NoError(t, err)
	got := mid.NRGBAAt(1, 3).R
	assert.InDelta(t, 127.5, float64(got), 0.5)
}

func TestImagesOutOfRangeAlphaClamps(t *testing.T) {
	a := solid(2, 2, 100)
	b := solid(2, 2, 200)

	over, err := Images(a, b, 2)
	require.NoError(t, err)
	// 100 + 2*(200-100) = 300 clamps to 255.
	assert.Equal(t, uint8(255), over.NRGBAAt(0, 0).R)

	under, err := Images(a, b, -2)
	require.NoError(t, err)
	// 100 - 2*(200-100) = -100 clamps to 0.
	assert.Equal(t, uint8(0), under.NRGBAAt(0, 0).R)
}

func TestImagesDimensionMismatch(t *testing.T) {
	_, err := Images(solid(4, 4, 0), solid(4, 5, 0), 0.5)
	require.Error(t, err)

	var cfgErr *geometry.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestMultipleImagesPureWeight(t *testing.T) {
	imgs := [3]image.Image{solid(4, 4, 30), solid(4, 4, 120), solid(4, 4, 210)}

	out, err := MultipleImages(imgs, geometry.Weights{T1: 1})
	require.NoError(t, err)
	assert.Equal(t, uint8(30), out.NRGBAAt(0, 0).R)
}

func TestMultipleImagesEqualWeights(t *testing.T) {
	imgs := [3]image.Image{solid(4, 4, 30), solid(4, 4, 120), solid(4, 4, 210)}

	out, err := MultipleImages(imgs, geometry.EqualWeights())
	require.NoError(t, err)
	// (30+120+210)/3 = 120
	assert.Equal(t, uint8(120), out.NRGBAAt(3, 3).R)
}

func TestMultipleImagesNormalizesInput(t *testing.T) {
	imgs := [3]image.Image{solid(2, 2, 30), solid(2, 2, 120), solid(2, 2, 210)}

	// (2,2,2) behaves like equal thirds.
	out, err := MultipleImages(imgs, geometry.Weights{T1: 2, T2: 2, T3: 2})
	require.NoError(t, err)
	assert.Equal(t, uint8(120), out.NRGBAAt(0, 0).R)
}

func TestMultipleImagesZeroSumWeights(t *testing.T) {
	imgs := [3]image.Image{solid(2, 2, 0), solid(2, 2, 0), solid(2, 2, 0)}
	_, err := MultipleImages(imgs, geometry.Weights{})
	require.Error(t, err)
}

func TestMultipleImagesDimensionMismatch(t *testing.T) {
	imgs := [3]image.Image{solid(2, 2, 0), solid(2, 3, 0), solid(2, 2, 0)}
	_, err := MultipleImages(imgs, geometry.EqualWeights())
	require.Error(t, err)
}
