// Package testutil generates synthetic images and feature-line fixtures for
// exercising the warp, blend, and morph engines.
package testutil

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/stretchr/testify/require"
)

// SolidImage returns a w x h image filled with one color.
func SolidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// GradientImage returns an image whose red channel grows with x and green
// channel with y, making displaced pixels easy to spot in assertions.
func GradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// CheckerboardImage returns a two-color checkerboard with the given cell size.
func CheckerboardImage(w, h, cell int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

// CrossLines returns a simple two-line feature set (one horizontal, one
// vertical) centered in a w x h canvas, with a margin so endpoints stay
// inside the image.
func CrossLines(w, h int) geometry.LineSet {
	cx := float64(w) / 2
	cy := float64(h) / 2
	m := math.Max(2, float64(min(w, h))/8)
	return geometry.LineSet{
		{P: geometry.Point{X: m, Y: cy}, Q: geometry.Point{X: float64(w) - m, Y: cy}},
		{P: geometry.Point{X: cx, Y: m}, Q: geometry.Point{X: cx, Y: float64(h) - m}},
	}
}

// SavePNG writes img to path, creating parent directories as needed.
func SavePNG(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	f, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, f.Close())
	}()
	require.NoError(t, png.Encode(f, img), "Failed to encode PNG image")
}

// LoadPNG decodes an image from path.
func LoadPNG(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // G304: Test file reading with controlled path
	require.NoError(t, err, "Failed to open image file %s", path)
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	require.NoError(t, err, "Failed to decode image")
	return img
}

// CompareImages reports whether two images agree within a normalized average
// per-pixel tolerance in [0, 1].
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()
	if bounds1.Dx() != bounds2.Dx() || bounds1.Dy() != bounds2.Dy() {
		return false
	}

	var totalDiff float64
	var pixelCount float64
	for y := 0; y < bounds1.Dy(); y++ {
		for x := 0; x < bounds1.Dx(); x++ {
			r1, g1, b1, a1 := img1.At(bounds1.Min.X+x, bounds1.Min.Y+y).RGBA()
			r2, g2, b2, a2 := img2.At(bounds2.Min.X+x, bounds2.Min.Y+y).RGBA()

			dr := float64(r1) - float64(r2)
			dg := float64(g1) - float64(g2)
			db := float64(b1) - float64(b2)
			da := float64(a1) - float64(a2)
			totalDiff += math.Sqrt(dr*dr + dg*dg + db*db + da*da)
			pixelCount++
		}
	}

	avgDiff := totalDiff / pixelCount
	maxDiff := math.Sqrt(4 * 65535 * 65535)
	return (avgDiff / maxDiff) <= tolerance
}
