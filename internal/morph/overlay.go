package morph

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/morphium/internal/utils"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// RenderGridOverlay draws the displaced grid polylines over img and returns
// an RGBA copy. The input image is not modified.
func RenderGridOverlay(img image.Image, grid []warp.Polyline, col color.Color) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	for _, line := range grid {
		utils.DrawPolyline(dst, line, col, 1)
	}
	return dst
}
