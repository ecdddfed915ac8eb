package utils

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/disintegration/imaging"
)

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// ToNRGBA returns an NRGBA copy of img with bounds anchored at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// SameSize reports whether two images have identical dimensions.
func SameSize(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	return ab.Dx() == bb.Dx() && ab.Dy() == bb.Dy()
}

// FitToCanvas resizes img to exactly width x height using Lanczos resampling
// and rescales the accompanying line set into the new coordinate space. The
// engine requires all participants of a morph to share one canvas size; this
// reconciles mismatched inputs before any warping starts.
func FitToCanvas(img image.Image, lines geometry.LineSet, width, height int) (*image.NRGBA, geometry.LineSet, error) {
	if img == nil {
		return nil, nil, &ImageProcessingError{Operation: "fit", Err: errors.New("input image is nil")}
	}
	if width <= 0 || height <= 0 {
		return nil, nil, &ImageProcessingError{
			Operation: "fit",
			Err:       fmt.Errorf("invalid target dimensions %dx%d", width, height),
		}
	}

	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img), append(geometry.LineSet(nil), lines...), nil
	}

	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	sx := float64(width) / float64(b.Dx())
	sy := float64(height) / float64(b.Dy())
	return resized, ScaleLines(lines, sx, sy), nil
}

// ScaleLines returns a copy of lines with every endpoint scaled by (sx, sy).
// Used to move feature lines between canvas and image pixel coordinates.
func ScaleLines(lines geometry.LineSet, sx, sy float64) geometry.LineSet {
	out := make(geometry.LineSet, len(lines))
	for i, l := range lines {
		out[i] = geometry.FeatureLine{
			P: geometry.Point{X: l.P.X * sx, Y: l.P.Y * sy},
			Q: geometry.Point{X: l.Q.X * sx, Y: l.Q.Y * sy},
		}
	}
	return out
}
