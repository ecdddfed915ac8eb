// Package morph sequences line interpolation, weighted warping, and blending
// into complete two-image and three-image morph operations.
package morph

import (
	"context"
	"fmt"
	"image"

	"github.com/MeKo-Tech/morphium/internal/blend"
	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/utils"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// Result holds the outputs of a two-image morph at one alpha: both sources
// warped toward the intermediate geometry, and their blend.
type Result struct {
	Alpha   float64
	WarpedA *image.NRGBA
	WarpedB *image.NRGBA
	Blended *image.NRGBA
}

// Morph warps both images toward the line geometry interpolated at alpha
// and blends them with the same alpha. Both images must share dimensions;
// use utils.FitToCanvas to reconcile mismatched inputs first.
func Morph(ctx context.Context, imgA, imgB image.Image, linesA, linesB geometry.LineSet, alpha float64, params warp.Params, opts warp.Options) (*Result, error) {
	if !utils.SameSize(imgA, imgB) {
		ab, bb := imgA.Bounds(), imgB.Bounds()
		return nil, &geometry.ConfigurationError{
			Operation: "morph",
			Err:       dimensionMismatch(ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy()),
		}
	}

	interp, err := geometry.InterpolateLines(linesA, linesB, alpha)
	if err != nil {
		return nil, err
	}

	warpedA, err := warp.WarpImage(ctx, imgA, linesA, interp, params, opts)
	if err != nil {
		return nil, err
	}
	warpedB, err := warp.WarpImage(ctx, imgB, linesB, interp, params, opts)
	if err != nil {
		return nil, err
	}

	blended, err := blend.Images(warpedA, warpedB, alpha)
	if err != nil {
		return nil, err
	}

	return &Result{Alpha: alpha, WarpedA: warpedA, WarpedB: warpedB, Blended: blended}, nil
}

func dimensionMismatch(aw, ah, bw, bh int) error {
	return fmt.Errorf("image dimensions differ: %dx%d vs %dx%d", aw, ah, bw, bh)
}
