package morph

import (
	"context"
	"image"

	"github.com/MeKo-Tech/morphium/internal/blend"
	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/utils"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// MergeResult holds the outputs of a three-image barycentric merge: each
// source warped into the shared geometry, the final blend, and the shared
// geometry itself for overlay rendering.
type MergeResult struct {
	Weights geometry.Weights // normalized
	Warped  [3]*image.NRGBA
	Blended *image.NRGBA
	Shared  geometry.LineSet
}

// MergeMultiple merges three images into one shared geometry. Weights are
// normalized up front; the same normalized triple drives both the shared
// geometry and the final blend so the two stay consistent.
func MergeMultiple(ctx context.Context, imgs [3]image.Image, lineSets [3]geometry.LineSet, w geometry.Weights, params warp.Params, opts warp.Options) (*MergeResult, error) {
	nw, err := w.Normalize()
	if err != nil {
		return nil, err
	}
	for i := 1; i < 3; i++ {
		if !utils.SameSize(imgs[0], imgs[i]) {
			ab, bb := imgs[0].Bounds(), imgs[i].Bounds()
			return nil, &geometry.ConfigurationError{
				Operation: "merge",
				Err:       dimensionMismatch(ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy()),
			}
		}
	}

	shared, err := geometry.InterpolateMultipleLines(lineSets[0], lineSets[1], lineSets[2], nw)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{Weights: nw, Shared: shared}
	for i := range imgs {
		warped, err := warp.WarpImage(ctx, imgs[i], lineSets[i], shared, params, opts)
		if err != nil {
			return nil, err
		}
		res.Warped[i] = warped
	}

	blended, err := blend.MultipleImages([3]image.Image{res.Warped[0], res.Warped[1], res.Warped[2]}, nw)
	if err != nil {
		return nil, err
	}
	res.Blended = blended
	return res, nil
}
