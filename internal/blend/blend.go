// Package blend combines resampled images by alpha or barycentric weights.
package blend

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/mempool"
	"github.com/MeKo-Tech/morphium/internal/utils"
)

// Images linearly interpolates two equal-size images per channel.
// Alpha 0 returns the first image, 1 the second; values outside [0,1] are
// permitted arithmetically and the result is clamped to the channel range.
func Images(a, b image.Image, alpha float64) (*image.NRGBA, error) {
	if !utils.SameSize(a, b) {
		return nil, dimensionError("blend", a, b)
	}

	na := utils.ToNRGBA(a)
	nb := utils.ToNRGBA(b)
	out := image.NewNRGBA(na.Bounds())
	for i := range out.Pix {
		v := (1-alpha)*float64(na.Pix[i]) + alpha*float64(nb.Pix[i])
		out.Pix[i] = clampChannel(v)
	}
	return out, nil
}

// MultipleImages computes the per-pixel weighted sum of three equal-size
// images using a barycentric weight triple. Weights are normalized before
// use; the accumulation runs in float and is clamped once at the end.
func MultipleImages(imgs [3]image.Image, w geometry.Weights) (*image.NRGBA, error) {
	nw, err := w.Normalize()
	if err != nil {
		return nil, err
	}
	if !utils.SameSize(imgs[0], imgs[1]) {
		return nil, dimensionError("blend", imgs[0], imgs[1])
	}
	if !utils.SameSize(imgs[1], imgs[2]) {
		return nil, dimensionError("blend", imgs[1], imgs[2])
	}

	n0 := utils.ToNRGBA(imgs[0])
	n1 := utils.ToNRGBA(imgs[1])
	n2 := utils.ToNRGBA(imgs[2])

	acc := mempool.GetFloat64(len(n0.Pix))
	defer mempool.PutFloat64(acc)

	weights := [3]float64{nw.T1, nw.T2, nw.T3}
	for i := range acc {
		acc[i] = 0
	}
	for k, src := range [3]*image.NRGBA{n0, n1, n2} {
		t := weights[k]
		if t == 0 {
			continue
		}
		for i, p := range src.Pix {
			acc[i] += t * float64(p)
		}
	}

	out := image.NewNRGBA(n0.Bounds())
	for i := range out.Pix {
		out.Pix[i] = clampChannel(acc[i])
	}
	return out, nil
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func dimensionError(op string, a, b image.Image) error {
	ab, bb := a.Bounds(), b.Bounds()
	return &geometry.ConfigurationError{
		Operation: op,
		Err: fmt.Errorf("image dimensions differ: %dx%d vs %dx%d",
			ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy()),
	}
}
