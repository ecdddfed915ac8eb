package warp

import (
	"context"
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/utils"
)

// Field is the per-pixel displacement computation shared by the image warp
// and the grid visualizer. It is immutable once built and safe for
// concurrent use.
type Field struct {
	src    geometry.LineSet
	dst    geometry.LineSet
	params Params

	// Precomputed per destination line: length and length^P.
	dstLen []float64
	lenPow []float64
}

// NewField validates the line pairing and parameters and precomputes the
// per-line terms used by every pixel.
func NewField(srcLines, dstLines geometry.LineSet, params Params) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, &geometry.ConfigurationError{Operation: "warp", Err: err}
	}
	if err := geometry.ValidatePair(srcLines, dstLines); err != nil {
		return nil, err
	}
	f := &Field{
		src:    srcLines,
		dst:    dstLines,
		params: params,
		dstLen: make([]float64, len(dstLines)),
		lenPow: make([]float64, len(dstLines)),
	}
	for i, l := range dstLines {
		f.dstLen[i] = l.Length()
		f.lenPow[i] = pow(f.dstLen[i], params.P)
	}
	return f, nil
}

// Displace reverse-maps a destination point to its source sample location.
// With no lines, or when the accumulated weight vanishes, the mapping is the
// identity.
func (f *Field) Displace(x geometry.Point) geometry.Point {
	var sumX, sumY, weightSum float64
	for i := range f.dst {
		u, v := geometry.ComputeUV(x, f.dst[i])
		xPrime := geometry.ComputeXPrime(u, v, f.src[i])
		dist := geometry.SegmentDistance(x, f.dst[i], u, v)
		w := f.lenPow[i] / pow(f.params.A+dist, f.params.B)
		sumX += (xPrime.X - x.X) * w
		sumY += (xPrime.Y - x.Y) * w
		weightSum += w
	}
	if weightSum <= 0 {
		return x
	}
	return geometry.Point{X: x.X + sumX/weightSum, Y: x.Y + sumY/weightSum}
}

// WarpImage reverse-maps every destination pixel through the displacement
// field driven by (srcLines, dstLines) and samples the source with bilinear
// interpolation. The output has the source's dimensions; the input buffer is
// never modified. Mismatched or degenerate line sets fail before any pixel
// work starts; empty line sets yield an identity resample.
func WarpImage(ctx context.Context, src image.Image, srcLines, dstLines geometry.LineSet, params Params, opts Options) (*image.NRGBA, error) {
	field, err := NewField(srcLines, dstLines, params)
	if err != nil {
		return nil, err
	}

	nrgba := utils.ToNRGBA(src)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}

	// Rows are independent: each worker owns a disjoint band of output rows,
	// so no write aliases another and no locking is needed.
	var wg sync.WaitGroup
	rowsPerWorker := (h + workers - 1) / workers
	for start := 0; start < h; start += rowsPerWorker {
		end := start + rowsPerWorker
		if end > h {
			end = h
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			warpRows(ctx, field, nrgba, out, w, y0, y1)
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// warpRows fills out rows [y0, y1). Cancellation is checked between rows;
// a started row always completes.
func warpRows(ctx context.Context, field *Field, src, out *image.NRGBA, w, y0, y1 int) {
	for y := y0; y < y1; y++ {
		if ctx.Err() != nil {
			return
		}
		for x := 0; x < w; x++ {
			sp := field.Displace(geometry.Point{X: float64(x), Y: float64(y)})
			r, g, b, a := bilinearSample(src, sp.X, sp.Y)
			o := out.PixOffset(x, y)
			out.Pix[o+0] = r
			out.Pix[o+1] = g
			out.Pix[o+2] = b
			out.Pix[o+3] = a
		}
	}
}

// bilinearSample samples src at a real-valued coordinate, averaging the four
// surrounding pixels. Coordinates beyond the image clamp to the nearest edge
// pixel; there is no wraparound and no transparent fill.
func bilinearSample(src *image.NRGBA, x, y float64) (r, g, b, a uint8) {
	bounds := src.Bounds()
	maxX := float64(bounds.Dx() - 1)
	maxY := float64(bounds.Dy() - 1)
	x = clamp(x, 0, maxX)
	y = clamp(y, 0, maxY)

	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > bounds.Dx()-1 {
		x1 = bounds.Dx() - 1
	}
	if y1 > bounds.Dy()-1 {
		y1 = bounds.Dy() - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	o00 := src.PixOffset(x0, y0)
	o10 := src.PixOffset(x1, y0)
	o01 := src.PixOffset(x0, y1)
	o11 := src.PixOffset(x1, y1)

	var out [4]uint8
	for c := 0; c < 4; c++ {
		top := lerp(float64(src.Pix[o00+c]), float64(src.Pix[o10+c]), fx)
		bot := lerp(float64(src.Pix[o01+c]), float64(src.Pix[o11+c]), fx)
		out[c] = uint8(lerp(top, bot, fy) + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// pow is math.Pow with fast paths for the default exponents.
func pow(x, e float64) float64 {
	switch e {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, e)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
