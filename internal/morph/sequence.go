package morph

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/morphium/internal/geometry"
	"github.com/MeKo-Tech/morphium/internal/warp"
)

// SequenceConfig controls frame sequence computation.
type SequenceConfig struct {
	// Steps is the number of frames; alphas are spaced evenly over [0, 1]
	// inclusive. Must be at least 2.
	Steps int
	// MaxWorkers bounds the number of frames computed concurrently
	// (0 = runtime.NumCPU()). Individual warps run single-threaded when
	// frames are parallelized, to avoid oversubscription.
	MaxWorkers int
	// PingPong appends the reversed sequence (excluding the endpoints) so
	// playback loops smoothly back to the start.
	PingPong bool
}

// DefaultSequenceConfig mirrors the classic eleven-frame 0.1-step sweep.
func DefaultSequenceConfig() SequenceConfig {
	return SequenceConfig{Steps: 11, MaxWorkers: runtime.NumCPU()}
}

type frameJob struct {
	index int
	alpha float64
}

type frameResult struct {
	index int
	frame *Result
	err   error
}

// Sequence computes a full morph frame sequence between two images.
// Frames are independent and computed by a worker pool; cancelling ctx stops
// the pool between frames and the call returns the context error. A failed
// call returns no partial sequence.
func Sequence(ctx context.Context, imgA, imgB image.Image, linesA, linesB geometry.LineSet, cfg SequenceConfig, params warp.Params) ([]*Result, error) {
	if cfg.Steps < 2 {
		return nil, errors.New("sequence needs at least 2 steps")
	}
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.Steps {
		workers = cfg.Steps
	}

	jobs := make(chan frameJob, cfg.Steps)
	results := make(chan frameResult, cfg.Steps)

	var wg sync.WaitGroup
	for _i := 0; _i < workers; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				frame, err := Morph(ctx, imgA, imgB, linesA, linesB, job.alpha, params, warp.Options{Workers: 1})
				select {
				case results <- frameResult{index: job.index, frame: frame, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Steps; i++ {
			alpha := float64(i) / float64(cfg.Steps-1)
			select {
			case jobs <- frameJob{index: i, alpha: alpha}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	frames := make([]*Result, cfg.Steps)
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("frame %d: %w", res.index, res.err)
		}
		frames[res.index] = res.frame
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if cfg.PingPong {
		for i := cfg.Steps - 2; i > 0; i-- {
			frames = append(frames, frames[i])
		}
	}
	return frames, nil
}
