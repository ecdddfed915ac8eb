package mempool

import (
	"sync"
)

// A simple sized pool for []float64 scratch buffers to reduce allocations on
// the per-pixel accumulation hot paths of the warp and blend engines.

var float64Pools sync.Map // key: size class (int), value: *sync.Pool

// sizeClass rounds n up to the next bucket to reduce churn.
func sizeClass(n int) int {
	if n <= 1024 {
		return 1024
	}
	// round up to next multiple of 1024
	const step = 1024
	r := (n + step - 1) / step
	return r * step
}

// GetFloat64 retrieves a []float64 buffer of at least n elements from the pool.
// The returned slice has length n but may have larger capacity.
// The caller must return it via PutFloat64 when done.
func GetFloat64(n int) []float64 {
	cls := sizeClass(n)
	pAny, _ := float64Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]float64, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		// Fallback
		buf := make([]float64, cls)
		return buf[:n]
	}
	bufAny := p.Get()
	buf, ok := bufAny.([]float64)
	if !ok {
		buf = make([]float64, cls)
	}
	if cap(buf) < cls {
		buf = make([]float64, cls)
	} else {
		buf = buf[:cap(buf)]
	}
	return buf[:n]
}

// PutFloat64 returns a buffer to the pool. It is safe to pass a nil slice.
func PutFloat64(buf []float64) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := float64Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]float64, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return // skip
	}
	// Reset length to full cap; contents need not be zeroed.
	p.Put(buf[:cap(buf)]) //nolint:staticcheck
}
