package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "small size gets minimum", input: 1, expected: 1024},
		{name: "exactly 1024", input: 1024, expected: 1024},
		{name: "just over 1024", input: 1025, expected: 2048},
		{name: "exact multiple of 1024", input: 2048, expected: 2048},
		{name: "odd number", input: 1500, expected: 2048},
		{name: "large size", input: 10000, expected: 10240},
		{name: "zero size", input: 0, expected: 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sizeClass(tt.input))
		})
	}
}

func TestGetPutFloat64(t *testing.T) {
	buf := GetFloat64(100)
	require.Len(t, buf, 100)
	require.GreaterOrEqual(t, cap(buf), 1024)

	for i := range buf {
		buf[i] = float64(i)
	}
	PutFloat64(buf)

	// Reuse should hand back a buffer of the requested length.
	buf2 := GetFloat64(2000)
	require.Len(t, buf2, 2000)
	PutFloat64(buf2)

	// Nil is a no-op.
	PutFloat64(nil)
}

func TestFloat64PoolConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for _i := 0; _i < 8; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 100; _i++ {
				buf := GetFloat64(4096)
				buf[0] = 1
				PutFloat64(buf)
			}
		}()
	}
	wg.Wait()
}
