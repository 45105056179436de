package pool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunIndexedVisitsEveryIndexOnce(t *testing.T) {
	const n = 1000
	counts := make([]int32, n)
	p := New(8)
	p.RunIndexed(n, func(i int) {
		atomic.AddInt32(&counts[i], 1)
	})
	for i, c := range counts {
		require.Equal(t, int32(1), c, "index %d visited %d times", i, c)
	}
}

func TestRunHandlesEmptyRange(t *testing.T) {
	p := New(4)
	called := false
	p.Run(0, func(start, end int) { called = true })
	require.False(t, called)
}

func TestDegreeNeverZero(t *testing.T) {
	require.Greater(t, Degree(), 0)
}
