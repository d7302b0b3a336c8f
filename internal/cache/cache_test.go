package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompute_CachesValue(t *testing.T) {
	c := New[int](8)
	calls := 0

	v, err := c.GetOrCompute("k", func() (int, error) { calls++; return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = c.GetOrCompute("k", func() (int, error) { calls++; return 0, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_ErrorsAreNotCached(t *testing.T) {
	c := New[int](8)

	_, err := c.GetOrCompute("k", func() (int, error) { return 0, errors.New("boom") })
	require.Error(t, err)

	v, err := c.GetOrCompute("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGetOrCompute_SingleComputationUnderConcurrency(t *testing.T) {
	c := New[int](8)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute("root", func() (int, error) {
				calls.Add(1)
				<-release
				return 99, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 99, v)
	}
}

func TestOverflow_EvictsOldestQuarter(t *testing.T) {
	c := New[int](8)
	for i := 0; i < 8; i++ {
		_, err := c.GetOrCompute(fmt.Sprintf("k%d", i), func() (int, error) { return i, nil })
		require.NoError(t, err)
	}
	require.Equal(t, 8, c.Len())

	// Adding a ninth entry evicts the two least-recently-used ones.
	_, err := c.GetOrCompute("k8", func() (int, error) { return 8, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, c.Len())

	_, ok := c.Get("k0")
	assert.False(t, ok)
	_, ok = c.Get("k1")
	assert.False(t, ok)
	_, ok = c.Get("k8")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := New[string](4)
	_, err := c.GetOrCompute("a", func() (string, error) { return "x", nil })
	require.NoError(t, err)

	c.Clear()
	assert.Zero(t, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
