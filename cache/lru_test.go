// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRU(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)

	c, err := NewLRU(4)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, err := NewLRU(4)
	require.NoError(t, err)

	var loads int
	load := func() (any, error) {
		loads++
		return "value", nil
	}

	v, err := c.GetOrLoad("k", load)
	assert.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, loads)

	v, err = c.GetOrLoad("k", load)
	assert.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, loads)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestGetOrLoadError(t *testing.T) {
	c, err := NewLRU(4)
	require.NoError(t, err)

	loadErr := errors.New("load failed")
	_, err = c.GetOrLoad("k", func() (any, error) { return nil, loadErr })
	assert.Equal(t, loadErr, err)

	// failed loads are not cached
	_, ok := c.Get("k")
	assert.False(t, ok)

	v, err := c.GetOrLoad("k", func() (any, error) { return 7, nil })
	assert.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGetOrLoadShared(t *testing.T) {
	c, err := NewLRU(4)
	require.NoError(t, err)

	var loads int32
	gate := make(chan struct{})
	load := func() (any, error) {
		atomic.AddInt32(&loads, 1)
		<-gate
		return "shared", nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("k", load)
			assert.NoError(t, err)
			assert.Equal(t, "shared", v)
		}()
	}
	close(gate)
	wg.Wait()

	// concurrent misses share one load or hit the cache afterwards
	assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(2))
}
