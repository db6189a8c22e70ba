// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDPoolReserveIsUniqueAndBounded(t *testing.T) {
	pool := NewIDPool()
	seen := make(map[uint64]struct{})

	var handles []*IDHandle
	for i := 0; i < 1000; i++ {
		h := pool.Reserve()
		require.True(t, ValidRequestID(h.ID()))
		_, dup := seen[h.ID()]
		require.False(t, dup, "id %d reserved twice concurrently", h.ID())
		seen[h.ID()] = struct{}{}
		handles = append(handles, h)
	}

	for _, h := range handles {
		assert.True(t, pool.Contains(h.ID()))
	}
}

func TestIDHandleReleaseReturnsIDToPool(t *testing.T) {
	pool := NewIDPool()
	h := pool.Reserve()
	id := h.ID()
	require.True(t, pool.Contains(id))

	h.Release()
	assert.False(t, pool.Contains(id))

	// Releasing twice, or a nil handle, must not panic.
	h.Release()
	var nilHandle *IDHandle
	nilHandle.Release()
}

func TestIDPoolConcurrentReserveRelease(t *testing.T) {
	pool := NewIDPool()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h := pool.Reserve()
				h.Release()
			}
		}()
	}
	wg.Wait()
}
