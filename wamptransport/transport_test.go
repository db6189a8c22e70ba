// SPDX-License-Identifier: Apache-2.0

package wamptransport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeTransportRoundTrip(t *testing.T) {
	a, b := NewPipe(0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, a.Send(ctx, []byte("hello")))
	frame, err := b.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(frame))
}

func TestPipeTransportMaxLength(t *testing.T) {
	a, _ := NewPipe(4)
	ctx := context.Background()
	err := a.Send(ctx, []byte("toolong"))
	assert.ErrorIs(t, err, ErrPayloadSizeExceeded)
}

func TestPipeTransportCloseUnblocksReceive(t *testing.T) {
	a, b := NewPipe(0)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := b.Receive(ctx)
		done <- err
	}()

	require.NoError(t, a.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Receive did not unblock after Close")
	}
}
