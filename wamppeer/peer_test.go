// SPDX-License-Identifier: Apache-2.0

package wamppeer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamptransport"
)

func newPeerPair(t *testing.T, inboundA, inboundB InboundHandler) (*Peer, *Peer) {
	t.Helper()
	ta, tb := wamptransport.NewPipe(0)
	a := New(ta, wamp.JSON, inboundA)
	b := New(tb, wamp.JSON, inboundB)
	return a, b
}

func TestPeerSendRequestCorrelatesReply(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var b *Peer
	a, b := newPeerPair(t, nil, func(ctx context.Context, msg wamp.Message) {
		if msg.Type != wamp.CallMessageType {
			return
		}
		reqID, _ := msg.RequestID()
		reply := wamp.NewMessage(wamp.ResultMessageType, wamp.NewUint(reqID), wamp.NewObject())
		require.NoError(t, b.Send(ctx, reply))
	})

	go a.Run(ctx)
	go b.Run(ctx)
	defer a.Close(false)
	defer b.Close(false)

	done := make(chan wamp.Message, 1)
	call := wamp.NewMessage(wamp.CallMessageType, wamp.NewUint(42), wamp.NewObject(), wamp.NewString("com.example.add"))
	err := a.SendRequest(ctx, 42, call, time.Now().Add(time.Second), func(msg wamp.Message) {
		done <- msg
	}, nil)
	require.NoError(t, err)

	select {
	case reply := <-done:
		assert.Equal(t, wamp.ResultMessageType, reply.Type)
		id, ok := reply.RequestID()
		require.True(t, ok)
		assert.Equal(t, uint64(42), id)
	case <-ctx.Done():
		t.Fatal("timed out waiting for reply")
	}
}

func TestPeerDropsReplyForUnknownRequestID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	inboundSeen := make(chan wamp.Message, 1)
	a, b := newPeerPair(t, func(ctx context.Context, msg wamp.Message) {
		inboundSeen <- msg
	}, nil)
	go a.Run(ctx)
	go b.Run(ctx)
	defer a.Close(false)
	defer b.Close(false)

	stray := wamp.NewMessage(wamp.ResultMessageType, wamp.NewUint(999), wamp.NewObject())
	require.NoError(t, b.Send(ctx, stray))

	event := wamp.NewMessage(wamp.EventMessageType, wamp.NewUint(1), wamp.NewUint(2), wamp.NewObject())
	require.NoError(t, b.Send(ctx, event))

	select {
	case msg := <-inboundSeen:
		assert.Equal(t, wamp.EventMessageType, msg.Type)
	case <-ctx.Done():
		t.Fatal("inbound handler never invoked")
	}
}

func TestPeerSendRequestProgressiveResult(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var b *Peer
	a, b := newPeerPair(t, nil, func(ctx context.Context, msg wamp.Message) {
		if msg.Type != wamp.CallMessageType {
			return
		}
		reqID, _ := msg.RequestID()
		progressDetails := wamp.NewObject()
		progressDetails.SetKey("progress", wamp.NewBool(true))
		require.NoError(t, b.Send(ctx, wamp.NewMessage(wamp.ResultMessageType, wamp.NewUint(reqID), progressDetails)))

		final := wamp.NewObject()
		require.NoError(t, b.Send(ctx, wamp.NewMessage(wamp.ResultMessageType, wamp.NewUint(reqID), final)))
	})

	go a.Run(ctx)
	go b.Run(ctx)
	defer a.Close(false)
	defer b.Close(false)

	var progressCount int
	done := make(chan wamp.Message, 1)
	call := wamp.NewMessage(wamp.CallMessageType, wamp.NewUint(7), wamp.NewObject(), wamp.NewString("com.example.stream"))
	err := a.SendRequest(ctx, 7, call, time.Now().Add(time.Second),
		func(msg wamp.Message) { done <- msg },
		func(msg wamp.Message) bool {
			details := msg.Field(1)
			if progress, ok := details.AtKey("progress"); ok {
				if b, err := progress.AsBool(); err == nil && b {
					progressCount++
					return true
				}
			}
			return false
		},
	)
	require.NoError(t, err)

	select {
	case <-done:
		assert.Equal(t, 1, progressCount)
	case <-ctx.Done():
		t.Fatal("timed out waiting for terminal reply")
	}
}
