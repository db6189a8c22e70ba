// SPDX-License-Identifier: Apache-2.0

// Package wamptransport defines the byte-framed transport Peer consumes
// (spec §6.1) and ships an in-memory loopback implementation used by tests
// and the demo CLI -- no production TCP/WebSocket transport is in scope
// per spec.md's Non-goals, but Peer/Session still need something concrete
// to exercise end-to-end.
package wamptransport

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send/Receive once the transport has been closed.
var ErrClosed = errors.New("wamp: transport closed")

// ErrPayloadSizeExceeded is returned by Send when a frame exceeds
// MaxLengthHint.
var ErrPayloadSizeExceeded = errors.New("wamp: payload size exceeded")

// Transport is one complete WAMP message frame at a time, over a framed
// bidirectional byte stream. Framing itself is the transport's concern;
// Peer only ever sees whole frames.
type Transport interface {
	// Send enqueues frame, blocking only on backpressure from the
	// underlying socket or ctx cancellation.
	Send(ctx context.Context, frame []byte) error
	// Receive yields the next complete frame, blocking until one arrives,
	// the transport closes, or ctx is canceled.
	Receive(ctx context.Context) ([]byte, error)
	// Close releases the transport. Close is idempotent.
	Close() error
	// MaxLengthHint advises the largest frame this transport will accept;
	// 0 means no limit is advertised.
	MaxLengthHint() int
}

// PipeTransport is an in-memory, in-process loopback: frames sent on one
// end are received on the other. NewPipe returns the two connected ends.
// Closing either end makes Receive on both ends return ErrClosed.
type PipeTransport struct {
	out       chan []byte
	in        chan []byte
	maxLen    int
	closeMu   sync.Mutex
	closed    bool
	closeSig  chan struct{}
	remoteSig chan struct{}
}

// NewPipe returns two PipeTransports wired to each other: frames sent on a
// are received on b and vice versa.
func NewPipe(maxLen int) (a, b *PipeTransport) {
	c1 := make(chan []byte, 16)
	c2 := make(chan []byte, 16)
	sigA := make(chan struct{})
	sigB := make(chan struct{})
	a = &PipeTransport{out: c1, in: c2, maxLen: maxLen, closeSig: sigA, remoteSig: sigB}
	b = &PipeTransport{out: c2, in: c1, maxLen: maxLen, closeSig: sigB, remoteSig: sigA}
	return a, b
}

func (p *PipeTransport) Send(ctx context.Context, frame []byte) error {
	if p.maxLen > 0 && len(frame) > p.maxLen {
		return ErrPayloadSizeExceeded
	}
	select {
	case <-p.closeSig:
		return ErrClosed
	default:
	}
	select {
	case p.out <- frame:
		return nil
	case <-p.closeSig:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PipeTransport) Receive(ctx context.Context) ([]byte, error) {
	select {
	case frame, ok := <-p.in:
		if !ok {
			return nil, ErrClosed
		}
		return frame, nil
	case <-p.closeSig:
		return nil, ErrClosed
	case <-p.remoteSig:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *PipeTransport) Close() error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.closeSig)
	return nil
}

func (p *PipeTransport) MaxLengthHint() int { return p.maxLen }
