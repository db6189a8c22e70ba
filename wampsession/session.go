// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
	"github.com/xmidt-org/gowamp/wamppeer"
	"github.com/xmidt-org/gowamp/wamptransport"
	"go.uber.org/multierr"
)

// Session drives one client-side WAMP state machine (spec §4.3) on top of a
// wamppeer.Peer. All mutation of session-owned state happens on the strand:
// a single goroutine draining a channel of closures, so request/subscription/
// registration bookkeeping is never touched concurrently (spec §5). Public
// methods dispatch onto the strand and block for the result; Safe* variants
// return a future instead of blocking on the result, for callers such as a
// handler running on the handler executor (e.g. a call handler invoking
// SafeUnsubscribe). The strand channel is unbuffered, so code already
// running on the strand cannot post to it.
type Session struct {
	opts   options
	peer   *wamppeer.Peer
	reqIDs *wamp.IDPool

	strand    chan func()
	handlerCh chan func()
	done      chan struct{}
	wg        sync.WaitGroup

	mu    sync.Mutex
	state State

	subs          *subscriptionTable
	regs          *registrationTable
	pendingInvoke map[uint64]uint64 // request id -> reg id, callee side

	sessionID           uint64
	welcomeWaiter       chan wamperr.ErrorOr[uint64]
	peerGoodbyeReceived chan struct{}
	goodbyeOnce         sync.Once
}

// New constructs a Session over transport. The Session owns the Peer it
// creates internally, wiring its own dispatch as the Peer's InboundHandler.
func New(transport wamptransport.Transport, opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		opts:          o,
		reqIDs:        wamp.NewIDPool(),
		strand:        make(chan func()),
		handlerCh:     make(chan func(), o.handlerQueueDepth),
		done:          make(chan struct{}),
		subs:          newSubscriptionTable(),
		regs:          newRegistrationTable(),
		pendingInvoke: make(map[uint64]uint64),
		state:         Disconnected,
	}
	s.peerGoodbyeReceived = make(chan struct{})
	s.peer = wamppeer.New(transport, o.format, s.handleInbound,
		wamppeer.WithLogger(o.logger),
		wamppeer.WithCodecOptions(o.codecOpts...),
		wamppeer.WithObserver(o.observer),
	)
	return s
}

// Run starts the session's strand and its Peer's send/receive loops; it
// blocks until ctx is canceled or the transport fails.
func (s *Session) Run(ctx context.Context) {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.runStrand(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.runHandlerExecutor(ctx)
	}()
	s.peer.Run(ctx)
	s.Terminate()
}

func (s *Session) runStrand(ctx context.Context) {
	for {
		select {
		case fn := <-s.strand:
			fn()
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runHandlerExecutor drains user-handler closures strictly in the order
// posted -- the single queue that makes event/invocation delivery ordering
// (spec §5) a structural guarantee rather than a best effort.
func (s *Session) runHandlerExecutor(ctx context.Context) {
	for {
		select {
		case fn := <-s.handlerCh:
			fn()
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// postHandler enqueues fn on the handler executor, blocking only on
// backpressure (spec §5's "posting to the user-handler executor" suspension
// point).
func (s *Session) postHandler(fn func()) {
	select {
	case s.handlerCh <- fn:
	case <-s.done:
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// dispatch posts fn onto the strand and blocks until it runs, ctx is
// canceled, or the session has ended.
func (s *Session) dispatch(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() { fn(); close(done) }
	select {
	case s.strand <- wrapped:
	case <-s.done:
		return wamperr.NewLocal(wamperr.SessionEnded, "session closed")
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// safeDispatch posts fn onto the strand without blocking the caller; fn
// itself is responsible for delivering its result (e.g. via a channel it
// closes over). This is the "safe_*" building block from spec §5.
func (s *Session) safeDispatch(fn func()) {
	select {
	case s.strand <- fn:
	case <-s.done:
	}
}

// Join sends HELLO for realm and blocks for WELCOME (or ABORT). Each attempt
// is tagged with a fresh correlation id purely for logging -- it plays no
// part in the WAMP handshake itself.
func (s *Session) Join(ctx context.Context, realm string) (uint64, error) {
	s.setState(Establishing)
	result := make(chan wamperr.ErrorOr[uint64], 1)

	traceID, err := uuid.NewRandom()
	if err == nil {
		s.opts.logger.Sugar().Debugw("joining realm", "realm", realm, "traceId", traceID.String())
	}

	details := wamp.NewObject()
	hello := newHello(realm, details)

	if err := s.dispatch(ctx, func() {
		s.welcomeWaiter = result
	}); err != nil {
		return 0, err
	}
	if err := s.peer.Send(ctx, hello); err != nil {
		return 0, err
	}

	select {
	case r := <-result:
		if !r.IsOk() {
			return 0, r.Error()
		}
		v, _ := r.Value()
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Leave sends GOODBYE and waits (up to the configured goodbye timeout) for
// the router's GOODBYE reply, then moves the session to Closed. It does not
// close the underlying peer or transport; Disconnect does that.
func (s *Session) Leave(ctx context.Context, reason string) (string, error) {
	s.setState(ShuttingDown)
	details := wamp.NewObject()
	msg := newGoodbye(details, reason)
	if err := s.peer.Send(ctx, msg); err != nil {
		return "", err
	}

	timeout := s.opts.goodbyeTimeout
	select {
	case <-s.peerGoodbyeReceived:
	case <-time.After(timeout):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	s.setState(Closed)
	return reason, nil
}

// Disconnect performs a graceful shutdown: best-effort GOODBYE, then closes
// the transport. Pending requests complete with SessionEnded.
func (s *Session) Disconnect(ctx context.Context) error {
	leaveCtx, cancel := context.WithTimeout(ctx, s.opts.goodbyeTimeout)
	defer cancel()
	_, leaveErr := s.Leave(leaveCtx, "wamp.close.normal")
	return multierr.Append(leaveErr, s.shutdown(true))
}

// Terminate closes the transport immediately; pending handlers are dropped
// without invocation.
func (s *Session) Terminate() error {
	return s.shutdown(false)
}

// noDeadline marks a pending request as having no caller-side timeout.
func noDeadline() time.Time { return time.Time{} }

func (s *Session) shutdown(graceful bool) error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	s.setState(Disconnected)
	return s.peer.Close(graceful)
}
