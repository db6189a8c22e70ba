// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
	"github.com/xmidt-org/gowamp/wamptransport"
	"github.com/xmidt-org/gowamp/wampunpack"
)

// testRouter is a minimal stand-in for a WAMP router: enough of HELLO,
// SUBSCRIBE/PUBLISH, and REGISTER/CALL/CANCEL to exercise Session's client
// side against the literal scenarios this library's testable-properties
// describe (subscribe-publish echo, duplicate registration, cancellation).
type testRouter struct {
	t         *testing.T
	transport wamptransport.Transport

	subs map[string]uint64 // topic -> sub id
	regs map[string]uint64 // procedure -> reg id
	next uint64

	// neverReplySignal, if set, is pinged (and no reply sent) whenever a CALL
	// for "com.example.neverreplies" arrives, letting a test observe that the
	// request reached the router's request table before it shuts the session
	// down out from under it.
	neverReplySignal chan struct{}
}

func newTestRouter(t *testing.T, transport wamptransport.Transport) *testRouter {
	return &testRouter{t: t, transport: transport, subs: make(map[string]uint64), regs: make(map[string]uint64), next: 1}
}

func (r *testRouter) nextID() uint64 {
	r.next++
	return r.next
}

func (r *testRouter) send(ctx context.Context, msg wamp.Message) {
	data, err := wamp.EncodeMessage(msg, wamp.JSON)
	require.NoError(r.t, err)
	require.NoError(r.t, r.transport.Send(ctx, data))
}

func (r *testRouter) run(ctx context.Context) {
	for {
		frame, err := r.transport.Receive(ctx)
		if err != nil {
			return
		}
		msg, err := wamp.DecodeMessage(frame, wamp.JSON)
		require.NoError(r.t, err)

		switch msg.Type {
		case wamp.HelloMessageType:
			r.send(ctx, wamp.NewMessage(wamp.WelcomeMessageType, wamp.NewUint(1), wamp.NewObject()))
		case wamp.SubscribeMessageType:
			reqID, _ := msg.Field(1).AsUint()
			topic, _ := msg.Field(2).AsString()
			subID, ok := r.subs[topic]
			if !ok {
				subID = r.nextID()
				r.subs[topic] = subID
			}
			r.send(ctx, wamp.NewMessage(wamp.SubscribedMessageType, wamp.NewObject(), wamp.NewUint(reqID), wamp.NewUint(subID)))
		case wamp.PublishMessageType:
			reqID, _ := msg.Field(1).AsUint()
			topic, _ := msg.Field(2).AsString()
			args, _ := msg.Field(3).AsArray()
			pubID := r.nextID()
			if boolAtKey(msg.Field(0), "acknowledge") {
				r.send(ctx, wamp.NewMessage(wamp.PublishedMessageType, wamp.NewObject(), wamp.NewUint(reqID), wamp.NewUint(pubID)))
			}
			if subID, ok := r.subs[topic]; ok {
				fields := []wamp.Variant{wamp.NewUint(subID), wamp.NewUint(pubID), wamp.NewObject()}
				argsV := wamp.NewArray()
				for _, a := range args {
					argsV.Append(a)
				}
				fields = append(fields, argsV)
				r.send(ctx, wamp.NewMessage(wamp.EventMessageType, fields...))
			}
		case wamp.RegisterMessageType:
			reqID, _ := msg.Field(1).AsUint()
			procedure, _ := msg.Field(2).AsString()
			if _, exists := r.regs[procedure]; exists {
				r.send(ctx, newErrorReply(wamp.RegisterMessageType, reqID, wamp.NewObject(), "wamp.error.procedure_already_exists", nil, wamp.Null()))
				continue
			}
			regID := r.nextID()
			r.regs[procedure] = regID
			r.send(ctx, wamp.NewMessage(wamp.RegisteredMessageType, wamp.NewUint(regID), wamp.NewUint(reqID)))
		case wamp.UnregisterMessageType:
			reqID, _ := msg.Field(1).AsUint()
			r.send(ctx, wamp.NewMessage(wamp.UnregisteredMessageType, wamp.NewUint(reqID)))
		case wamp.UnsubscribeMessageType:
			reqID, _ := msg.Field(1).AsUint()
			r.send(ctx, wamp.NewMessage(wamp.UnsubscribedMessageType, wamp.NewUint(reqID)))
		case wamp.CallMessageType:
			reqID, _ := msg.Field(1).AsUint()
			procedure, _ := msg.Field(2).AsString()
			args, _ := msg.Field(3).AsArray()
			if procedure == "com.example.neverreplies" {
				if r.neverReplySignal != nil {
					r.neverReplySignal <- struct{}{}
				}
				continue
			}
			regID, ok := r.regs[procedure]
			if !ok {
				r.send(ctx, newErrorReply(wamp.CallMessageType, reqID, wamp.NewObject(), "wamp.error.no_such_procedure", nil, wamp.Null()))
				continue
			}
			argsV := wamp.NewArray()
			for _, a := range args {
				argsV.Append(a)
			}
			r.send(ctx, wamp.NewMessage(wamp.InvocationMessageType, wamp.NewUint(regID), wamp.NewUint(reqID), wamp.NewObject(), argsV))
		case wamp.CancelMessageType:
			reqID, _ := msg.Field(1).AsUint()
			r.send(ctx, wamp.NewMessage(wamp.InterruptMessageType, wamp.NewObject(), wamp.NewUint(reqID)))
		case wamp.YieldMessageType:
			reqID, _ := msg.Field(1).AsUint()
			args, kwargs := argsAndKwargs(msg, 2)
			argsV := wamp.NewArray()
			for _, a := range args {
				argsV.Append(a)
			}
			fields := []wamp.Variant{wamp.NewObject(), wamp.NewUint(reqID), argsV}
			if !kwargs.IsNull() {
				fields = append(fields, kwargs)
			}
			r.send(ctx, wamp.NewMessage(wamp.ResultMessageType, fields...))
		case wamp.ErrorMessageType:
			reqType, _ := msg.Field(0).AsUint()
			reqID, _ := msg.Field(2).AsUint()
			uri, _ := msg.Field(3).AsString()
			if wamp.MessageType(reqType) == wamp.InvocationMessageType {
				r.send(ctx, newErrorReply(wamp.CallMessageType, reqID, wamp.NewObject(), uri, nil, wamp.Null()))
			}
		case wamp.GoodbyeMessageType:
			r.send(ctx, wamp.NewMessage(wamp.GoodbyeMessageType, wamp.NewObject(), wamp.NewString("wamp.close.goodbye_and_out")))
		}
	}
}

func newJoinedSession(t *testing.T) (*Session, *testRouter, context.CancelFunc) {
	t.Helper()
	clientSide, routerSide := wamptransport.NewPipe(0)
	sess := New(clientSide)
	router := newTestRouter(t, routerSide)

	ctx, cancel := context.WithCancel(context.Background())
	go router.run(ctx)
	go sess.Run(ctx)

	_, err := sess.Join(ctx, "com.example.realm")
	require.NoError(t, err)
	return sess, router, cancel
}

func TestSessionSubscribePublishEcho(t *testing.T) {
	sess, _, cancel := newJoinedSession(t)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	received := make(chan Event, 1)
	_, err := sess.Subscribe(ctx, "com.example.topic", func(ctx context.Context, event Event) {
		received <- event
	})
	require.NoError(t, err)

	_, err = sess.Publish(ctx, "com.example.topic", []wamp.Variant{wamp.NewString("hello")}, wamp.Null(), PublishOptions{})
	require.NoError(t, err)

	select {
	case event := <-received:
		require.Len(t, event.Args, 1)
		got, _ := event.Args[0].AsString()
		assert.Equal(t, "hello", got)
	case <-ctx.Done():
		t.Fatal("event never delivered")
	}
}

func TestSessionDuplicateRegistrationFails(t *testing.T) {
	sess, _, cancel := newJoinedSession(t)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	handler := func(ctx context.Context, inv Invocation) wampunpack.Outcome {
		return wampunpack.Result()
	}
	_, err := sess.Enroll(ctx, "com.example.add", handler, nil)
	require.NoError(t, err)

	_, err = sess.Enroll(ctx, "com.example.add", handler, nil)
	require.Error(t, err)
}

func TestSessionCallRoundTrip(t *testing.T) {
	sess, _, cancel := newJoinedSession(t)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	_, err := sess.Enroll(ctx, "com.example.double", func(ctx context.Context, inv Invocation) wampunpack.Outcome {
		n, _ := inv.Args[0].AsInt()
		return wampunpack.Result(wamp.NewInt(n * 2))
	}, nil)
	require.NoError(t, err)

	result, err := sess.Call(ctx, "com.example.double", []wamp.Variant{wamp.NewInt(21)}, wamp.Null(), 0, CallOptions{})
	require.NoError(t, err)
	require.Len(t, result.Args, 1)
	got, _ := result.Args[0].AsInt()
	assert.Equal(t, int64(42), got)
}

func TestSessionCallCancellationKill(t *testing.T) {
	sess, _, cancel := newJoinedSession(t)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	interrupted := make(chan struct{}, 1)
	_, err := sess.Enroll(ctx, "com.example.slow", func(ctx context.Context, inv Invocation) wampunpack.Outcome {
		return wampunpack.Deferred()
	}, func(ctx context.Context, requestID uint64) {
		interrupted <- struct{}{}
		_ = sess.Fail(ctx, requestID, "wamp.error.canceled", nil, wamp.Null())
	})
	require.NoError(t, err)

	// A nonzero timeout arms Call's own caller-side timer, which fires
	// cancel(kill) against itself once it elapses (spec §5 caller_timeout).
	// The test router relays CANCEL straight to INTERRUPT, landing on the
	// same Session since it is both caller and callee here.
	_, callErr := sess.Call(ctx, "com.example.slow", nil, wamp.Null(), 50*time.Millisecond, CallOptions{})
	assert.Error(t, callErr)

	select {
	case <-interrupted:
	case <-ctx.Done():
		t.Fatal("interrupt handler never invoked")
	}
}

func TestDisconnectCompletesPendingCallWithSessionEnded(t *testing.T) {
	sess, router, cancel := newJoinedSession(t)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	router.neverReplySignal = make(chan struct{}, 1)

	callErrCh := make(chan error, 1)
	go func() {
		_, err := sess.Call(ctx, "com.example.neverreplies", nil, wamp.Null(), 0, CallOptions{})
		callErrCh <- err
	}()

	select {
	case <-router.neverReplySignal:
	case <-ctx.Done():
		t.Fatal("router never observed the call")
	}

	require.NoError(t, sess.Disconnect(ctx))

	select {
	case err := <-callErrCh:
		require.Error(t, err)
		var wampErr *wamperr.WampError
		require.ErrorAs(t, err, &wampErr)
		assert.Equal(t, wamperr.SessionEnded, wampErr.Kind)
	case <-ctx.Done():
		t.Fatal("pending call never completed on disconnect")
	}
}

func TestTerminateDropsPendingCallWithoutInvokingCompletion(t *testing.T) {
	sess, router, cancel := newJoinedSession(t)
	defer cancel()
	testCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()

	router.neverReplySignal = make(chan struct{}, 1)

	callCtx, callCancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer callCancel()

	callErrCh := make(chan error, 1)
	go func() {
		_, err := sess.Call(callCtx, "com.example.neverreplies", nil, wamp.Null(), 0, CallOptions{})
		callErrCh <- err
	}()

	select {
	case <-router.neverReplySignal:
	case <-testCtx.Done():
		t.Fatal("router never observed the call")
	}

	require.NoError(t, sess.Terminate())

	select {
	case err := <-callErrCh:
		// Terminate drops the pending completion uninvoked, so the call only
		// ever unblocks via its own context deadline, never with a
		// synthesized completion from shutdown.
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-testCtx.Done():
		t.Fatal("call never unblocked via its own context deadline")
	}
}
