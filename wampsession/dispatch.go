// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
	"github.com/xmidt-org/gowamp/wampunpack"
)

// handleInbound is the Peer's InboundHandler: every message the Peer's
// request table does not claim as a correlated reply lands here. It always
// runs on the strand, preserving the single-writer invariant over
// session-owned state.
func (s *Session) handleInbound(ctx context.Context, msg wamp.Message) {
	s.safeDispatch(func() {
		switch msg.Type {
		case wamp.WelcomeMessageType:
			s.onWelcome(msg)
		case wamp.AbortMessageType:
			s.onAbort(msg)
		case wamp.ChallengeMessageType:
			s.onChallenge(ctx, msg)
		case wamp.GoodbyeMessageType:
			s.onGoodbye(ctx, msg)
		case wamp.EventMessageType:
			s.onEvent(ctx, msg)
		case wamp.InvocationMessageType:
			s.onInvocation(ctx, msg)
		case wamp.InterruptMessageType:
			s.onInterrupt(ctx, msg)
		default:
			s.opts.logger.Sugar().Debugw("dropping unhandled inbound message", "type", msg.Type.String())
		}
	})
}

func (s *Session) onWelcome(msg wamp.Message) {
	sessionID, _ := msg.Field(0).AsUint()
	s.sessionID = sessionID
	s.setState(Established)
	if s.welcomeWaiter != nil {
		s.welcomeWaiter <- wamperr.Ok(sessionID)
		s.welcomeWaiter = nil
	}
}

func (s *Session) onAbort(msg wamp.Message) {
	reason, _ := msg.Field(1).AsString()
	s.setState(Closed)
	if s.welcomeWaiter != nil {
		s.welcomeWaiter <- wamperr.Err[uint64](wamperr.New(reason, nil, wamp.Null()))
		s.welcomeWaiter = nil
	}
}

func (s *Session) onChallenge(ctx context.Context, msg wamp.Message) {
	s.setState(Authenticating)
	// No authentication hook exists: every CHALLENGE is answered with a
	// zero-length signature, which lets routers without auth simply
	// proceed. Challenge-response authentication is not supported.
	extra := wamp.NewObject()
	reply := wamp.NewMessage(wamp.AuthenticateMessageType, wamp.NewString(""), extra)
	_ = s.peer.Send(ctx, reply)
	s.setState(Establishing)
}

func (s *Session) onGoodbye(ctx context.Context, msg wamp.Message) {
	switch s.State() {
	case Established:
		reason, _ := msg.Field(1).AsString()
		reply := newGoodbye(wamp.NewObject(), reason)
		_ = s.peer.Send(ctx, reply)
		s.setState(Closed)
	case ShuttingDown:
		s.setState(Closed)
	}
	s.goodbyeOnce.Do(func() { close(s.peerGoodbyeReceived) })
}

func (s *Session) onEvent(ctx context.Context, msg wamp.Message) {
	subID, _ := msg.Field(0).AsUint()
	pubID, _ := msg.Field(1).AsUint()
	args, kwargs := argsAndKwargs(msg, 3)

	entry, ok := s.subs.byEventSubID(subID)
	if !ok {
		s.opts.logger.Sugar().Debugw("dropping event for unknown subscription", "subscriptionId", subID)
		return
	}

	event := Event{SubscriptionID: subID, PublicationID: pubID, Args: args, Kwargs: kwargs}
	for _, slot := range entry.slots {
		handler := slot.handler
		s.postHandler(func() { s.invokeEventHandler(ctx, handler, event) })
	}
}

func (s *Session) invokeEventHandler(ctx context.Context, handler EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			s.opts.logger.Sugar().Errorw("event handler panicked", "recovered", r)
		}
	}()
	handler(ctx, event)
}

func (s *Session) onInvocation(ctx context.Context, msg wamp.Message) {
	regID, _ := msg.Field(0).AsUint()
	requestID, _ := msg.Field(1).AsUint()
	receiveProgress := boolAtKey(msg.Field(2), "receive_progress")
	args, kwargs := argsAndKwargs(msg, 3)

	entry, ok := s.regs.byInvocationRegID(regID)
	if !ok {
		reply := newErrorReply(wamp.InvocationMessageType, requestID, wamp.NewObject(), "wamp.error.no_such_procedure", nil, wamp.Null())
		_ = s.peer.Send(ctx, reply)
		return
	}

	s.pendingInvoke[requestID] = regID
	inv := Invocation{RequestID: requestID, RegistrationID: regID, Args: args, Kwargs: kwargs, ReceiveProgress: receiveProgress}
	s.postHandler(func() { s.invokeCallHandler(ctx, entry.call, requestID, inv) })
}

func (s *Session) invokeCallHandler(ctx context.Context, handler CallHandler, requestID uint64, inv Invocation) {
	outcome := func() (result wampunpack.Outcome) {
		defer func() {
			if r := recover(); r != nil {
				s.opts.logger.Sugar().Errorw("call handler panicked", "recovered", r)
				result = wampunpack.Error("wamp.error.invalid_argument", nil, wamp.Null())
			}
		}()
		return handler(ctx, inv)
	}()

	if outcome.IsDeferred() {
		return
	}

	s.safeDispatch(func() {
		if _, stillPending := s.pendingInvoke[requestID]; !stillPending {
			return
		}
		delete(s.pendingInvoke, requestID)
		if outcome.IsError() {
			reply := newErrorReply(wamp.InvocationMessageType, requestID, wamp.NewObject(), outcome.URI(), outcome.Args(), outcome.Kwargs())
			_ = s.peer.Send(ctx, reply)
			return
		}
		reply := newYield(requestID, false, outcome.Args(), outcome.Kwargs())
		_ = s.peer.Send(ctx, reply)
	})
}

func (s *Session) onInterrupt(ctx context.Context, msg wamp.Message) {
	requestID, _ := msg.Field(1).AsUint()
	regID, ok := s.pendingInvoke[requestID]
	if !ok {
		return
	}
	delete(s.pendingInvoke, requestID)
	entry, ok := s.regs.byInvocationRegID(regID)
	if !ok || entry.interrupt == nil {
		return
	}
	handler := entry.interrupt
	s.postHandler(func() { handler(ctx, requestID) })
}
