// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
)

// Enroll registers call as the handler for procedure (spec §4.3.3). A
// duplicate-procedure error from the router surfaces as
// wamperr.ProcedureAlreadyExists.
func (s *Session) Enroll(ctx context.Context, procedure string, call CallHandler, interrupt InterruptHandler) (*Registration, error) {
	resultCh := make(chan wamperr.ErrorOr[*Registration], 1)

	err := s.dispatch(ctx, func() {
		reqID := s.reqIDs.Reserve()
		options := wamp.NewObject()
		msg := newRegister(reqID.ID(), options, procedure)

		sendErr := s.peer.SendRequest(ctx, reqID.ID(), msg, noDeadline(), func(reply wamp.Message) {
			reqID.Release()
			s.safeDispatch(func() {
				if reply.Type == wamp.ErrorMessageType {
					resultCh <- wamperr.Err[*Registration](errorFromMessage(reply))
					return
				}
				regID, _ := reply.Field(0).AsUint()
				entry := &regEntry{procedure: procedure, regID: regID, call: call, interrupt: interrupt}
				s.regs.insert(entry)
				resultCh <- wamperr.Ok(&Registration{procedure: procedure, regID: regID})
			})
		}, nil)
		if sendErr != nil {
			reqID.Release()
			resultCh <- wamperr.Err[*Registration](wamperr.NewLocal(wamperr.Transport, sendErr.Error()))
		}
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-resultCh:
		if !r.IsOk() {
			return nil, r.Error()
		}
		v, _ := r.Value()
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unregister removes reg's procedure handler.
func (s *Session) Unregister(ctx context.Context, reg *Registration) error {
	future := s.SafeUnregister(reg)
	select {
	case r := <-future:
		if !r.IsOk() {
			return r.Error()
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SafeUnregister is the non-blocking form of Unregister.
func (s *Session) SafeUnregister(reg *Registration) <-chan wamperr.ErrorOr[bool] {
	out := make(chan wamperr.ErrorOr[bool], 1)
	s.safeDispatch(func() {
		entry, ok := s.regs.find(reg.procedure)
		if !ok {
			out <- wamperr.Ok(false)
			return
		}
		s.regs.remove(entry)

		reqID := s.reqIDs.Reserve()
		msg := newUnregister(reqID.ID(), entry.regID)
		err := s.peer.SendRequest(context.Background(), reqID.ID(), msg, noDeadline(), func(reply wamp.Message) {
			reqID.Release()
			if reply.Type == wamp.ErrorMessageType {
				s.opts.logger.Sugar().Warnw("unregister failed at router", "procedure", reg.procedure)
			}
		}, nil)
		if err != nil {
			reqID.Release()
		}
		out <- wamperr.Ok(true)
	})
	return out
}

// Yield completes a deferred invocation. progress=true marks a non-terminal
// progressive result.
func (s *Session) Yield(ctx context.Context, requestID uint64, progress bool, args []wamp.Variant, kwargs wamp.Variant) error {
	return s.dispatch(ctx, func() {
		if !progress {
			delete(s.pendingInvoke, requestID)
		}
		msg := newYield(requestID, progress, args, kwargs)
		_ = s.peer.Send(ctx, msg)
	})
}

// Fail completes a deferred invocation with an ERROR.
func (s *Session) Fail(ctx context.Context, requestID uint64, uri string, args []wamp.Variant, kwargs wamp.Variant) error {
	return s.dispatch(ctx, func() {
		delete(s.pendingInvoke, requestID)
		msg := newErrorReply(wamp.InvocationMessageType, requestID, wamp.NewObject(), uri, args, kwargs)
		_ = s.peer.Send(ctx, msg)
	})
}
