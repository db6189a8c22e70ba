// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"
	"time"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
)

// Call invokes procedure and blocks for the terminal RESULT/ERROR. If
// timeout is nonzero, a caller-side timer fires cancel_call(Kill) when it
// elapses (spec §5's caller_timeout); Go's runtime timer wheel already
// amortizes many short-lived timers, so one time.AfterFunc per call serves
// the same role as a hand-rolled deadline heap without duplicating it.
func (s *Session) Call(ctx context.Context, procedure string, args []wamp.Variant, kwargs wamp.Variant, timeout time.Duration, opts CallOptions) (CallResult, error) {
	resultCh := make(chan wamperr.ErrorOr[CallResult], 1)

	err := s.dispatch(ctx, func() {
		reqID := s.reqIDs.Reserve()
		options := wamp.NewObject()
		if opts.ReceiveProgress {
			options.SetKey("receive_progress", wamp.NewBool(true))
		}
		if opts.DiscloseSet {
			options.SetKey("disclose_me", wamp.NewBool(opts.Disclose))
		}
		msg := newCall(reqID.ID(), options, procedure, args, kwargs)

		var timer *time.Timer
		complete := func(reply wamp.Message) {
			reqID.Release()
			if timer != nil {
				timer.Stop()
			}
			if reply.Type == wamp.ErrorMessageType {
				resultCh <- wamperr.Err[CallResult](errorFromMessage(reply))
				return
			}
			resultArgs, resultKwargs := argsAndKwargs(reply, 2)
			resultCh <- wamperr.Ok(CallResult{Args: resultArgs, Kwargs: resultKwargs})
		}
		onProgress := func(reply wamp.Message) bool {
			if !boolAtKey(reply.Field(0), "progress") {
				return false
			}
			if opts.OnProgress != nil {
				progressArgs, progressKwargs := argsAndKwargs(reply, 2)
				opts.OnProgress(CallResult{Args: progressArgs, Kwargs: progressKwargs})
			}
			return true
		}

		if err := s.peer.SendRequest(ctx, reqID.ID(), msg, noDeadline(), complete, onProgress); err != nil {
			reqID.Release()
			resultCh <- wamperr.Err[CallResult](wamperr.NewLocal(wamperr.Transport, err.Error()))
			return
		}

		if timeout > 0 {
			timer = time.AfterFunc(timeout, func() {
				s.safeDispatch(func() { _ = s.cancelLocked(reqID.ID(), CancelKill) })
			})
		}
	})
	if err != nil {
		return CallResult{}, err
	}

	select {
	case r := <-resultCh:
		if !r.IsOk() {
			return CallResult{}, r.Error()
		}
		v, _ := r.Value()
		return v, nil
	case <-ctx.Done():
		return CallResult{}, ctx.Err()
	}
}

// CancelCall asks the router to unwind an in-flight call this session
// issued (spec §4.3.3).
func (s *Session) CancelCall(ctx context.Context, requestID uint64, mode CancelMode) error {
	return s.dispatch(ctx, func() {
		_ = s.cancelLocked(requestID, mode)
	})
}

func (s *Session) cancelLocked(requestID uint64, mode CancelMode) error {
	msg := newCancel(requestID, mode)
	if err := s.peer.Send(context.Background(), msg); err != nil {
		return err
	}
	if mode == CancelKillNoWait {
		if pr, ok := s.peer.CancelRequest(requestID); ok {
			pr.Complete(newErrorReply(wamp.CallMessageType, requestID, wamp.NewObject(), "wamp.error.canceled", nil, wamp.Null()))
		}
	}
	return nil
}
