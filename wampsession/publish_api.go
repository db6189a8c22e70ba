// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
)

// Publish sends a PUBLISH for topic. If opts.Acknowledge is set, it blocks
// for PUBLISHED and returns the assigned publication id; otherwise it
// returns as soon as the frame is enqueued.
func (s *Session) Publish(ctx context.Context, topic string, args []wamp.Variant, kwargs wamp.Variant, opts PublishOptions) (uint64, error) {
	options := wamp.NewObject()
	if opts.Acknowledge {
		options.SetKey("acknowledge", wamp.NewBool(true))
	}
	if opts.DiscloseSet {
		options.SetKey("disclose_me", wamp.NewBool(opts.Disclose))
	}

	if !opts.Acknowledge {
		var pubErr error
		err := s.dispatch(ctx, func() {
			reqID := s.reqIDs.Reserve()
			defer reqID.Release()
			msg := newPublish(reqID.ID(), options, topic, args, kwargs)
			pubErr = s.peer.Send(ctx, msg)
		})
		if err != nil {
			return 0, err
		}
		return 0, pubErr
	}

	resultCh := make(chan wamperr.ErrorOr[uint64], 1)
	err := s.dispatch(ctx, func() {
		reqID := s.reqIDs.Reserve()
		msg := newPublish(reqID.ID(), options, topic, args, kwargs)

		sendErr := s.peer.SendRequest(ctx, reqID.ID(), msg, noDeadline(), func(reply wamp.Message) {
			reqID.Release()
			if reply.Type == wamp.ErrorMessageType {
				resultCh <- wamperr.Err[uint64](errorFromMessage(reply))
				return
			}
			pubID, _ := reply.Field(2).AsUint()
			resultCh <- wamperr.Ok(pubID)
		}, nil)
		if sendErr != nil {
			reqID.Release()
			resultCh <- wamperr.Err[uint64](wamperr.NewLocal(wamperr.Transport, sendErr.Error()))
		}
	})
	if err != nil {
		return 0, err
	}

	select {
	case r := <-resultCh:
		if !r.IsOk() {
			return 0, r.Error()
		}
		v, _ := r.Value()
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
