// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamperr"
)

// Subscribe registers handler for topic (spec §4.3.2). If another local
// handler already subscribes to topic, a new slot is appended to the
// existing subscription and no network traffic is sent.
func (s *Session) Subscribe(ctx context.Context, topic string, handler EventHandler) (*Subscription, error) {
	type subResult struct {
		sub *Subscription
		err error
	}
	resultCh := make(chan subResult, 1)

	err := s.dispatch(ctx, func() {
		if entry, ok := s.subs.find(topic); ok {
			slotID := s.subs.nextSlot.Add(1)
			entry.slots = append(entry.slots, &subSlot{id: slotID, handler: handler})
			resultCh <- subResult{sub: &Subscription{topic: topic, slotID: slotID}}
			return
		}

		reqID := s.reqIDs.Reserve()
		options := wamp.NewObject()
		msg := newSubscribe(reqID.ID(), options, topic)

		err := s.peer.SendRequest(ctx, reqID.ID(), msg, noDeadline(), func(reply wamp.Message) {
			reqID.Release()
			s.safeDispatch(func() {
				if reply.Type == wamp.ErrorMessageType {
					resultCh <- subResult{err: errorFromMessage(reply)}
					return
				}
				subID, _ := reply.Field(2).AsUint()
				slotID := s.subs.nextSlot.Add(1)
				entry := &subEntry{topic: topic, subID: subID, slots: []*subSlot{{id: slotID, handler: handler}}}
				s.subs.insert(entry)
				resultCh <- subResult{sub: &Subscription{topic: topic, slotID: slotID}}
			})
		}, nil)
		if err != nil {
			reqID.Release()
			resultCh <- subResult{err: err}
		}
	})
	if err != nil {
		return nil, err
	}

	select {
	case r := <-resultCh:
		return r.sub, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unsubscribe removes sub's slot. If it was the last slot for its topic, the
// topic entry is removed and UNSUBSCRIBE is sent; router-side errors are
// logged as best-effort since local state is already torn down.
func (s *Session) Unsubscribe(ctx context.Context, sub *Subscription) error {
	future := s.SafeUnsubscribe(sub)
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

// SafeUnsubscribe is the non-blocking form of Unsubscribe, safe to call from
// within a handler running on the session's handler executor.
func (s *Session) SafeUnsubscribe(sub *Subscription) <-chan wamperr.ErrorOr[bool] {
	out := make(chan wamperr.ErrorOr[bool], 1)
	s.safeDispatch(func() {
		entry, ok := s.subs.find(sub.topic)
		if !ok {
			out <- wamperr.Ok(false)
			return
		}
		for i, slot := range entry.slots {
			if slot.id == sub.slotID {
				entry.slots = append(entry.slots[:i], entry.slots[i+1:]...)
				break
			}
		}
		if len(entry.slots) > 0 {
			out <- wamperr.Ok(true)
			return
		}

		s.subs.remove(entry)
		reqID := s.reqIDs.Reserve()
		msg := newUnsubscribe(reqID.ID(), entry.subID)
		err := s.peer.SendRequest(context.Background(), reqID.ID(), msg, noDeadline(), func(reply wamp.Message) {
			reqID.Release()
			if reply.Type == wamp.ErrorMessageType {
				s.opts.logger.Sugar().Warnw("unsubscribe failed at router", "topic", sub.topic)
			}
		}, nil)
		if err != nil {
			reqID.Release()
		}
		out <- wamperr.Ok(true)
	})
	return out
}

func errorFromMessage(msg wamp.Message) *wamperr.WampError {
	if wamp.IsSessionEndedMessage(msg) {
		return wamperr.NewLocal(wamperr.SessionEnded, "session disconnected with request still pending")
	}
	uri, _ := msg.Field(3).AsString()
	args, kwargs := argsAndKwargs(msg, 4)
	return wamperr.New(uri, args, kwargs)
}
