// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wamptransport"
)

// loopbackTransport returns two PipeTransports wired to each other: one for
// the demo's Session, one for its stand-in router.
func loopbackTransport() (client, router *wamptransport.PipeTransport) {
	return wamptransport.NewPipe(0)
}

// loopbackRouter answers just enough of HELLO/SUBSCRIBE/PUBLISH/REGISTER/
// CALL to drive the pubsub and RPC demos; it is not a general WAMP router.
type loopbackRouter struct {
	transport wamptransport.Transport
	subs      map[string]uint64
	regs      map[string]uint64
	next      uint64
}

func newLoopbackRouter(transport wamptransport.Transport) *loopbackRouter {
	return &loopbackRouter{transport: transport, subs: make(map[string]uint64), regs: make(map[string]uint64), next: 1}
}

func (r *loopbackRouter) nextID() uint64 {
	r.next++
	return r.next
}

func (r *loopbackRouter) send(ctx context.Context, msg wamp.Message) {
	data, err := wamp.EncodeMessage(msg, wamp.JSON)
	if err != nil {
		return
	}
	_ = r.transport.Send(ctx, data)
}

func (r *loopbackRouter) run(ctx context.Context) {
	for {
		frame, err := r.transport.Receive(ctx)
		if err != nil {
			return
		}
		msg, err := wamp.DecodeMessage(frame, wamp.JSON)
		if err != nil {
			continue
		}

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
				argsV := wamp.NewArray(args...)
				r.send(ctx, wamp.NewMessage(wamp.EventMessageType, wamp.NewUint(subID), wamp.NewUint(pubID), wamp.NewObject(), argsV))
			}
		case wamp.RegisterMessageType:
			reqID, _ := msg.Field(1).AsUint()
			procedure, _ := msg.Field(2).AsString()
			regID := r.nextID()
			r.regs[procedure] = regID
			r.send(ctx, wamp.NewMessage(wamp.RegisteredMessageType, wamp.NewUint(regID), wamp.NewUint(reqID)))
		case wamp.CallMessageType:
			reqID, _ := msg.Field(1).AsUint()
			procedure, _ := msg.Field(2).AsString()
			args, _ := msg.Field(3).AsArray()
			regID, ok := r.regs[procedure]
			if !ok {
				r.send(ctx, wamp.NewMessage(wamp.ErrorMessageType, wamp.NewUint(uint64(wamp.CallMessageType)), wamp.NewObject(), wamp.NewUint(reqID), wamp.NewString("wamp.error.no_such_procedure"), wamp.NewArray()))
				continue
			}
			r.send(ctx, wamp.NewMessage(wamp.InvocationMessageType, wamp.NewUint(regID), wamp.NewUint(reqID), wamp.NewObject(), wamp.NewArray(args...)))
		case wamp.YieldMessageType:
			reqID, _ := msg.Field(1).AsUint()
			args, _ := msg.Field(2).AsArray()
			r.send(ctx, wamp.NewMessage(wamp.ResultMessageType, wamp.NewObject(), wamp.NewUint(reqID), wamp.NewArray(args...)))
		case wamp.GoodbyeMessageType:
			r.send(ctx, wamp.NewMessage(wamp.GoodbyeMessageType, wamp.NewObject(), wamp.NewString("wamp.close.goodbye_and_out")))
		}
	}
}

func boolAtKey(v wamp.Variant, key string) bool {
	field, ok := v.AtKey(key)
	if !ok {
		return false
	}
	b, err := field.AsBool()
	return err == nil && b
}
