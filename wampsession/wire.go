// SPDX-License-Identifier: Apache-2.0

package wampsession

import "github.com/xmidt-org/gowamp"

// Field ordering for every message type built/parsed here follows the
// project's messagetype.go traits table exactly (RequestIDIndex in
// particular); see that file's messageTraits map. Where a message carries
// an Options/Details dict, side-channel flags (receive_progress, progress,
// mode, disclose_me) live in that dict rather than as separate positional
// fields, matching the real protocol's own convention.

func newHello(realm string, details wamp.Variant) wamp.Message {
	return wamp.NewMessage(wamp.HelloMessageType, wamp.NewString(realm), details)
}

func newGoodbye(details wamp.Variant, reason string) wamp.Message {
	return wamp.NewMessage(wamp.GoodbyeMessageType, details, wamp.NewString(reason))
}

func newPublish(requestID uint64, options wamp.Variant, topic string, args []wamp.Variant, kwargs wamp.Variant) wamp.Message {
	argsV := wamp.NewArray()
	for _, a := range args {
		argsV.Append(a)
	}
	fields := []wamp.Variant{options, wamp.NewUint(requestID), wamp.NewString(topic), argsV}
	if !kwargs.IsNull() {
		fields = append(fields, kwargs)
	}
	return wamp.NewMessage(wamp.PublishMessageType, fields...)
}

func newSubscribe(requestID uint64, options wamp.Variant, topic string) wamp.Message {
	return wamp.NewMessage(wamp.SubscribeMessageType, options, wamp.NewUint(requestID), wamp.NewString(topic))
}

func newUnsubscribe(requestID, subID uint64) wamp.Message {
	return wamp.NewMessage(wamp.UnsubscribeMessageType, wamp.NewUint(subID), wamp.NewUint(requestID))
}

func newRegister(requestID uint64, options wamp.Variant, procedure string) wamp.Message {
	return wamp.NewMessage(wamp.RegisterMessageType, options, wamp.NewUint(requestID), wamp.NewString(procedure))
}

func newUnregister(requestID, regID uint64) wamp.Message {
	return wamp.NewMessage(wamp.UnregisterMessageType, wamp.NewUint(regID), wamp.NewUint(requestID))
}

func newCall(requestID uint64, options wamp.Variant, procedure string, args []wamp.Variant, kwargs wamp.Variant) wamp.Message {
	argsV := wamp.NewArray()
	for _, a := range args {
		argsV.Append(a)
	}
	fields := []wamp.Variant{options, wamp.NewUint(requestID), wamp.NewString(procedure), argsV}
	if !kwargs.IsNull() {
		fields = append(fields, kwargs)
	}
	return wamp.NewMessage(wamp.CallMessageType, fields...)
}

func newCancel(requestID uint64, mode CancelMode) wamp.Message {
	options := wamp.NewObject()
	options.SetKey("mode", wamp.NewString(mode.String()))
	return wamp.NewMessage(wamp.CancelMessageType, options, wamp.NewUint(requestID))
}

func newYield(requestID uint64, progress bool, args []wamp.Variant, kwargs wamp.Variant) wamp.Message {
	options := wamp.NewObject()
	if progress {
		options.SetKey("progress", wamp.NewBool(true))
	}
	fields := []wamp.Variant{options, wamp.NewUint(requestID)}
	if len(args) > 0 || !kwargs.IsNull() {
		argsV := wamp.NewArray()
		for _, a := range args {
			argsV.Append(a)
		}
		fields = append(fields, argsV)
		if !kwargs.IsNull() {
			fields = append(fields, kwargs)
		}
	}
	return wamp.NewMessage(wamp.YieldMessageType, fields...)
}

func newErrorReply(requestType wamp.MessageType, requestID uint64, details wamp.Variant, uri string, args []wamp.Variant, kwargs wamp.Variant) wamp.Message {
	argsV := wamp.NewArray()
	for _, a := range args {
		argsV.Append(a)
	}
	fields := []wamp.Variant{
		wamp.NewUint(uint64(requestType)), details, wamp.NewUint(requestID), wamp.NewString(uri), argsV,
	}
	if !kwargs.IsNull() {
		fields = append(fields, kwargs)
	}
	return wamp.NewMessage(wamp.ErrorMessageType, fields...)
}

func boolAtKey(v wamp.Variant, key string) bool {
	field, ok := v.AtKey(key)
	if !ok {
		return false
	}
	b, err := field.AsBool()
	return err == nil && b
}

func argsAndKwargs(msg wamp.Message, argsIdx int) ([]wamp.Variant, wamp.Variant) {
	args, _ := msg.Field(argsIdx).AsArray()
	return args, msg.Field(argsIdx + 1)
}
