// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"fmt"
	"strconv"
)

// MessageType identifies the kind of WAMP message carried by a Message.
type MessageType int64

const (
	InvalidMessageType   MessageType = 0
	HelloMessageType      MessageType = 1
	WelcomeMessageType     MessageType = 2
	AbortMessageType       MessageType = 3
	ChallengeMessageType    MessageType = 4
	AuthenticateMessageType  MessageType = 5
	GoodbyeMessageType      MessageType = 6
	ErrorMessageType       MessageType = 8
	PublishMessageType     MessageType = 16
	PublishedMessageType    MessageType = 17
	SubscribeMessageType    MessageType = 32
	SubscribedMessageType   MessageType = 33
	UnsubscribeMessageType   MessageType = 34
	UnsubscribedMessageType  MessageType = 35
	EventMessageType       MessageType = 36
	CallMessageType       MessageType = 48
	CancelMessageType      MessageType = 49
	ResultMessageType      MessageType = 50
	RegisterMessageType     MessageType = 64
	RegisteredMessageType    MessageType = 65
	UnregisterMessageType    MessageType = 66
	UnregisteredMessageType   MessageType = 67
	InvocationMessageType   MessageType = 68
	InterruptMessageType    MessageType = 69
	YieldMessageType       MessageType = 70
)

var messageTypeNames = map[MessageType]string{
	HelloMessageType:        "HELLO",
	WelcomeMessageType:       "WELCOME",
	AbortMessageType:        "ABORT",
	ChallengeMessageType:      "CHALLENGE",
	AuthenticateMessageType:    "AUTHENTICATE",
	GoodbyeMessageType:       "GOODBYE",
	ErrorMessageType:        "ERROR",
	PublishMessageType:       "PUBLISH",
	PublishedMessageType:      "PUBLISHED",
	SubscribeMessageType:      "SUBSCRIBE",
	SubscribedMessageType:     "SUBSCRIBED",
	UnsubscribeMessageType:     "UNSUBSCRIBE",
	UnsubscribedMessageType:    "UNSUBSCRIBED",
	EventMessageType:        "EVENT",
	CallMessageType:        "CALL",
	CancelMessageType:       "CANCEL",
	ResultMessageType:       "RESULT",
	RegisterMessageType:      "REGISTER",
	RegisteredMessageType:     "REGISTERED",
	UnregisterMessageType:     "UNREGISTER",
	UnregisteredMessageType:    "UNREGISTERED",
	InvocationMessageType:     "INVOCATION",
	InterruptMessageType:      "INTERRUPT",
	YieldMessageType:        "YIELD",
}

var nameToMessageType map[string]MessageType

func init() {
	nameToMessageType = make(map[string]MessageType, len(messageTypeNames))
	for mt, name := range messageTypeNames {
		nameToMessageType[name] = mt
	}
}

// String returns the WAMP wire name of the message type, e.g. "HELLO".
func (mt MessageType) String() string {
	if name, ok := messageTypeNames[mt]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(%d)", int64(mt))
}

// StringToMessageType parses a WAMP message-type name (case-sensitive, as
// it appears on the wire) or its integral string form back into a
// MessageType.
func StringToMessageType(value string) (MessageType, error) {
	if mt, ok := nameToMessageType[value]; ok {
		return mt, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if _, ok := messageTypeNames[MessageType(n)]; ok {
			return MessageType(n), nil
		}
	}
	return InvalidMessageType, fmt.Errorf("wamp: invalid message type: %s", value)
}

// Direction describes which peer role is allowed to send a message type.
type Direction uint8

const (
	DirectionClientToRouter Direction = 1 << iota
	DirectionRouterToClient
	DirectionBoth = DirectionClientToRouter | DirectionRouterToClient
)

// traits describes the fixed positional-field layout for one MessageType.
type traits struct {
	minFields    int
	maxFields    int
	hasRequestID  bool
	requestIDIndex int
	replyTo     MessageType
	direction    Direction
}

var messageTraits = map[MessageType]traits{
	HelloMessageType:       {minFields: 2, maxFields: 2, direction: DirectionClientToRouter},
	WelcomeMessageType:      {minFields: 2, maxFields: 2, direction: DirectionRouterToClient},
	AbortMessageType:       {minFields: 2, maxFields: 2, direction: DirectionBoth},
	ChallengeMessageType:     {minFields: 2, maxFields: 2, direction: DirectionRouterToClient},
	AuthenticateMessageType:   {minFields: 2, maxFields: 2, direction: DirectionClientToRouter},
	GoodbyeMessageType:      {minFields: 2, maxFields: 2, direction: DirectionBoth},
	ErrorMessageType: {
		minFields: 5, maxFields: 6,
		hasRequestID: true, requestIDIndex: 2,
		direction: DirectionBoth,
	},
	PublishMessageType: {
		minFields: 4, maxFields: 5,
		hasRequestID: true, requestIDIndex: 1,
		replyTo: PublishedMessageType, direction: DirectionClientToRouter,
	},
	PublishedMessageType: {
		minFields: 3, maxFields: 3,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionRouterToClient,
	},
	SubscribeMessageType: {
		minFields: 3, maxFields: 3,
		hasRequestID: true, requestIDIndex: 1,
		replyTo: SubscribedMessageType, direction: DirectionClientToRouter,
	},
	SubscribedMessageType: {
		minFields: 3, maxFields: 3,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionRouterToClient,
	},
	UnsubscribeMessageType: {
		minFields: 2, maxFields: 2,
		hasRequestID: true, requestIDIndex: 1,
		replyTo: UnsubscribedMessageType, direction: DirectionClientToRouter,
	},
	UnsubscribedMessageType: {
		minFields: 1, maxFields: 1,
		hasRequestID: true, requestIDIndex: 0,
		direction: DirectionRouterToClient,
	},
	EventMessageType:  {minFields: 3, maxFields: 5, direction: DirectionRouterToClient},
	CallMessageType: {
		minFields: 4, maxFields: 6,
		hasRequestID: true, requestIDIndex: 1,
		replyTo: ResultMessageType, direction: DirectionClientToRouter,
	},
	CancelMessageType: {
		minFields: 2, maxFields: 2,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionClientToRouter,
	},
	ResultMessageType: {
		minFields: 2, maxFields: 4,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionRouterToClient,
	},
	RegisterMessageType: {
		minFields: 3, maxFields: 3,
		hasRequestID: true, requestIDIndex: 1,
		replyTo: RegisteredMessageType, direction: DirectionClientToRouter,
	},
	RegisteredMessageType: {
		minFields: 2, maxFields: 2,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionRouterToClient,
	},
	UnregisterMessageType: {
		minFields: 2, maxFields: 2,
		hasRequestID: true, requestIDIndex: 1,
		replyTo: UnregisteredMessageType, direction: DirectionClientToRouter,
	},
	UnregisteredMessageType: {
		minFields: 1, maxFields: 1,
		hasRequestID: true, requestIDIndex: 0,
		direction: DirectionRouterToClient,
	},
	InvocationMessageType: {
		minFields: 3, maxFields: 5,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionRouterToClient,
	},
	InterruptMessageType: {
		minFields: 2, maxFields: 2,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionRouterToClient,
	},
	YieldMessageType: {
		minFields: 2, maxFields: 4,
		hasRequestID: true, requestIDIndex: 1,
		direction: DirectionClientToRouter,
	},
}

// RequestIDIndex reports the field index carrying the RequestId for this
// message type, and whether this type carries one at all.
func (mt MessageType) RequestIDIndex() (int, bool) {
	t, ok := messageTraits[mt]
	if !ok || !t.hasRequestID {
		return 0, false
	}
	return t.requestIDIndex, true
}

// ReplyType reports the message type expected in reply to this one, if any.
func (mt MessageType) ReplyType() (MessageType, bool) {
	t, ok := messageTraits[mt]
	if !ok || t.replyTo == InvalidMessageType {
		return InvalidMessageType, false
	}
	return t.replyTo, true
}

// AllowedDirection reports which peer role(s) may send this message type.
func (mt MessageType) AllowedDirection() (Direction, bool) {
	t, ok := messageTraits[mt]
	if !ok {
		return 0, false
	}
	return t.direction, true
}

// Arity reports the minimum and maximum legal field count for this message
// type.
func (mt MessageType) Arity() (min, max int, ok bool) {
	t, exists := messageTraits[mt]
	if !exists {
		return 0, 0, false
	}
	return t.minFields, t.maxFields, true
}
