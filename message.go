// SPDX-License-Identifier: Apache-2.0

package wamp

import "fmt"

// MaxRequestID is the largest RequestId value the protocol allows: it must
// remain safely representable as an IEEE-754 double so peers that encode
// IDs as JSON reals never lose precision.
const MaxRequestID uint64 = 1<<53 - 1

// Message is a WAMP protocol message: a type code plus its positional
// field sequence, exactly as carried on the wire. Field access beyond
// arity checking is left to callers via At/Fields -- Message intentionally
// does not decode Details/Options dicts into typed structs, mirroring the
// data model's Variant-everywhere design.
type Message struct {
	Type   MessageType
	Fields []Variant
}

// NewMessage constructs a Message from a type and its positional fields.
func NewMessage(t MessageType, fields ...Variant) Message {
	return Message{Type: t, Fields: fields}
}

// ProtocolError indicates a WAMP message failed an arity or direction check.
type ProtocolError struct {
	Type   MessageType
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wamp: protocol violation for %s: %s", e.Type, e.Reason)
}

// Validate checks m's field count against its MessageType's arity, and, if
// dir is nonzero, that the type is legal for dir. An inbound message failing
// either check must be rejected with this error per the message model's
// invariants.
func (m Message) Validate(dir Direction) error {
	min, max, ok := m.Type.Arity()
	if !ok {
		return &ProtocolError{Type: m.Type, Reason: "unknown message type"}
	}
	if n := len(m.Fields); n < min || n > max {
		return &ProtocolError{
			Type:   m.Type,
			Reason: fmt.Sprintf("expected %d-%d fields, got %d", min, max, n),
		}
	}
	if dir != 0 {
		allowed, _ := m.Type.AllowedDirection()
		if allowed&dir == 0 {
			return &ProtocolError{Type: m.Type, Reason: "not allowed in this direction"}
		}
	}
	return nil
}

// RequestID returns the RequestId carried by m, if its type carries one at
// a valid index.
func (m Message) RequestID() (uint64, bool) {
	idx, ok := m.Type.RequestIDIndex()
	if !ok || idx >= len(m.Fields) {
		return 0, false
	}
	id, err := toUint64(m.Fields[idx])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Field returns the field at index i, or Null if out of range.
func (m Message) Field(i int) Variant {
	if i < 0 || i >= len(m.Fields) {
		return Null()
	}
	return m.Fields[i]
}

// ValidRequestID reports whether id is a legal WAMP RequestId: a positive
// integer no larger than MaxRequestID.
func ValidRequestID(id uint64) bool {
	return id > 0 && id <= MaxRequestID
}

// sessionEndedDetailsKey marks a locally synthesized ERROR completion that
// never crossed the wire, so callers can distinguish it from a router-sent
// ERROR without adding a fake entry to the error-URI table.
const sessionEndedDetailsKey = "_sessionEnded"

// NewSessionEndedMessage synthesizes the ERROR completion delivered to every
// pending request when a session disconnects gracefully with requests still
// outstanding (spec §5/§7).
func NewSessionEndedMessage(requestType MessageType, requestID uint64) Message {
	details := NewObject()
	details.SetKey(sessionEndedDetailsKey, NewBool(true))
	return NewMessage(ErrorMessageType,
		NewUint(uint64(requestType)), details, NewUint(requestID), NewString(""), NewArray())
}

// IsSessionEndedMessage reports whether msg was built by
// NewSessionEndedMessage rather than received from a router.
func IsSessionEndedMessage(msg Message) bool {
	marker, ok := msg.Field(1).AtKey(sessionEndedDetailsKey)
	if !ok {
		return false
	}
	b, _ := marker.AsBool()
	return b
}
