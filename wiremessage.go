// SPDX-License-Identifier: Apache-2.0

package wamp

// EncodeMessage serializes msg as the WAMP wire array
// [type_code, field1, field2, ...] using the given Format.
func EncodeMessage(msg Message, f Format, opts ...CodecOption) ([]byte, error) {
	arr := NewArray()
	arr.Append(NewUint(uint64(msg.Type)))
	for _, field := range msg.Fields {
		arr.Append(field)
	}
	return EncodeToBytes(arr, f, opts...)
}

// DecodeMessage parses a WAMP wire array back into a Message. It does not
// validate arity/direction; callers should call Message.Validate.
func DecodeMessage(data []byte, f Format, opts ...CodecOption) (Message, error) {
	v, err := DecodeFromBytes(data, f, opts...)
	if err != nil {
		return Message{}, err
	}
	arr, err := v.AsArray()
	if err != nil {
		return Message{}, &ProtocolError{Reason: "wire frame is not an array"}
	}
	if len(arr) == 0 {
		return Message{}, &ProtocolError{Reason: "empty wire frame"}
	}
	typeCode, err := toUint64(arr[0])
	if err != nil {
		return Message{}, &ProtocolError{Reason: "message type is not numeric"}
	}
	return Message{Type: MessageType(typeCode), Fields: arr[1:]}, nil
}
