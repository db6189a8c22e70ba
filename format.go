// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"fmt"
	"io"
)

// Format identifies the wire serialization used between a Peer and its
// transport. The numeric values are the WAMP codec identifiers negotiated
// out of band by the transport (e.g. a WebSocket subprotocol name).
type Format int

const (
	JSON Format = iota + 1
	MsgPack
	CBOR

	MimeTypeJSON        = "application/json"
	MimeTypeMsgPack      = "application/msgpack"
	MimeTypeCBOR        = "application/cbor"
	MimeTypeOctetStream    = "application/octet-stream"
)

// AllFormats returns every Format this module implements.
func AllFormats() []Format { return []Format{JSON, MsgPack, CBOR} }

// ContentType returns the MIME type associated with f.
func (f Format) ContentType() string {
	switch f {
	case JSON:
		return MimeTypeJSON
	case MsgPack:
		return MimeTypeMsgPack
	case CBOR:
		return MimeTypeCBOR
	default:
		return MimeTypeOctetStream
	}
}

// Encoder writes Variants to an underlying sink without clearing it first,
// so repeated Encode calls concatenate their output. Encoders are reusable
// and carry no hidden global state.
type Encoder interface {
	Encode(v Variant) error
}

// Decoder reads one Variant from an underlying source and returns it; on
// failure it returns the zero Variant and a *DecodeError.
type Decoder interface {
	Decode() (Variant, error)
}

// DecodeErrorKind enumerates the ways decoding a Variant can fail.
type DecodeErrorKind int

const (
	ErrEmptyInput DecodeErrorKind = iota
	ErrUnexpectedEnd
	ErrBadUTF8
	ErrBadBase64Length
	ErrBadBase64Char
	ErrBadBase64Padding
	ErrMaxDepth
	ErrNonStringKey
	ErrDuplicateKey
	ErrBadType
	ErrUnsupported
	ErrSyntax
)

func (k DecodeErrorKind) String() string {
	switch k {
	case ErrEmptyInput:
		return "EmptyInput"
	case ErrUnexpectedEnd:
		return "UnexpectedEnd"
	case ErrBadUTF8:
		return "BadUtf8"
	case ErrBadBase64Length:
		return "BadBase64Length"
	case ErrBadBase64Char:
		return "BadBase64Char"
	case ErrBadBase64Padding:
		return "BadBase64Padding"
	case ErrMaxDepth:
		return "MaxDepth"
	case ErrNonStringKey:
		return "NonStringKey"
	case ErrDuplicateKey:
		return "DuplicateKey"
	case ErrBadType:
		return "BadType"
	case ErrUnsupported:
		return "Unsupported"
	default:
		return "Syntax"
	}
}

// DecodeError is the error type returned by every codec's Decode.
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wamp: decode error (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("wamp: decode error (%s)", e.Kind)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(kind DecodeErrorKind, err error) error {
	return &DecodeError{Kind: kind, Err: err}
}

// NewEncoder returns an Encoder for the given format writing to w.
func NewEncoder(w io.Writer, f Format, opts ...CodecOption) Encoder {
	switch f {
	case JSON:
		return newJSONEncoder(w, opts...)
	case MsgPack:
		return newMsgPackEncoder(w, opts...)
	case CBOR:
		return newCBOREncoder(w, opts...)
	default:
		panic(fmt.Errorf("wamp: invalid format constant: %d", f))
	}
}

// NewDecoder returns a Decoder for the given format reading from r.
func NewDecoder(r io.Reader, f Format, opts ...CodecOption) Decoder {
	switch f {
	case JSON:
		return newJSONDecoder(r, opts...)
	case MsgPack:
		return newMsgPackDecoder(r, opts...)
	case CBOR:
		return newCBORDecoder(r, opts...)
	default:
		panic(fmt.Errorf("wamp: invalid format constant: %d", f))
	}
}

// CodecOption configures depth limits and strictness shared across codecs.
type CodecOption func(*codecConfig)

type codecConfig struct {
	maxDepth    int
	rejectDupKeys bool
}

func defaultCodecConfig() codecConfig {
	return codecConfig{maxDepth: 64, rejectDupKeys: true}
}

// WithMaxDepth overrides the maximum container nesting depth a decoder will
// accept before failing with ErrMaxDepth.
func WithMaxDepth(depth int) CodecOption {
	return func(c *codecConfig) { c.maxDepth = depth }
}

// WithDuplicateKeys controls whether a decoder rejects duplicate object
// keys (the default, strict-mode behavior) or accepts the last one.
func WithDuplicateKeys(reject bool) CodecOption {
	return func(c *codecConfig) { c.rejectDupKeys = reject }
}

func buildConfig(opts []CodecOption) codecConfig {
	c := defaultCodecConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// EncodeToBytes is a convenience wrapper equivalent to constructing an
// Encoder over a bytes.Buffer and encoding a single Variant.
func EncodeToBytes(v Variant, f Format, opts ...CodecOption) ([]byte, error) {
	var buf byteSink
	if err := NewEncoder(&buf, f, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeFromBytes is a convenience wrapper equivalent to constructing a
// Decoder over a bytes.Reader and decoding a single Variant.
func DecodeFromBytes(data []byte, f Format, opts ...CodecOption) (Variant, error) {
	if len(data) == 0 {
		return Variant{}, decodeErr(ErrEmptyInput, nil)
	}
	return NewDecoder(newByteSource(data), f, opts...).Decode()
}
