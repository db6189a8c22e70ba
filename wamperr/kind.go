// SPDX-License-Identifier: Apache-2.0

// Package wamperr holds the typed error taxonomy a Session/Peer reports to
// callers: protocol, transport, codec, and WAMP-level failures, plus the
// round-trip table between WAMP error URIs and typed Kind values.
package wamperr

// Kind enumerates the error-kind taxonomy from the error handling design:
// every user-visible failure reduces to one of these, regardless of whether
// it originated locally (protocol/conversion checks) or was mapped from a
// router-supplied error URI.
type Kind int

const (
	Unknown Kind = iota
	NoSuchProcedure
	ProcedureAlreadyExists
	InvalidArgument
	NotAuthorized
	Canceled
	PayloadSizeExceeded
	CloseRealm
	GoodbyeAndOut
	SystemShutdown
	DiscloseMeDisallowed
	OptionNotAllowed

	// SessionEnded is never mapped from a URI; it is synthesized locally
	// when a pending request is dropped by session teardown.
	SessionEnded

	// Protocol marks arity/direction violations and other local message
	// validation failures -- see wamp.ProtocolError.
	Protocol

	// Transport marks connect/write/disconnect failures reported by the
	// consumed Transport.
	Transport

	// Codec marks encode/decode failures -- see wamp.DecodeError.
	Codec

	// Conversion marks Variant-to-Go-value conversion failures -- see
	// wamp.ConversionError.
	Conversion

	// Unpack marks positional-argument arity failures in wampunpack.
	Unpack
)

func (k Kind) String() string {
	switch k {
	case NoSuchProcedure:
		return "NoSuchProcedure"
	case ProcedureAlreadyExists:
		return "ProcedureAlreadyExists"
	case InvalidArgument:
		return "InvalidArgument"
	case NotAuthorized:
		return "NotAuthorized"
	case Canceled:
		return "Canceled"
	case PayloadSizeExceeded:
		return "PayloadSizeExceeded"
	case CloseRealm:
		return "CloseRealm"
	case GoodbyeAndOut:
		return "GoodbyeAndOut"
	case SystemShutdown:
		return "SystemShutdown"
	case DiscloseMeDisallowed:
		return "DiscloseMeDisallowed"
	case OptionNotAllowed:
		return "OptionNotAllowed"
	case SessionEnded:
		return "SessionEnded"
	case Protocol:
		return "Protocol"
	case Transport:
		return "Transport"
	case Codec:
		return "Codec"
	case Conversion:
		return "Conversion"
	case Unpack:
		return "Unpack"
	default:
		return "Unknown"
	}
}
