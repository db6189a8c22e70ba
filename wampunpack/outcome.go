// SPDX-License-Identifier: Apache-2.0

package wampunpack

import "github.com/xmidt-org/gowamp"

// Outcome is what a call handler (INVOCATION) or a static-slot unpacker
// returns: exactly one of a positional/keyword result, a WAMP error, or
// "deferred" (the handler will complete later via an explicit yield/fail
// call, per §4.3.3). The zero value is an empty success.
type Outcome struct {
	kind   outcomeKind
	args   []wamp.Variant
	kwargs wamp.Variant
	uri    string
}

type outcomeKind int

const (
	outcomeResult outcomeKind = iota
	outcomeError
	outcomeDeferred
)

// Result builds a successful Outcome from positional args with no keyword
// args.
func Result(args ...wamp.Variant) Outcome {
	return Outcome{kind: outcomeResult, args: args}
}

// ResultKV builds a successful Outcome carrying both positional and keyword
// args.
func ResultKV(args []wamp.Variant, kwargs wamp.Variant) Outcome {
	return Outcome{kind: outcomeResult, args: args, kwargs: kwargs}
}

// Error builds a failing Outcome reported to the router as an ERROR against
// the originating INVOCATION.
func Error(uri string, args []wamp.Variant, kwargs wamp.Variant) Outcome {
	return Outcome{kind: outcomeError, uri: uri, args: args, kwargs: kwargs}
}

// Deferred builds an Outcome signaling the handler will complete the call
// later via its own yield/fail call; the registration bookkeeping posts no
// immediate message.
func Deferred() Outcome {
	return Outcome{kind: outcomeDeferred}
}

// IsDeferred reports whether the handler chose to complete the call later.
func (o Outcome) IsDeferred() bool { return o.kind == outcomeDeferred }

// IsError reports whether the handler reported a failure.
func (o Outcome) IsError() bool { return o.kind == outcomeError }

// Args returns the positional result or error args.
func (o Outcome) Args() []wamp.Variant { return o.args }

// Kwargs returns the keyword result or error args.
func (o Outcome) Kwargs() wamp.Variant { return o.kwargs }

// URI returns the error URI; meaningful only when IsError is true.
func (o Outcome) URI() string { return o.uri }
