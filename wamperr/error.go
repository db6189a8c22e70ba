// SPDX-License-Identifier: Apache-2.0

package wamperr

import (
	"fmt"

	"github.com/xmidt-org/gowamp"
)

// WampError is the error value carried by a completion handler whenever a
// request fails: either a router-supplied ERROR (URI plus payload) or a
// locally synthesized failure (e.g. SessionEnded, Canceled-by-timeout).
type WampError struct {
	Kind    Kind
	URI     string
	Args    []wamp.Variant
	Kwargs  wamp.Variant
	Context string
}

// New constructs a WampError for a router-supplied ERROR message.
func New(uri string, args []wamp.Variant, kwargs wamp.Variant) *WampError {
	return &WampError{Kind: KindFromURI(uri), URI: uri, Args: args, Kwargs: kwargs}
}

// NewLocal constructs a WampError for a locally synthesized failure that has
// no router-supplied URI (timeouts, teardown, protocol violations).
func NewLocal(kind Kind, context string) *WampError {
	uri, _ := URIFromKind(kind)
	return &WampError{Kind: kind, URI: uri, Context: context}
}

func (e *WampError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("wamp: %s: %s (%s)", e.Kind, e.URI, e.Context)
	}
	if e.URI != "" {
		return fmt.Sprintf("wamp: %s: %s", e.Kind, e.URI)
	}
	return fmt.Sprintf("wamp: %s", e.Kind)
}

// ErrorOr is the result envelope every async completion handler receives: a
// successful value of T, or a WampError. The zero value is neither -- always
// construct via Ok/Err.
type ErrorOr[T any] struct {
	value T
	err   *WampError
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](value T) ErrorOr[T] {
	return ErrorOr[T]{value: value, ok: true}
}

// Err wraps a failure.
func Err[T any](err *WampError) ErrorOr[T] {
	return ErrorOr[T]{err: err}
}

// IsOk reports whether the envelope holds a successful value.
func (r ErrorOr[T]) IsOk() bool { return r.ok }

// Value returns the successful value and true, or the zero value and false.
func (r ErrorOr[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Error returns the failure, or nil if the envelope holds a successful value.
func (r ErrorOr[T]) Error() *WampError {
	if r.ok {
		return nil
	}
	return r.err
}

// Unwrap returns the value, panicking if the envelope holds a failure. Meant
// for call sites (tests, CLI glue) that have already checked IsOk or prefer
// to fail loudly.
func (r ErrorOr[T]) Unwrap() T {
	if !r.ok {
		panic(r.err)
	}
	return r.value
}
