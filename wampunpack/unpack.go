// SPDX-License-Identifier: Apache-2.0

// Package wampunpack deconstructs a positional Args array into typed handler
// parameters, the Go analogue of the conversion trait's static unpacker
// (spec §4.1.2). Go has no variadic-template parameter pack to unroll over,
// so arities are provided as Unpack0..Unpack8, one generic function per
// supported parameter count, mirroring the teacher's function-adapter style
// in observer.go rather than reflection-based unmarshaling. Reflection
// remains available to callers who want the *dynamic* handler shape (a
// handler taking the raw args Variant directly needs no unpacking at all).
package wampunpack

import (
	"context"
	"fmt"

	"github.com/xmidt-org/gowamp"
)

// UnpackError is raised when a positional Array does not have enough
// elements for the requested arity.
type UnpackError struct {
	Want int
	Got  int
}

func (e *UnpackError) Error() string {
	return fmt.Sprintf("wamp: unpack expected %d positional args, got %d", e.Want, e.Got)
}

func arg[T any](args wamp.Variant, i, want int) (T, error) {
	var zero T
	v, err := args.At(i)
	if err != nil {
		return zero, &UnpackError{Want: want, Got: args.Size()}
	}
	converted, err := wamp.To[T](v)
	if err != nil {
		return zero, err
	}
	return converted, nil
}

// Unpack0 drops all positional args and invokes fn directly.
func Unpack0(ctx context.Context, fn func(context.Context) (Outcome, error)) (Outcome, error) {
	return fn(ctx)
}

// Unpack1 extracts one positional argument and invokes fn with it.
func Unpack1[A any](ctx context.Context, args wamp.Variant, fn func(context.Context, A) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 1)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a)
}

// Unpack2 extracts two positional arguments and invokes fn with them.
func Unpack2[A, B any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 2)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 2)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b)
}

// Unpack3 extracts three positional arguments and invokes fn with them.
func Unpack3[A, B, C any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B, C) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 3)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 3)
	if err != nil {
		return Outcome{}, err
	}
	c, err := arg[C](args, 2, 3)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b, c)
}

// Unpack4 extracts four positional arguments and invokes fn with them.
func Unpack4[A, B, C, D any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B, C, D) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 4)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 4)
	if err != nil {
		return Outcome{}, err
	}
	c, err := arg[C](args, 2, 4)
	if err != nil {
		return Outcome{}, err
	}
	d, err := arg[D](args, 3, 4)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b, c, d)
}

// Unpack5 extracts five positional arguments and invokes fn with them.
func Unpack5[A, B, C, D, E any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B, C, D, E) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 5)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 5)
	if err != nil {
		return Outcome{}, err
	}
	c, err := arg[C](args, 2, 5)
	if err != nil {
		return Outcome{}, err
	}
	d, err := arg[D](args, 3, 5)
	if err != nil {
		return Outcome{}, err
	}
	e, err := arg[E](args, 4, 5)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b, c, d, e)
}

// Unpack6 extracts six positional arguments and invokes fn with them.
func Unpack6[A, B, C, D, E, F any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B, C, D, E, F) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 6)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 6)
	if err != nil {
		return Outcome{}, err
	}
	c, err := arg[C](args, 2, 6)
	if err != nil {
		return Outcome{}, err
	}
	d, err := arg[D](args, 3, 6)
	if err != nil {
		return Outcome{}, err
	}
	e, err := arg[E](args, 4, 6)
	if err != nil {
		return Outcome{}, err
	}
	f, err := arg[F](args, 5, 6)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b, c, d, e, f)
}

// Unpack7 extracts seven positional arguments and invokes fn with them.
func Unpack7[A, B, C, D, E, F, G any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B, C, D, E, F, G) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 7)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 7)
	if err != nil {
		return Outcome{}, err
	}
	c, err := arg[C](args, 2, 7)
	if err != nil {
		return Outcome{}, err
	}
	d, err := arg[D](args, 3, 7)
	if err != nil {
		return Outcome{}, err
	}
	e, err := arg[E](args, 4, 7)
	if err != nil {
		return Outcome{}, err
	}
	f, err := arg[F](args, 5, 7)
	if err != nil {
		return Outcome{}, err
	}
	g, err := arg[G](args, 6, 7)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b, c, d, e, f, g)
}

// Unpack8 extracts eight positional arguments and invokes fn with them.
func Unpack8[A, B, C, D, E, F, G, H any](ctx context.Context, args wamp.Variant, fn func(context.Context, A, B, C, D, E, F, G, H) (Outcome, error)) (Outcome, error) {
	a, err := arg[A](args, 0, 8)
	if err != nil {
		return Outcome{}, err
	}
	b, err := arg[B](args, 1, 8)
	if err != nil {
		return Outcome{}, err
	}
	c, err := arg[C](args, 2, 8)
	if err != nil {
		return Outcome{}, err
	}
	d, err := arg[D](args, 3, 8)
	if err != nil {
		return Outcome{}, err
	}
	e, err := arg[E](args, 4, 8)
	if err != nil {
		return Outcome{}, err
	}
	f, err := arg[F](args, 5, 8)
	if err != nil {
		return Outcome{}, err
	}
	g, err := arg[G](args, 6, 8)
	if err != nil {
		return Outcome{}, err
	}
	h, err := arg[H](args, 7, 8)
	if err != nil {
		return Outcome{}, err
	}
	return fn(ctx, a, b, c, d, e, f, g, h)
}
