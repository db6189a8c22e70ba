// SPDX-License-Identifier: Apache-2.0

package wampunpack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/gowamp"
)

func TestOutcomeResult(t *testing.T) {
	out := Result(wamp.NewInt(1), wamp.NewString("two"))
	assert.False(t, out.IsError())
	assert.False(t, out.IsDeferred())
	assert.Len(t, out.Args(), 2)
}

func TestOutcomeResultKV(t *testing.T) {
	kwargs := wamp.NewObject()
	out := ResultKV([]wamp.Variant{wamp.NewInt(1)}, kwargs)
	assert.False(t, out.IsError())
	assert.Equal(t, kwargs, out.Kwargs())
}

func TestOutcomeError(t *testing.T) {
	out := Error("wamp.error.invalid_argument", []wamp.Variant{wamp.NewString("bad")}, wamp.Null())
	assert.True(t, out.IsError())
	assert.False(t, out.IsDeferred())
	assert.Equal(t, "wamp.error.invalid_argument", out.URI())
	assert.Len(t, out.Args(), 1)
}

func TestOutcomeDeferred(t *testing.T) {
	out := Deferred()
	assert.True(t, out.IsDeferred())
	assert.False(t, out.IsError())
}

func TestUnpack0(t *testing.T) {
	called := false
	_, err := Unpack0(context.Background(), func(ctx context.Context) (Outcome, error) {
		called = true
		return Result(), nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUnpack1Success(t *testing.T) {
	args := wamp.NewArray(wamp.NewString("hello"))
	out, err := Unpack1(context.Background(), args, func(ctx context.Context, s string) (Outcome, error) {
		return Result(wamp.NewString(s + " world")), nil
	})
	require.NoError(t, err)
	v, convErr := out.Args()[0].AsString()
	require.NoError(t, convErr)
	assert.Equal(t, "hello world", v)
}

func TestUnpack1ArityError(t *testing.T) {
	args := wamp.NewArray()
	_, err := Unpack1(context.Background(), args, func(ctx context.Context, s string) (Outcome, error) {
		t.Fatal("fn must not be called on arity mismatch")
		return Outcome{}, nil
	})
	require.Error(t, err)
	var unpackErr *UnpackError
	require.ErrorAs(t, err, &unpackErr)
	assert.Equal(t, 1, unpackErr.Want)
	assert.Equal(t, 0, unpackErr.Got)
}

func TestUnpack3Success(t *testing.T) {
	args := wamp.NewArray(wamp.NewInt(1), wamp.NewInt(2), wamp.NewInt(3))
	out, err := Unpack3(context.Background(), args, func(ctx context.Context, a, b, c int64) (Outcome, error) {
		return Result(wamp.NewInt(a + b + c)), nil
	})
	require.NoError(t, err)
	sum, convErr := out.Args()[0].AsInt()
	require.NoError(t, convErr)
	assert.Equal(t, int64(6), sum)
}

func TestUnpack3ArityErrorOnMissingThirdArg(t *testing.T) {
	args := wamp.NewArray(wamp.NewInt(1), wamp.NewInt(2))
	_, err := Unpack3(context.Background(), args, func(ctx context.Context, a, b, c int64) (Outcome, error) {
		t.Fatal("fn must not be called on arity mismatch")
		return Outcome{}, nil
	})
	require.Error(t, err)
	var unpackErr *UnpackError
	require.ErrorAs(t, err, &unpackErr)
	assert.Equal(t, 3, unpackErr.Want)
	assert.Equal(t, 2, unpackErr.Got)
}

func TestUnpackErrorFormatting(t *testing.T) {
	err := &UnpackError{Want: 2, Got: 0}
	assert.Contains(t, err.Error(), "expected 2")
	assert.Contains(t, err.Error(), "got 0")
}
