// SPDX-License-Identifier: Apache-2.0

package wamperr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/gowamp"
)

func TestKindFromURIRoundTrips(t *testing.T) {
	for uri, kind := range uriToKind {
		assert.Equal(t, kind, KindFromURI(uri))
		got, ok := URIFromKind(kind)
		assert.True(t, ok)
		assert.Equal(t, uri, got)
	}
}

func TestKindFromURIUnknownURI(t *testing.T) {
	assert.Equal(t, Unknown, KindFromURI("wamp.error.not_a_real_uri"))
}

func TestURIFromKindHasNoEntryForLocalKinds(t *testing.T) {
	for _, kind := range []Kind{SessionEnded, Protocol, Transport, Codec, Conversion, Unpack} {
		_, ok := URIFromKind(kind)
		assert.False(t, ok, "local kind %s unexpectedly has a router-facing URI", kind)
	}
}

func TestNewBuildsErrorFromURI(t *testing.T) {
	err := New("wamp.error.no_such_procedure", []wamp.Variant{wamp.NewString("proc")}, wamp.Null())
	assert.Equal(t, NoSuchProcedure, err.Kind)
	assert.Equal(t, "wamp.error.no_such_procedure", err.URI)
	assert.Contains(t, err.Error(), "NoSuchProcedure")
}

func TestNewLocalBuildsErrorWithoutURI(t *testing.T) {
	err := NewLocal(SessionEnded, "strand closed")
	assert.Equal(t, SessionEnded, err.Kind)
	assert.Contains(t, err.Error(), "strand closed")
}

func TestErrorOrOkAndErr(t *testing.T) {
	ok := Ok(42)
	assert.True(t, ok.IsOk())
	v, present := ok.Value()
	assert.True(t, present)
	assert.Equal(t, 42, v)
	assert.Nil(t, ok.Error())
	assert.Equal(t, 42, ok.Unwrap())

	failure := Err[int](NewLocal(Canceled, "timed out"))
	assert.False(t, failure.IsOk())
	_, present = failure.Value()
	assert.False(t, present)
	assert.NotNil(t, failure.Error())
	assert.PanicsWithValue(t, failure.Error(), func() { failure.Unwrap() })
}
