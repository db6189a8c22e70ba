// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Mutable keyed access into an Object is done by reading with AtKey and
// writing back with SetKey; there is no pointer-into-map accessor (Go gives
// no addressable handle into a map value), so auto-insert-on-mutate is
// expressed as "absent key reads as Null, SetKey installs the result" rather
// than a Key() that hands back a live pointer.
func TestObjectKeyedMutationRoundTrip(t *testing.T) {
	obj := NewObject()

	val, ok := obj.AtKey("count")
	assert.False(t, ok)
	assert.True(t, val.IsNull())

	obj.SetKey("count", NewInt(1))
	val, ok = obj.AtKey("count")
	assert.True(t, ok)
	n, err := val.AsInt()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIndexAutoInsertsNullAndIsAddressable(t *testing.T) {
	arr := NewArray()
	ptr := arr.Index(2)
	assert.True(t, ptr.IsNull())

	*ptr = NewString("third")
	v, err := arr.At(2)
	assert.NoError(t, err)
	s, err := v.AsString()
	assert.NoError(t, err)
	assert.Equal(t, "third", s)
}
