// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSliceConvertsElementwise(t *testing.T) {
	arr := NewArray(NewInt(1), NewInt(2), NewInt(3))
	out, err := To[[]int64](arr)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, out)
}

func TestToSliceWrapsElementErrorWithArrayIndexBreadcrumb(t *testing.T) {
	arr := NewArray(NewInt(1), NewString("not a number"))
	_, err := To[[]int64](arr)
	require.Error(t, err)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, []string{"for array index 1"}, convErr.Path)
	assert.Contains(t, err.Error(), "for array index 1")
}

func TestToMapConvertsElementwise(t *testing.T) {
	obj := NewObject()
	obj.SetKey("a", NewString("x"))
	obj.SetKey("b", NewString("y"))

	out, err := To[map[string]string](obj)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "x", "b": "y"}, out)
}

func TestToMapWrapsElementErrorWithObjectMemberBreadcrumb(t *testing.T) {
	obj := NewObject()
	obj.SetKey("bad", NewBool(true))

	_, err := To[map[string]string](obj)
	require.Error(t, err)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, []string{`for object member "bad"`}, convErr.Path)
}

func TestToMapRejectsNonStringKey(t *testing.T) {
	obj := NewObject()
	_, err := To[map[int]string](obj)
	assert.Error(t, err)
}

func TestToNestedSliceOfSliceWrapsOuterThenInnerBreadcrumb(t *testing.T) {
	arr := NewArray(NewArray(NewInt(1)), NewArray(NewString("nope")))
	_, err := To[[][]int64](arr)
	require.Error(t, err)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, []string{"for array index 1", "for array index 0"}, convErr.Path)
}
