// SPDX-License-Identifier: Apache-2.0

package wampcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenTrieMapInsertFind(t *testing.T) {
	trie := New()

	_, inserted := trie.Insert([]string{"com", "example", "add"}, 1)
	assert.True(t, inserted)
	assert.Equal(t, 1, trie.Len())

	_, inserted = trie.Insert([]string{"com", "example", "add"}, 2)
	assert.False(t, inserted, "duplicate insert must not overwrite")

	c, ok := trie.Find([]string{"com", "example", "add"})
	require.True(t, ok)
	assert.Equal(t, 1, c.Value())

	_, ok = trie.Find([]string{"com", "example"})
	assert.False(t, ok, "intermediate prefix node carries no value")

	assert.True(t, trie.Contains([]string{"com", "example", "add"}))
	assert.Equal(t, 1, trie.Count([]string{"com", "example", "add"}))
	assert.Equal(t, 0, trie.Count([]string{"com", "example"}))
}

func TestTokenTrieMapInsertOrAssign(t *testing.T) {
	trie := New()
	trie.Insert([]string{"a"}, 1)
	c, inserted := trie.InsertOrAssign([]string{"a"}, 2)
	assert.False(t, inserted)
	assert.Equal(t, 2, c.Value())
}

func TestTokenTrieMapErasePrunesLeaves(t *testing.T) {
	trie := New()
	trie.Insert([]string{"a", "b"}, 1)
	c, _ := trie.Find([]string{"a", "b"})
	trie.Erase(c)

	assert.Equal(t, 0, trie.Len())
	assert.False(t, trie.Contains([]string{"a", "b"}))

	// The intermediate "a" node, now a valueless leaf, must have been
	// pruned so a fresh insert under a different subtree doesn't see it.
	_, inserted := trie.Insert([]string{"a", "c"}, 2)
	assert.True(t, inserted)
	assert.Equal(t, 1, trie.Len())
}

func TestTokenTrieMapRange(t *testing.T) {
	trie := New()
	for i, key := range [][]string{{"a"}, {"a", "b"}, {"a", "c"}, {"b"}} {
		trie.Insert(key, i)
	}

	lb := trie.LowerBound([]string{"a", "b"})
	require.True(t, lb.Valid())
	assert.Equal(t, []string{"a", "b"}, lb.Key())

	ub := trie.UpperBound([]string{"a", "b"})
	require.True(t, ub.Valid())
	assert.Equal(t, []string{"a", "c"}, ub.Key())

	start, end := trie.EqualRange([]string{"a"})
	require.True(t, start.Valid())
	require.True(t, end.Valid())
	assert.Equal(t, []string{"a"}, start.Key())
	assert.Equal(t, []string{"a", "b"}, end.Key())
}

func TestTokenTrieMapFirstAndDFSOrder(t *testing.T) {
	trie := New()
	keys := [][]string{{"b"}, {"a", "c"}, {"a", "b"}, {"a"}}
	for i, key := range keys {
		trie.Insert(key, i)
	}

	var ordered [][]string
	for c := trie.First(); c.Valid(); c = c.NextDFSValue() {
		ordered = append(ordered, c.Key())
	}

	assert.Equal(t, [][]string{{"a"}, {"a", "b"}, {"a", "c"}, {"b"}}, ordered)
}

func TestTokenTrieMapCursorDescendAscend(t *testing.T) {
	trie := New()
	trie.Insert([]string{"a", "b"}, 42)

	root := trie.Root()
	a, ok := root.Descend("a")
	require.True(t, ok)
	b, ok := a.Descend("b")
	require.True(t, ok)
	assert.Equal(t, 42, b.Value())

	back, ok := b.Ascend()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, back.Key())
}
