// SPDX-License-Identifier: Apache-2.0

// Package wampcore implements TokenTrieMap, the lexicographic prefix-trie
// map keyed by dot-split URI tokens used for routing incoming
// events/invocations against registered topic/procedure patterns (spec
// §3.5/§4.4). It favors intrusive parent pointers and an ordered child
// slice over a generic tree library so cursors stay valid across
// insert/erase and so lexicographic order falls directly out of sorted
// child order, matching the "build-then-attach" strong-exception-safety
// shape in cppwamp's tokentriemapimpl.hpp (original_source) -- Go has no
// exceptions to be safe against, but the same atomic attach-after-build
// avoids ever exposing a half-linked trie to a concurrent reader.
package wampcore

import "sort"

type node struct {
	parent   *node
	token    string
	children []*node
	hasValue bool
	value    interface{}
}

func (n *node) isLeaf() bool { return len(n.children) == 0 }

// TokenTrieMap maps a sequence of string tokens (a split URI) to an
// arbitrary value, ordered lexicographically over token sequences.
type TokenTrieMap struct {
	root *node
	size int
	less func(a, b string) bool
}

// Option configures a TokenTrieMap at construction.
type Option func(*TokenTrieMap)

// WithComparator overrides the default byte-wise token comparator.
func WithComparator(less func(a, b string) bool) Option {
	return func(t *TokenTrieMap) { t.less = less }
}

// New constructs an empty TokenTrieMap.
func New(opts ...Option) *TokenTrieMap {
	t := &TokenTrieMap{root: &node{}, less: func(a, b string) bool { return a < b }}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of value-bearing entries.
func (t *TokenTrieMap) Len() int { return t.size }

// childIndex returns the index of the first child whose token is >= tok,
// and whether that child's token equals tok exactly.
func (t *TokenTrieMap) childIndex(n *node, tok string) (int, bool) {
	idx := sort.Search(len(n.children), func(i int) bool {
		return !t.less(n.children[i].token, tok)
	})
	return idx, idx < len(n.children) && n.children[idx].token == tok
}

// walk follows key as far as exact matches allow, returning the deepest
// node reached and how many tokens were consumed.
func (t *TokenTrieMap) walk(key []string) (*node, int) {
	cur := t.root
	for i, tok := range key {
		idx, exact := t.childIndex(cur, tok)
		if !exact {
			return cur, i
		}
		cur = cur.children[idx]
	}
	return cur, len(key)
}

// attach inserts child into parent's sorted children slice and wires its
// parent pointer. Used both for single-node inserts and for attaching a
// pre-built detached chain (only the chain's head is passed here; the
// chain's internal parent pointers are already set by buildChain).
func (t *TokenTrieMap) attach(parent, child *node) {
	idx, _ := t.childIndex(parent, child.token)
	parent.children = append(parent.children, nil)
	copy(parent.children[idx+1:], parent.children[idx:])
	parent.children[idx] = child
	child.parent = parent
}

// buildChain constructs a detached linear chain of nodes for tokens,
// terminating in a value-bearing node, without touching the trie.
func buildChain(tokens []string, value interface{}) (head, tail *node) {
	head = &node{token: tokens[0]}
	cur := head
	for _, tok := range tokens[1:] {
		child := &node{token: tok, parent: cur}
		cur.children = []*node{child}
		cur = child
	}
	cur.hasValue = true
	cur.value = value
	return head, cur
}

func (t *TokenTrieMap) insert(key []string, value interface{}, overwrite bool) (Cursor, bool) {
	if len(key) == 0 {
		if !t.root.hasValue {
			t.root.hasValue = true
			t.root.value = value
			t.size++
			return Cursor{trie: t, node: t.root}, true
		}
		if overwrite {
			t.root.value = value
		}
		return Cursor{trie: t, node: t.root}, false
	}

	cur, consumed := t.walk(key)
	if consumed == len(key) {
		if !cur.hasValue {
			cur.hasValue = true
			cur.value = value
			t.size++
			return Cursor{trie: t, node: cur}, true
		}
		if overwrite {
			cur.value = value
		}
		return Cursor{trie: t, node: cur}, false
	}

	head, tail := buildChain(key[consumed:], value)
	t.attach(cur, head)
	t.size++
	return Cursor{trie: t, node: tail}, true
}

// Insert adds key->value only if key is absent. Returns the cursor at key's
// node and whether the insert happened.
func (t *TokenTrieMap) Insert(key []string, value interface{}) (Cursor, bool) {
	return t.insert(key, value, false)
}

// InsertOrAssign adds key->value, overwriting any existing value.
func (t *TokenTrieMap) InsertOrAssign(key []string, value interface{}) (Cursor, bool) {
	return t.insert(key, value, true)
}

// TryEmplace is an alias for Insert: Go has no lazy in-place constructor to
// avoid building value eagerly, so there is nothing distinct to offer here.
func (t *TokenTrieMap) TryEmplace(key []string, value interface{}) (Cursor, bool) {
	return t.Insert(key, value)
}

// Find looks up key exactly.
func (t *TokenTrieMap) Find(key []string) (Cursor, bool) {
	cur, consumed := t.walk(key)
	if consumed != len(key) || !cur.hasValue {
		return t.Sentinel(), false
	}
	return Cursor{trie: t, node: cur}, true
}

// Contains reports whether key has a value.
func (t *TokenTrieMap) Contains(key []string) bool {
	_, ok := t.Find(key)
	return ok
}

// Count returns 1 if key has a value, 0 otherwise (keys are unique).
func (t *TokenTrieMap) Count(key []string) int {
	if t.Contains(key) {
		return 1
	}
	return 0
}

func removeChild(parent, child *node) {
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}

// Erase removes the value at c's node, pruning any ancestor chain that
// becomes a valueless leaf, and returns a cursor at the next value-bearing
// node in lexicographic order.
func (t *TokenTrieMap) Erase(c Cursor) Cursor {
	n := c.node
	next := t.nextValuePreorder(n)
	if n.hasValue {
		n.hasValue = false
		n.value = nil
		t.size--
	}
	cur := n
	for cur.parent != nil && cur.isLeaf() && !cur.hasValue {
		p := cur.parent
		removeChild(p, cur)
		cur = p
	}
	return next
}

// firstValueAtOrUnder returns a cursor at n if it has a value, else the
// first value-bearing node in preorder under n. Every leaf in a well-formed
// trie has a value (valueless leaves are pruned on Erase), so this only
// returns Sentinel if n is nil or n's subtree holds no value at all (the
// root of an empty trie).
func (t *TokenTrieMap) firstValueAtOrUnder(n *node) Cursor {
	if n == nil {
		return t.Sentinel()
	}
	if n.hasValue {
		return Cursor{trie: t, node: n}
	}
	for _, child := range n.children {
		if c := t.firstValueAtOrUnder(child); c.node != nil {
			return c
		}
	}
	return t.Sentinel()
}

func indexOfChild(parent, child *node) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}

// nextValueAfterSubtree ascends from n looking for the next sibling branch,
// returning the first value-bearing node under it.
func (t *TokenTrieMap) nextValueAfterSubtree(n *node) Cursor {
	for n.parent != nil {
		p := n.parent
		idx := indexOfChild(p, n)
		if idx+1 < len(p.children) {
			return t.firstValueAtOrUnder(p.children[idx+1])
		}
		n = p
	}
	return t.Sentinel()
}

// nextValuePreorder returns the next value-bearing node after n in
// lexicographic (preorder) order.
func (t *TokenTrieMap) nextValuePreorder(n *node) Cursor {
	for _, child := range n.children {
		if c := t.firstValueAtOrUnder(child); c.node != nil {
			return c
		}
	}
	return t.nextValueAfterSubtree(n)
}

// LowerBound returns a cursor at the first value-bearing node whose key is
// not less than key.
func (t *TokenTrieMap) LowerBound(key []string) Cursor {
	cur := t.root
	for _, tok := range key {
		idx, exact := t.childIndex(cur, tok)
		if exact {
			cur = cur.children[idx]
			continue
		}
		if idx < len(cur.children) {
			return t.firstValueAtOrUnder(cur.children[idx])
		}
		return t.nextValueAfterSubtree(cur)
	}
	return t.firstValueAtOrUnder(cur)
}

// UpperBound returns a cursor at the first value-bearing node whose key is
// strictly greater than key.
func (t *TokenTrieMap) UpperBound(key []string) Cursor {
	lb := t.LowerBound(key)
	if lb.node == nil {
		return lb
	}
	if equalKey(lb.Key(), key) {
		return t.nextValuePreorder(lb.node)
	}
	return lb
}

// EqualRange returns (LowerBound(key), UpperBound(key)).
func (t *TokenTrieMap) EqualRange(key []string) (Cursor, Cursor) {
	return t.LowerBound(key), t.UpperBound(key)
}

func equalKey(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
