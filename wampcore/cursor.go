// SPDX-License-Identifier: Apache-2.0

package wampcore

// Cursor references a node in a TokenTrieMap. The zero Cursor and any
// Cursor returned for a past-the-end position are "sentinel": Valid
// reports false and all accessors return zero values.
type Cursor struct {
	trie *TokenTrieMap
	node *node
}

// Valid reports whether the cursor references a real, value-bearing node.
func (c Cursor) Valid() bool { return c.node != nil && c.node.hasValue }

// Key reconstructs the token sequence leading to this cursor's node.
func (c Cursor) Key() []string {
	if c.node == nil {
		return nil
	}
	var rev []string
	for n := c.node; n != nil && n.parent != nil; n = n.parent {
		rev = append(rev, n.token)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// Value returns the value at this cursor's node, or nil if the cursor is
// not valid.
func (c Cursor) Value() interface{} {
	if !c.Valid() {
		return nil
	}
	return c.node.value
}

// Root returns a cursor at the trie's root (the empty-key node).
func (t *TokenTrieMap) Root() Cursor { return Cursor{trie: t, node: t.root} }

// First returns a cursor at the lexicographically first value-bearing node,
// or Sentinel if the trie is empty.
func (t *TokenTrieMap) First() Cursor {
	return t.firstValueAtOrUnder(t.root)
}

// Sentinel returns the past-the-end cursor.
func (t *TokenTrieMap) Sentinel() Cursor { return Cursor{trie: t, node: nil} }

// Descend moves to the child reached by token, if any.
func (c Cursor) Descend(token string) (Cursor, bool) {
	if c.node == nil {
		return c, false
	}
	idx, exact := c.trie.childIndex(c.node, token)
	if !exact {
		return c, false
	}
	return Cursor{trie: c.trie, node: c.node.children[idx]}, true
}

// Ascend moves to the parent node, if any (the root has none).
func (c Cursor) Ascend() (Cursor, bool) {
	if c.node == nil || c.node.parent == nil {
		return c, false
	}
	return Cursor{trie: c.trie, node: c.node.parent}, true
}

// NextSibling moves to the next child of this node's parent in token order,
// the building block for a caller-driven breadth-first traversal within a
// level.
func (c Cursor) NextSibling() (Cursor, bool) {
	if c.node == nil || c.node.parent == nil {
		return c, false
	}
	idx := indexOfChild(c.node.parent, c.node)
	if idx < 0 || idx+1 >= len(c.node.parent.children) {
		return c, false
	}
	return Cursor{trie: c.trie, node: c.node.parent.children[idx+1]}, true
}

// FirstChild moves to the first child in token order, if any.
func (c Cursor) FirstChild() (Cursor, bool) {
	if c.node == nil || len(c.node.children) == 0 {
		return c, false
	}
	return Cursor{trie: c.trie, node: c.node.children[0]}, true
}

// NextDFSNode advances to the next node in preorder, regardless of whether
// it carries a value, or Sentinel if c was the last node.
func (c Cursor) NextDFSNode() Cursor {
	if c.node == nil {
		return c
	}
	if len(c.node.children) > 0 {
		return Cursor{trie: c.trie, node: c.node.children[0]}
	}
	n := c.node
	for n.parent != nil {
		idx := indexOfChild(n.parent, n)
		if idx+1 < len(n.parent.children) {
			return Cursor{trie: c.trie, node: n.parent.children[idx+1]}
		}
		n = n.parent
	}
	return c.trie.Sentinel()
}

// NextDFSValue advances to the next value-bearing node in lexicographic
// order, or Sentinel if c was the last.
func (c Cursor) NextDFSValue() Cursor {
	if c.node == nil {
		return c
	}
	return c.trie.nextValuePreorder(c.node)
}
