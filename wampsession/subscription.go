// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"strings"
	"sync/atomic"

	"github.com/xmidt-org/gowamp/wampcore"
)

// Subscription is the handle returned by Subscribe. unsubscribe() removes
// exactly the slot this handle refers to.
type Subscription struct {
	topic  string
	slotID uint64
}

// Topic returns the subscribed URI.
func (s *Subscription) Topic() string { return s.topic }

type subSlot struct {
	id      uint64
	handler EventHandler
}

// subEntry is the per-topic bookkeeping record: the router-assigned
// subscription id plus every local slot registered against it. Multiple
// local Subscribe calls for the same topic share one wire SUBSCRIBE and one
// sub_id (spec §4.3.2).
type subEntry struct {
	topic  string
	subID  uint64
	policy MatchPolicy
	slots  []*subSlot
}

func splitURI(uri string) []string { return strings.Split(uri, ".") }

// subscriptionTable holds every local subscription, indexed both by topic
// (a TokenTrieMap keyed on dot-split tokens, enabling prefix enumeration)
// and by router-assigned sub_id (a plain map, for O(1) EVENT dispatch).
type subscriptionTable struct {
	byTopic  *wampcore.TokenTrieMap
	byID     map[uint64]*subEntry
	nextSlot atomic.Uint64
}

func newSubscriptionTable() *subscriptionTable {
	return &subscriptionTable{
		byTopic: wampcore.New(),
		byID:    make(map[uint64]*subEntry),
	}
}

func (t *subscriptionTable) find(topic string) (*subEntry, bool) {
	cur, ok := t.byTopic.Find(splitURI(topic))
	if !ok {
		return nil, false
	}
	return cur.Value().(*subEntry), true
}

func (t *subscriptionTable) insert(entry *subEntry) {
	t.byTopic.InsertOrAssign(splitURI(entry.topic), entry)
	t.byID[entry.subID] = entry
}

func (t *subscriptionTable) remove(entry *subEntry) {
	cur, ok := t.byTopic.Find(splitURI(entry.topic))
	if ok {
		t.byTopic.Erase(cur)
	}
	delete(t.byID, entry.subID)
}

func (t *subscriptionTable) byEventSubID(subID uint64) (*subEntry, bool) {
	e, ok := t.byID[subID]
	return e, ok
}

// withPrefix lists every subscribed topic whose dot-split tokens start with
// prefix, in lexicographic order -- an administrative query built on
// TokenTrieMap's LowerBound/NextDFSValue, not part of the wire protocol.
func (t *subscriptionTable) withPrefix(prefix []string) []string {
	var out []string
	cur := t.byTopic.LowerBound(prefix)
	for cur.Valid() {
		key := cur.Key()
		if !hasTokenPrefix(key, prefix) {
			break
		}
		out = append(out, strings.Join(key, "."))
		cur = cur.NextDFSValue()
	}
	return out
}

func hasTokenPrefix(key, prefix []string) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i, tok := range prefix {
		if key[i] != tok {
			return false
		}
	}
	return true
}
