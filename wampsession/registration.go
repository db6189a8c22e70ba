// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"strings"

	"github.com/xmidt-org/gowamp/wampcore"
)

// Registration is the handle returned by Enroll.
type Registration struct {
	procedure string
	regID     uint64
}

// Procedure returns the registered URI.
func (r *Registration) Procedure() string { return r.procedure }

type regEntry struct {
	procedure string
	regID     uint64
	policy    MatchPolicy
	call      CallHandler
	interrupt InterruptHandler
}

// registrationTable mirrors subscriptionTable's shape: a TokenTrieMap keyed
// by procedure tokens for administrative prefix queries, plus a plain map
// keyed by router-assigned reg_id for O(1) INVOCATION dispatch. Unlike
// subscriptions, WAMP allows only one local handler per procedure.
type registrationTable struct {
	byProcedure *wampcore.TokenTrieMap
	byID        map[uint64]*regEntry
}

func newRegistrationTable() *registrationTable {
	return &registrationTable{
		byProcedure: wampcore.New(),
		byID:        make(map[uint64]*regEntry),
	}
}

func (t *registrationTable) find(procedure string) (*regEntry, bool) {
	cur, ok := t.byProcedure.Find(splitURI(procedure))
	if !ok {
		return nil, false
	}
	return cur.Value().(*regEntry), true
}

func (t *registrationTable) insert(entry *regEntry) {
	t.byProcedure.InsertOrAssign(splitURI(entry.procedure), entry)
	t.byID[entry.regID] = entry
}

func (t *registrationTable) remove(entry *regEntry) {
	cur, ok := t.byProcedure.Find(splitURI(entry.procedure))
	if ok {
		t.byProcedure.Erase(cur)
	}
	delete(t.byID, entry.regID)
}

func (t *registrationTable) byInvocationRegID(regID uint64) (*regEntry, bool) {
	e, ok := t.byID[regID]
	return e, ok
}

// withPrefix lists every registered procedure whose dot-split tokens start
// with prefix, in lexicographic order.
func (t *registrationTable) withPrefix(prefix []string) []string {
	var out []string
	cur := t.byProcedure.LowerBound(prefix)
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
