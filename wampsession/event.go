// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"

	"github.com/xmidt-org/gowamp"
)

// Event is the payload delivered to a subscription handler on EVENT (spec
// §3.2, §4.3.2): the originating subscription and publication ids plus the
// positional/keyword payload, value-moved per §5's no-aliasing rule.
type Event struct {
	SubscriptionID uint64
	PublicationID  uint64
	Args           []wamp.Variant
	Kwargs         wamp.Variant
}

// EventHandler is a dynamic subscription handler: the raw Args/Kwargs, no
// static unpacking. Static (typed) handler slots are built on top of this
// via wampunpack in caller code.
type EventHandler func(ctx context.Context, event Event)

// MatchPolicy selects how a subscribe/register URI is matched against
// incoming traffic -- the WAMP advanced-profile match policies, tracked
// locally via TokenTrieMap prefix lookups (spec §2's "consulting the
// TokenTrieMap when pattern matching is active").
type MatchPolicy int

const (
	MatchExact MatchPolicy = iota
	MatchPrefix
	MatchWildcard
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchPrefix:
		return "prefix"
	case MatchWildcard:
		return "wildcard"
	default:
		return "exact"
	}
}
