// SPDX-License-Identifier: Apache-2.0

package wamp

import "context"

// Observer taps messages flowing through a Peer, e.g. for logging or
// metrics. Observers never modify or reject a message; see wampsession for
// the dispatch logic that actually acts on message contents.
type Observer interface {
	ObserveWAMP(ctx context.Context, dir Direction, msg Message)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(ctx context.Context, dir Direction, msg Message)

func (f ObserverFunc) ObserveWAMP(ctx context.Context, dir Direction, msg Message) {
	f(ctx, dir, msg)
}

// Observers is a fan-out Observer: every element observes every message, in
// order, skipping nil entries. A canceled context stops the iteration.
type Observers []Observer

func (o Observers) ObserveWAMP(ctx context.Context, dir Direction, msg Message) {
	for _, obs := range o {
		if ctx.Err() != nil {
			return
		}
		if obs == nil {
			continue
		}
		obs.ObserveWAMP(ctx, dir, msg)
	}
}
