// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"context"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wampunpack"
)

// Invocation is the payload delivered to a call handler on INVOCATION (spec
// §4.3.3).
type Invocation struct {
	RequestID      uint64
	RegistrationID uint64
	Args           []wamp.Variant
	Kwargs         wamp.Variant
	ReceiveProgress bool
}

// CallHandler is a dynamic call handler returning one of
// Result/Error/Deferred (wampunpack.Outcome). Static (typed) handlers are
// built on top via wampunpack.UnpackN, matching the raw Args into Go
// parameters before delegating here.
type CallHandler func(ctx context.Context, inv Invocation) wampunpack.Outcome

// InterruptHandler is notified when the router relays an INTERRUPT for a
// call this session has not yet completed (spec §4.3.3, call cancellation).
type InterruptHandler func(ctx context.Context, requestID uint64)
