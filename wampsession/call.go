// SPDX-License-Identifier: Apache-2.0

package wampsession

import "github.com/xmidt-org/gowamp"

// CancelMode selects how CancelCall asks the router to unwind an
// in-flight CALL (spec §4.3.3).
type CancelMode int

const (
	CancelKill CancelMode = iota
	CancelKillNoWait
	CancelSkip
)

func (m CancelMode) String() string {
	switch m {
	case CancelKillNoWait:
		return "killnowait"
	case CancelSkip:
		return "skip"
	default:
		return "kill"
	}
}

// CallOptions configures an outbound CALL.
type CallOptions struct {
	ReceiveProgress bool
	Disclose        bool
	DiscloseSet     bool
	// OnProgress, if set, is invoked for every progressive YIELD the callee
	// sends before the terminal one.
	OnProgress func(CallResult)
}

// PublishOptions configures an outbound PUBLISH.
type PublishOptions struct {
	Acknowledge bool
	Disclose    bool
	DiscloseSet bool
}

// CallResult is the positional/keyword payload of a successful RESULT.
type CallResult struct {
	Args   []wamp.Variant
	Kwargs wamp.Variant
}
