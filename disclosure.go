// SPDX-License-Identifier: Apache-2.0

package wamp

import "errors"

// Disclosure governs whether a caller's or publisher's session id is
// disclosed to the consumer of an invocation or event.
type Disclosure uint8

const (
	DisclosurePreset Disclosure = iota
	DisclosureProducer
	DisclosureConsumer
	DisclosureEither
	DisclosureBoth
	DisclosureReveal
	DisclosureConceal
)

// ErrDiscloseMeDisallowed is returned when a producer requests disclosure
// but the router (or local policy) disallows it.
var ErrDiscloseMeDisallowed = errors.New("wamp: disclose_me disallowed")

// ErrOptionNotAllowed is returned when a consumer-side disclosure
// constraint rejects the request.
var ErrOptionNotAllowed = errors.New("wamp: disclosure option not allowed")

// Compose resolves the effective disclosure bit given a producer-requested
// bit p, a consumer-requested bit c, this Disclosure as the request-level
// policy, and outer as the session-level preset consulted when this policy
// is DisclosurePreset. producerDisallowed and consumerDisallowed are
// side-constraints checked before composition; either violated constraint
// rejects the request outright.
func (d Disclosure) Compose(p, c bool, outer Disclosure, producerDisallowed, consumerDisallowed bool) (bool, error) {
	if p && producerDisallowed {
		return false, ErrDiscloseMeDisallowed
	}
	if c && consumerDisallowed {
		return false, ErrOptionNotAllowed
	}

	policy := d
	if policy == DisclosurePreset {
		policy = outer
	}

	switch policy {
	case DisclosureProducer:
		return p, nil
	case DisclosureConsumer:
		return c, nil
	case DisclosureEither:
		return p || c, nil
	case DisclosureBoth:
		return p && c, nil
	case DisclosureReveal:
		return true, nil
	case DisclosureConceal, DisclosurePreset:
		fallthrough
	default:
		return false, nil
	}
}
