// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisclosureComposePolicies(t *testing.T) {
	cases := []struct {
		name     string
		policy   Disclosure
		outer    Disclosure
		p, c     bool
		expected bool
	}{
		{"producer policy honors producer flag", DisclosureProducer, DisclosureConceal, true, false, true},
		{"consumer policy honors consumer flag", DisclosureConsumer, DisclosureConceal, false, true, true},
		{"either policy is an OR", DisclosureEither, DisclosureConceal, true, false, true},
		{"both policy is an AND", DisclosureBoth, DisclosureConceal, true, false, false},
		{"reveal always discloses", DisclosureReveal, DisclosureConceal, false, false, true},
		{"conceal never discloses", DisclosureConceal, DisclosureReveal, true, true, false},
		{"preset falls through to outer", DisclosurePreset, DisclosureReveal, false, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.policy.Compose(tc.p, tc.c, tc.outer, false, false)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDisclosureComposeRejectsDisallowedProducer(t *testing.T) {
	_, err := DisclosureReveal.Compose(true, false, DisclosureConceal, true, false)
	assert.ErrorIs(t, err, ErrDiscloseMeDisallowed)
}

func TestDisclosureComposeRejectsDisallowedConsumer(t *testing.T) {
	_, err := DisclosureReveal.Compose(false, true, DisclosureConceal, false, true)
	assert.ErrorIs(t, err, ErrOptionNotAllowed)
}
