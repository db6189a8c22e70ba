// SPDX-License-Identifier: Apache-2.0

package wamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeMessageRoundTrip(t *testing.T) {
	msg := NewMessage(SubscribeMessageType, NewUint(123), NewObject(), NewString("com.example.topic"))

	for _, f := range AllFormats() {
		data, err := EncodeMessage(msg, f)
		require.NoError(t, err)

		decoded, err := DecodeMessage(data, f)
		require.NoError(t, err)
		assert.Equal(t, msg.Type, decoded.Type)
		require.Len(t, decoded.Fields, 3)
		assert.True(t, msg.Fields[0].Equal(decoded.Fields[0]))
		assert.True(t, msg.Fields[2].Equal(decoded.Fields[2]))
	}
}

func TestDecodeMessageRejectsNonArray(t *testing.T) {
	data, err := EncodeToBytes(NewString("not a message"), JSON)
	require.NoError(t, err)

	_, err = DecodeMessage(data, JSON)
	assert.Error(t, err)
}
