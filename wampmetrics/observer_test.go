// SPDX-License-Identifier: Apache-2.0

package wampmetrics

import (
	"context"
	"testing"

	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/touchstone"
)

func newTestFactory(t *testing.T) *touchstone.Factory {
	t.Helper()
	cfg := touchstone.Config{DefaultNamespace: "gowamp", DefaultSubsystem: "test"}
	_, pr, err := touchstone.New(cfg)
	require.NoError(t, err)
	return touchstone.NewFactory(cfg, sallust.Default(), pr)
}

func TestObserverCountsMessagesByDirectionAndType(t *testing.T) {
	observer, err := NewObserver(newTestFactory(t))
	require.NoError(t, err)

	hello := wamp.NewMessage(wamp.HelloMessageType, wamp.NewString("realm"), wamp.NewObject())
	observer.ObserveWAMP(context.Background(), wamp.DirectionClientToRouter, hello)
	observer.ObserveWAMP(context.Background(), wamp.DirectionClientToRouter, hello)

	metric := &io_prometheus_client.Metric{}
	require.NoError(t, observer.messagesTotal.WithLabelValues("client_to_router", wamp.HelloMessageType.String()).Write(metric))
	require.Equal(t, float64(2), metric.GetCounter().GetValue())
}
