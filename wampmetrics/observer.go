// SPDX-License-Identifier: Apache-2.0

// Package wampmetrics instruments a Peer/Session with Prometheus metrics via
// touchstone, the same factory-based wiring the teacher's wrpvalidator
// package uses for its UTF8 validator counter.
package wampmetrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/touchstone"
)

const (
	metricPrefix = "gowamp_"

	messagesTotalName = metricPrefix + "messages_total"
	messagesTotalHelp = "the total number of WAMP messages observed, by direction and message type"
)

// Observer counts WAMP messages flowing through a Peer by direction and
// message type. It implements wamp.Observer so it plugs directly into
// wamppeer.WithObserver/wampsession.WithObserver.
type Observer struct {
	messagesTotal *prometheus.CounterVec
}

// NewObserver builds an Observer, registering its metrics with f.
func NewObserver(f *touchstone.Factory) (*Observer, error) {
	messagesTotal, err := f.NewCounterVec(
		prometheus.CounterOpts{
			Name: messagesTotalName,
			Help: messagesTotalHelp,
		},
		"direction", "type",
	)
	if err != nil {
		return nil, err
	}
	return &Observer{messagesTotal: messagesTotal}, nil
}

func (o *Observer) ObserveWAMP(ctx context.Context, dir wamp.Direction, msg wamp.Message) {
	o.messagesTotal.WithLabelValues(directionLabel(dir), msg.Type.String()).Inc()
}

func directionLabel(dir wamp.Direction) string {
	switch dir {
	case wamp.DirectionClientToRouter:
		return "client_to_router"
	case wamp.DirectionRouterToClient:
		return "router_to_client"
	default:
		return "unknown"
	}
}
