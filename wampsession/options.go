// SPDX-License-Identifier: Apache-2.0

package wampsession

import (
	"time"

	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// options holds Session construction parameters set via Option. Defaults
// mirror the Open Question decisions recorded for this expansion: a 1s
// tunable goodbye-reply timeout, and exact-match subscription/registration
// lookup; no option selects prefix or wildcard matching.
type options struct {
	logger            *zap.Logger
	observer          wamp.Observer
	goodbyeTimeout    time.Duration
	format            wamp.Format
	codecOpts         []wamp.CodecOption
	disclosurePreset  wamp.Disclosure
	producerDisallow  bool
	consumerDisallow  bool
	handlerQueueDepth int
}

func defaultOptions() options {
	return options{
		logger:            sallust.Default(),
		goodbyeTimeout:    time.Second,
		format:            wamp.JSON,
		disclosurePreset:  wamp.DisclosureConceal,
		handlerQueueDepth: 64,
	}
}

// Option configures a Session at construction.
type Option func(*options)

// WithLogger overrides the default sallust logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver attaches a message observer shared with the underlying Peer.
func WithObserver(observer wamp.Observer) Option {
	return func(o *options) { o.observer = observer }
}

// WithGoodbyeTimeout overrides how long Leave waits for the router's
// GOODBYE reply before giving up and moving the session to Closed.
func WithGoodbyeTimeout(d time.Duration) Option {
	return func(o *options) { o.goodbyeTimeout = d }
}

// WithFormat selects the wire codec used to frame messages.
func WithFormat(f wamp.Format, opts ...wamp.CodecOption) Option {
	return func(o *options) {
		o.format = f
		o.codecOpts = opts
	}
}

// WithDisclosurePreset sets the session-level disclosure policy consulted
// when a request uses DisclosurePreset (spec §4.3.4).
func WithDisclosurePreset(d wamp.Disclosure) Option {
	return func(o *options) { o.disclosurePreset = d }
}

// WithDisclosureDisallowed marks producer and/or consumer disclosure
// requests as rejected outright, before policy composition.
func WithDisclosureDisallowed(producer, consumer bool) Option {
	return func(o *options) {
		o.producerDisallow = producer
		o.consumerDisallow = consumer
	}
}

// WithHandlerQueueDepth sets the buffer depth of the handler-dispatch
// executor channel (spec §5's "posting to the user-handler executor").
func WithHandlerQueueDepth(n int) Option {
	return func(o *options) { o.handlerQueueDepth = n }
}
