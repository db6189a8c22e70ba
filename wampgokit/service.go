// SPDX-License-Identifier: Apache-2.0

// Package wampgokit adapts wampsession.CallHandler to a go-kit Service/
// endpoint.Endpoint, the same shape the teacher's wrpendpoint package gives
// WRP request/response handling, so go-kit middleware (logging, rate
// limiting, circuit breaking) composes around a registered procedure the
// same way it would around any other go-kit service.
package wampgokit

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wampsession"
	"github.com/xmidt-org/gowamp/wampunpack"
)

// Service represents a component that processes WAMP invocations.
type Service interface {
	ServeCall(ctx context.Context, inv wampsession.Invocation) (wampunpack.Outcome, error)
}

// ServiceFunc is a function type that implements Service.
type ServiceFunc func(context.Context, wampsession.Invocation) (wampunpack.Outcome, error)

func (sf ServiceFunc) ServeCall(ctx context.Context, inv wampsession.Invocation) (wampunpack.Outcome, error) {
	return sf(ctx, inv)
}

// New constructs a go-kit endpoint for the given Service. The endpoint's
// request/response values are always wampsession.Invocation and
// wampunpack.Outcome.
func New(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return s.ServeCall(ctx, request.(wampsession.Invocation))
	}
}

// Wrap does the opposite of New: it takes a go-kit endpoint and returns a
// Service that invokes it.
func Wrap(e endpoint.Endpoint) Service {
	return ServiceFunc(func(ctx context.Context, inv wampsession.Invocation) (wampunpack.Outcome, error) {
		response, err := e(ctx, inv)
		if err != nil {
			return wampunpack.Outcome{}, err
		}
		return response.(wampunpack.Outcome), nil
	})
}

// AsCallHandler adapts a Service into a wampsession.CallHandler, turning a Go
// error from the Service into an Outcome error reply rather than propagating
// a panic through the session's handler executor.
func AsCallHandler(s Service) wampsession.CallHandler {
	return func(ctx context.Context, inv wampsession.Invocation) wampunpack.Outcome {
		outcome, err := s.ServeCall(ctx, inv)
		if err != nil {
			return wampunpack.Error("wamp.error.runtime_error", nil, wamp.Null())
		}
		return outcome
	}
}
