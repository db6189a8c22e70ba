// SPDX-License-Identifier: Apache-2.0

package wampgokit

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/xmidt-org/gowamp/wampsession"
	"github.com/xmidt-org/gowamp/wampunpack"
)

// LoggingMiddleware logs the registration and request ids, duration, and
// outcome of every call
// a Service serves, following go-kit's standard middleware shape: a function
// from Service to Service so it composes with any other Service decorator.
func LoggingMiddleware(logger log.Logger) func(Service) Service {
	return func(next Service) Service {
		return ServiceFunc(func(ctx context.Context, inv wampsession.Invocation) (outcome wampunpack.Outcome, err error) {
			start := time.Now()
			defer func() {
				logger.Log(
					"registrationId", inv.RegistrationID,
					"requestId", inv.RequestID,
					"took", time.Since(start),
					"isError", outcome.IsError(),
					"err", err,
				)
			}()
			return next.ServeCall(ctx, inv)
		})
	}
}
