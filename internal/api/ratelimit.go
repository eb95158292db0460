// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimitedTransport paces outgoing requests so a burst of UI actions
// cannot hammer the backend.
type rateLimitedTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

func newRateLimitedTransport(perSecond float64, burst int, next http.RoundTripper) http.RoundTripper {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedTransport{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		next:    next,
	}
}

// RoundTrip waits for a token, honouring the request context.
func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
