// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors, reachable from *Error through errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("usage limit reached")
	ErrServer       = errors.New("server error")

	// ErrMalformedResponse means a 2xx body lacked required fields.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrResponseTooLarge means the body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status int
	// Detail is the human-readable message from the body's "detail".
	Detail string
	// DetailObject holds "detail" when the backend sent an object, as it
	// does for usage limits.
	DetailObject map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps the status to a sentinel.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Status >= 500:
		return ErrServer
	case e.Status >= 400:
		return ErrBadRequest
	default:
		return nil
	}
}

// IsAuthRejected reports whether err means the token is no longer accepted.
func IsAuthRejected(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// DetailOf returns the backend's message for err, or "" when err is not a
// backend response.
func DetailOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// newError decodes the backend error body. "detail" may be a string, an
// object, or a list of validation errors.
func newError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		e.Detail = strings.TrimSpace(string(body))
		if len(e.Detail) > 200 {
			e.Detail = e.Detail[:200]
		}
		return e
	}

	var s string
	var obj map[string]any
	var list []map[string]any
	switch {
	case len(envelope.Detail) == 0 || string(envelope.Detail) == "null":
		e.Detail = envelope.Message
	case json.Unmarshal(envelope.Detail, &s) == nil:
		e.Detail = s
	case json.Unmarshal(envelope.Detail, &obj) == nil:
		e.DetailObject = obj
		for _, k := range []string{"message", "msg", "error"} {
			if v, ok := obj[k].(string); ok && v != "" {
				e.Detail = v
				break
			}
		}
	case json.Unmarshal(envelope.Detail, &list) == nil:
		var msgs []string
		for _, item := range list {
			if m, ok := item["msg"].(string); ok {
				msgs = append(msgs, m)
			}
		}
		e.Detail = strings.Join(msgs, "; ")
	}
	return e
}
