// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the PropMatch backend.
//
// One Client, and therefore one http.Client, is shared by the whole process.
// Its transport chain is
//
//	rate limiter -> BearerAuth -> http.Transport
//
// so once the session layer calls BearerAuth.Attach every request carries
// "Authorization: Bearer <token>" until Detach is called. A request that
// sets its own Authorization header keeps it.
//
// Failures come back as *Error, which unwraps to a sentinel per status class
// (ErrUnauthorized, ErrForbidden, ErrRateLimited, ...). Classify turns any
// error from this package into a message fit for the user.
package api
