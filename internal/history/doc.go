// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history tracks property searches: the search session in progress,
// the query being worked on and a bounded, de-duplicated history of
// completed searches.
//
// The search session is unrelated to the login session. It lives under its
// own keys in the same store, has a 24 hour inactivity window and survives
// logout.
package history
