// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the propmatch command line.
//
// With no command propmatch starts the terminal UI. The one-shot commands
// (login, logout, status, history, account, config) share the same session
// store, so a login from the command line is picked up by a running UI and
// a logout from either ends the session everywhere.
//
// Every command accepts --json and then writes a single JSONResponse
// envelope to stdout. Errors are returned to main, which displays them with
// DisplayError and exits with GetExitCode.
package cli
