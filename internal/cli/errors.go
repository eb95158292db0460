// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - error types, exit codes and error display.
//
// Handlers return errors and never print-and-swallow them. The caller in
// main decides how to display them and which exit code to use.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/config"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitAuthError     = 4
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ValidationError is bad user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ErrMissingArgument reports a required positional argument.
func ErrMissingArgument(name, usage string) error {
	return &ValidationError{Field: name, Reason: "required (usage: " + usage + ")"}
}

// ErrUnknownSubcommand reports a subcommand the command does not have.
func ErrUnknownSubcommand(command, sub string) error {
	return &ValidationError{Reason: fmt.Sprintf("unknown %s subcommand %q (see 'propmatch help')", command, sub)}
}

// ErrNotSignedIn is returned by commands that need a session.
var ErrNotSignedIn = errors.New("not signed in (run 'propmatch login')")

// ErrNoMatch is returned when a lookup finds nothing.
var ErrNoMatch = errors.New("no matching entry")

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w in the requested format. Backend failures
// use the same wording as the terminal UI.
func DisplayError(w io.Writer, cmd Command, err error, jsonMode bool) {
	if err == nil {
		return
	}
	msg := UserMessage(err)
	if jsonMode {
		resp := NewJSONErrorResponseStr(cmd.String(), msg)
		resp.ErrorType = errorType(err)
		_ = resp.Write(w)
		return
	}
	printError(w, msg)
}

// UserMessage returns the message shown for err.
func UserMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) || isNetwork(err) {
		if detail := api.DetailOf(err); detail != "" {
			return detail
		}
		return api.Classify(err, "request").Message
	}
	return err.Error()
}

// GetExitCode maps err to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var validationErr *ValidationError
	var configErrs config.ValidateErrors
	switch {
	case errors.As(err, &validationErr):
		return ExitUsageError
	case errors.As(err, &configErrs):
		return ExitConfigError
	case errors.Is(err, ErrNotSignedIn),
		errors.Is(err, session.ErrNotAuthenticated),
		api.IsAuthRejected(err):
		return ExitAuthError
	case errors.Is(err, api.ErrNotFound), errors.Is(err, ErrNoMatch):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case isNetwork(err):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

func errorType(err error) string {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.Is(err, storage.ErrUnavailable):
		return "storage_error"
	case GetExitCode(err) == ExitAuthError:
		return "auth_error"
	case GetExitCode(err) == ExitNetworkError:
		return "network_error"
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return "api_error"
		}
		return "generic_error"
	}
}

func isNetwork(err error) bool {
	var netErr net.Error
	var opErr *net.OpError
	return errors.As(err, &netErr) || errors.As(err, &opErr)
}
