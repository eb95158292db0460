// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Failure is an API error translated for the user.
type Failure struct {
	Message   string
	Retryable bool
	// UpgradePrompt asks the user to move to a paid plan.
	UpgradePrompt bool
	Upgrade       *UpgradeInfo
	Status        int
}

// UpgradeInfo describes the usage limit that was hit.
type UpgradeInfo struct {
	UsageType    string
	DisplayName  string
	Current      int
	Limit        int
	TrialExpired bool
}

const failurePrefix = "Request failed. "

// Classify maps err to a Failure. feature names the action for usage-limit
// messages ("search", "report").
func Classify(err error, feature string) Failure {
	if feature == "" {
		feature = "feature"
	}
	var apiErr *Error
	switch {
	case err == nil:
		return Failure{}

	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return Failure{Message: failurePrefix + "Request timed out. Please try again.", Retryable: true}

	case errors.As(err, &apiErr):
		return classifyResponse(apiErr, feature)

	case isConnect(err):
		return Failure{Message: failurePrefix + "Cannot connect to server. Please check your connection.", Retryable: true}

	default:
		return Failure{Message: failurePrefix + err.Error()}
	}
}

func classifyResponse(e *Error, feature string) Failure {
	switch {
	case e.Status == 429:
		f := Failure{Status: e.Status, UpgradePrompt: true}
		if e.DetailObject == nil {
			f.Message = "You've reached your usage limit. Please upgrade your plan to continue."
			return f
		}
		usage, _ := e.DetailObject["usage_info"].(map[string]any)
		info := &UpgradeInfo{
			UsageType:    stringField(usage, "usage_type"),
			DisplayName:  stringField(usage, "display_name"),
			Current:      intField(usage, "current_count"),
			Limit:        intField(usage, "limit"),
			TrialExpired: e.DetailObject["trial_expired"] == true,
		}
		if info.DisplayName == "" {
			info.DisplayName = feature
		}
		f.Upgrade = info
		if info.TrialExpired {
			f.Message = "Your free trial has expired. Upgrade to a paid plan to continue using PropMatch."
		} else {
			f.Message = fmt.Sprintf("You've reached your %s limit (%d/%d). Upgrade your plan to continue using this feature.",
				strings.ToLower(info.DisplayName), info.Current, info.Limit)
		}
		return f

	case e.Status >= 500:
		return Failure{Message: failurePrefix + "Server error. Please try again later.", Retryable: true, Status: e.Status}

	default:
		msg := e.Detail
		if msg == "" {
			msg = "An unexpected error occurred."
		}
		return Failure{Message: failurePrefix + msg, Status: e.Status}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnect(err error) bool {
	var urlErr *url.Error
	var opErr *net.OpError
	return errors.As(err, &urlErr) || errors.As(err, &opErr)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
