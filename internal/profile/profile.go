// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile holds the signed-in user's record as returned by the
// backend. The record is opaque: it is copied verbatim between memory, the
// credential store and the API, and only a handful of named fields are ever
// read for display.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/util"
)

// Field names read by the client.
const (
	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldEmail       = "email"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldPhoneNumber = "phone_number"
	FieldPlanType    = "plan_type"
	FieldPlanEndDate = "plan_end_date"
)

// DefaultTrialDays is shown when a trial account has no end date yet.
const DefaultTrialDays = 14

// ErrNotObject is returned by Parse when the input is not a JSON object.
var ErrNotObject = errors.New("profile is not a JSON object")

// Profile is the backend user object.
type Profile map[string]any

// Parse decodes a JSON object. Arrays, scalars and null are rejected.
func Parse(data []byte) (Profile, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok || obj == nil {
		return nil, ErrNotObject
	}
	return Profile(obj), nil
}

// Marshal encodes the profile as a JSON object.
func (p Profile) Marshal() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	return Profile(cloneValue(map[string]any(p)).(map[string]any))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// String returns a named field as a trimmed string. Numbers are formatted
// without exponent; anything else yields "".
func (p Profile) String(field string) string {
	switch v := p[field].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// Email returns the account email.
func (p Profile) Email() string { return p.String(FieldEmail) }

// ID returns the backend user id, falling back to user_id.
func (p Profile) ID() string {
	if id := p.String(FieldID); id != "" {
		return id
	}
	return p.String(FieldUserID)
}

// PlanType returns the plan name, lower-cased.
func (p Profile) PlanType() string {
	return strings.ToLower(p.String(FieldPlanType))
}

// IsTrial reports whether the account is on the free trial.
func (p Profile) IsTrial() bool { return p.PlanType() == "trial" }

// DisplayName is "First Last", then "First", then the local part of the
// email address, then "User".
func (p Profile) DisplayName() string {
	first := p.String(FieldFirstName)
	last := p.String(FieldLastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	}
	if email := p.Email(); email != "" {
		local, _, _ := strings.Cut(email, "@")
		if local != "" {
			return local
		}
	}
	return "User"
}

// Initials returns up to two upper-case letters for the avatar.
func (p Profile) Initials() string {
	first := util.FirstRune(p.String(FieldFirstName))
	last := util.FirstRune(p.String(FieldLastName))
	if first != "" || last != "" {
		return first + last
	}
	if e := util.FirstRune(p.Email()); e != "" {
		return e
	}
	return "U"
}

// PlanLabel is the human-readable plan name.
func (p Profile) PlanLabel() string {
	plan := p.PlanType()
	switch plan {
	case "":
		return "Free Trial"
	case "trial":
		return "Free Trial"
	default:
		// Casers are stateful; build one per call.
		return cases.Title(language.English).String(strings.ReplaceAll(plan, "_", " ")) + " Plan"
	}
}

// TrialDaysLeft returns whole days remaining in the trial, rounded up and
// never negative. Accounts without a parseable end date report
// DefaultTrialDays. Non-trial accounts report 0.
func (p Profile) TrialDaysLeft(now time.Time) int {
	if !p.IsTrial() {
		return 0
	}
	end, ok := p.planEnd()
	if !ok {
		return DefaultTrialDays
	}
	days := math.Ceil(end.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

var planEndLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (p Profile) planEnd() (time.Time, bool) {
	raw := p.String(FieldPlanEndDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range planEndLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
