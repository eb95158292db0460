// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
)

// Endpoint paths.
const (
	PathLogin              = "/api/auth/login"
	PathGoogleLogin        = "/api/auth/google"
	PathRegister           = "/api/auth/register"
	PathProfile            = "/api/user/profile"
	PathChangePassword     = "/api/user/change-password"
	PathUsage              = "/api/user/usage"
	PathCancelSubscription = "/payment/cancel-subscription"
)

// MinPasswordLength is enforced client-side before a password change.
const MinPasswordLength = 8

// Credentials is an email/password login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleIdentity is the identity returned by Google sign-in.
type GoogleIdentity struct {
	GoogleID  string `json:"google_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Registration is a new account request.
type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Validate checks the registration before it is sent. confirm is the
// repeated password. The messages are shown to the user as is.
func (r Registration) Validate(confirm string) error {
	switch {
	case strings.TrimSpace(r.Email) == "" || r.Password == "":
		return errors.New("Email and password are required.")
	case r.Password != confirm:
		return errors.New("Passwords do not match.")
	case len([]rune(r.Password)) < MinPasswordLength:
		return fmt.Errorf("Password must be at least %d characters long.", MinPasswordLength)
	}
	return nil
}

// AuthResponse is the body of a successful login.
type AuthResponse struct {
	User  profile.Profile `json:"user"`
	Token string          `json:"token"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Message string
	// Fields holds the whole response object.
	Fields map[string]any
}

// UsageEntry is one metered feature. Limit -1 means unlimited.
type UsageEntry struct {
	Used    int `json:"used"`
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

// Count returns the consumed amount regardless of which field was sent.
func (u UsageEntry) Count() int {
	if u.Used > u.Current {
		return u.Used
	}
	return u.Current
}

// Unlimited reports whether the feature has no cap.
func (u UsageEntry) Unlimited() bool { return u.Limit < 0 }

// Percent returns usage as a percentage of the limit, 0 when unlimited.
func (u UsageEntry) Percent() float64 {
	if u.Limit <= 0 {
		return 0
	}
	return float64(u.Count()) / float64(u.Limit) * 100
}

// Usage is the body of GET /api/user/usage.
type Usage struct {
	Usage map[string]UsageEntry `json:"usage"`
}

// Keys returns the feature names sorted.
func (u *Usage) Keys() []string {
	keys := make([]string, 0, len(u.Usage))
	for k := range u.Usage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Login exchanges credentials for a user and token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, errors.New("email and password are required")
	}
	return c.authenticate(ctx, PathLogin, creds)
}

// GoogleLogin signs in with a Google identity.
func (c *Client) GoogleLogin(ctx context.Context, id GoogleIdentity) (*AuthResponse, error) {
	if id.GoogleID == "" || id.Email == "" {
		return nil, errors.New("google id and email are required")
	}
	return c.authenticate(ctx, PathGoogleLogin, id)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("%w: login response lacks user or token", ErrMalformedResponse)
	}
	return &out, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, reg Registration) (*RegisterResponse, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Email == "" || reg.Password == "" {
		return nil, errors.New("email and password are required")
	}
	var out map[string]any
	if err := c.do(ctx, request{method: http.MethodPost, path: PathRegister, body: reg}, &out); err != nil {
		return nil, err
	}
	msg, _ := out["message"].(string)
	if msg == "" {
		msg = "Registration successful. Please log in."
	}
	return &RegisterResponse{Message: msg, Fields: out}, nil
}

// Profile fetches the current user. When token is non-empty it is sent
// explicitly so the response belongs to that session even if the attached
// credential has since changed.
func (c *Client) Profile(ctx context.Context, token string) (profile.Profile, error) {
	var out struct {
		User profile.Profile `json:"user"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: PathProfile, token: token}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("%w: profile response lacks user", ErrMalformedResponse)
	}
	return out.User, nil
}

// UpdateProfile sends changed profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (profile.Profile, error) {
	var out struct {
		User profile.Profile `json:"user"`
	}
	if err := c.do(ctx, request{method: http.MethodPut, path: PathProfile, body: fields}, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("%w: update response lacks user", ErrMalformedResponse)
	}
	return out.User, nil
}

// ChangePassword validates the new password locally, then submits it.
func (c *Client) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		return errors.New("New passwords do not match")
	}
	if len([]rune(next)) < MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters long", MinPasswordLength)
	}
	body := map[string]string{"current_password": current, "new_password": next}
	return c.do(ctx, request{method: http.MethodPost, path: PathChangePassword, body: body}, nil)
}

// Usage fetches metered feature usage for the current billing period.
func (c *Client) Usage(ctx context.Context) (*Usage, error) {
	var out Usage
	if err := c.do(ctx, request{method: http.MethodGet, path: PathUsage}, &out); err != nil {
		return nil, err
	}
	if out.Usage == nil {
		out.Usage = map[string]UsageEntry{}
	}
	return &out, nil
}

// CancelSubscription cancels the paid plan at the end of the billing period.
func (c *Client) CancelSubscription(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: PathCancelSubscription}, nil)
}
