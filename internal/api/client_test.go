// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Options{BaseURL: server.URL + "/", MaxRetries: 2})
	c.backoff = func(int) time.Duration { return time.Millisecond }
	return c
}

// =============================================================================
// ENDPOINT TESTS
// =============================================================================

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathLogin, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body.Email)
		assert.Equal(t, "pw", body.Password)

		w.Write([]byte(`{"user":{"email":"a@b.c","plan_type":"trial"},"token":"tok"}`))
	})

	resp, err := c.Login(context.Background(), Credentials{Email: " a@b.c ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a@b.c", resp.User.Email())
}

func TestLogin_RejectedCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid email or password"}`))
	})

	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "bad"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", DetailOf(err))
}

func TestLogin_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"email":"a@b.c"}}`))
	})
	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLogin_RequiresInput(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:0"})
	_, err := c.Login(context.Background(), Credentials{Email: " ", Password: "pw"})
	assert.Error(t, err)
}

func TestGoogleLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathGoogleLogin, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "g-1", body["google_id"])
		assert.Equal(t, "Jane", body["first_name"])
		w.Write([]byte(`{"user":{"email":"j@x.y"},"token":"gtok"}`))
	})

	resp, err := c.GoogleLogin(context.Background(), GoogleIdentity{GoogleID: "g-1", Email: "j@x.y", FirstName: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "gtok", resp.Token)
}

func TestRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathRegister, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasPhone := body["phone_number"]
		assert.False(t, hasPhone, "empty optional fields are omitted")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":7,"email":"n@x.y","message":"User created"}`))
	})

	resp, err := c.Register(context.Background(), Registration{Email: "n@x.y", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "User created", resp.Message)
	assert.Equal(t, "n@x.y", resp.Fields["email"])
}

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		reg     Registration
		confirm string
		want    string
	}{
		{Registration{Email: "a@b.c", Password: "password1"}, "password1", ""},
		{Registration{Email: "  ", Password: "password1"}, "password1", "Email and password are required."},
		{Registration{Email: "a@b.c", Password: "password1"}, "password2", "Passwords do not match."},
		{Registration{Email: "a@b.c", Password: "pässwör"}, "pässwör", "Password must be at least 8 characters long."},
	}
	for _, tt := range tests {
		err := tt.reg.Validate(tt.confirm)
		if tt.want == "" {
			assert.NoError(t, err)
			continue
		}
		require.Error(t, err)
		assert.Equal(t, tt.want, err.Error())
	}
}

func TestChangePassword_ValidatesLocally(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, PathChangePassword, r.URL.Path)
		w.Write([]byte(`{"message":"ok"}`))
	})
	ctx := context.Background()

	assert.Error(t, c.ChangePassword(ctx, "old", "newpassword", "different"))
	assert.Error(t, c.ChangePassword(ctx, "old", "short", "short"))
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, c.ChangePassword(ctx, "old", "newpassword", "newpassword"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpdateProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte(`{"user":{"email":"a@b.c","first_name":"New"}}`))
	})
	p, err := c.UpdateProfile(context.Background(), map[string]any{"first_name": "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", p.String("first_name"))
}

func TestUsage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"usage":{"searches":{"used":9,"limit":10},"reports":{"current":1,"limit":-1}}}`))
	})
	u, err := c.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"reports", "searches"}, u.Keys())
	assert.InDelta(t, 90.0, u.Usage["searches"].Percent(), 0.001)
	assert.True(t, u.Usage["reports"].Unlimited())
	assert.Equal(t, 1, u.Usage["reports"].Count())
}

func TestCancelSubscription(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathCancelSubscription, r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"No active subscription"}`))
	})
	err := c.CancelSubscription(context.Background())
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "No active subscription", DetailOf(err))
}

// =============================================================================
// RETRY TESTS
// =============================================================================

func TestRetry_GETRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"user":{"email":"a@b.c"}}`))
	})

	p, err := c.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", p.Email())
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetry_GivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Profile(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetry_NeverRetries4xxOrPOST(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Profile(context.Background(), "tok")
	assert.True(t, IsAuthRejected(err))
	assert.Equal(t, int32(1), calls.Load())

	_, err = c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetry_HonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Profile(ctx, "tok")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, calculateBackoff(1))
	assert.Equal(t, time.Second, calculateBackoff(2))
	assert.Equal(t, 2*time.Second, calculateBackoff(3))
	assert.Equal(t, retryMaxDelay, calculateBackoff(10))
}

// =============================================================================
// ERROR DECODING TESTS
// =============================================================================

func TestNewError_DetailShapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
		object bool
	}{
		{"string", `{"detail":"Nope"}`, "Nope", false},
		{"object", `{"detail":{"message":"Limit hit","usage_info":{"limit":5}}}`, "Limit hit", true},
		{"validation list", `{"detail":[{"msg":"field required"},{"msg":"bad email"}]}`, "field required; bad email", false},
		{"message only", `{"message":"Oops"}`, "Oops", false},
		{"not json", `<html>502</html>`, "<html>502</html>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newError(400, []byte(tt.body))
			assert.Equal(t, tt.detail, e.Detail)
			assert.Equal(t, tt.object, e.DetailObject != nil)
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &Error{Status: 401}, ErrUnauthorized)
	assert.ErrorIs(t, &Error{Status: 403}, ErrForbidden)
	assert.ErrorIs(t, &Error{Status: 404}, ErrNotFound)
	assert.ErrorIs(t, &Error{Status: 429}, ErrRateLimited)
	assert.ErrorIs(t, &Error{Status: 503}, ErrServer)
	assert.ErrorIs(t, &Error{Status: 422}, ErrBadRequest)
	assert.True(t, strings.Contains((&Error{Status: 418}).Error(), "418"))
}

func TestReadResponse_Limit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"usage":{},"pad":"`))
		w.Write([]byte(strings.Repeat("x", MaxResponseSize)))
		w.Write([]byte(`"}`))
	})
	_, err := c.Usage(context.Background())
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}
