// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

// Defaults.
const (
	DefaultTimeout       = 30 * time.Minute
	DefaultWarningBefore = 2 * time.Minute

	// DefaultActivityWriteInterval bounds how often pointer motion and
	// scrolling rewrite the persisted session_start. Key presses, pointer
	// presses and touches always write. The in-memory start and the timer
	// are updated on every signal regardless.
	DefaultActivityWriteInterval = time.Second
)

// ExpiredMessage is shown when the inactivity timer ends a session.
const ExpiredMessage = "Your session has expired. Please log in again."

var (
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrMissingToken rejects a login without a token.
	ErrMissingToken = errors.New("login requires a token")
	// ErrMissingUser rejects a login or update without a user object.
	ErrMissingUser = errors.New("login requires a user")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session authority closed")

	errNoPersistedSession = errors.New("no persisted session")
)

// Authorizer attaches the bearer credential to outgoing requests.
type Authorizer interface {
	Attach(token string)
	Detach()
}

// ProfileFetcher loads the current user with an explicit token.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string) (profile.Profile, error)
}

// Options are the authority's collaborators. Only Store is required for a
// useful authority; the rest default to inert implementations.
type Options struct {
	Store      storage.Store
	Clock      Clock
	Activity   ActivitySource
	Authorizer Authorizer
	Profiles   ProfileFetcher
	Logger     *logging.Logger

	// Timeout is the inactivity limit. Default DefaultTimeout.
	Timeout time.Duration
	// WarningBefore sets when Status.Warning turns on. Default DefaultWarningBefore.
	WarningBefore time.Duration
	// ActivityWriteInterval throttles persisted session_start rewrites.
	// Zero writes on every signal.
	ActivityWriteInterval time.Duration
	// WatchStore re-validates the session whenever the store reports a
	// change, which is how another client instance's logout is noticed.
	WatchStore bool

	// OnExpired receives ExpiredMessage when the inactivity timer ends a
	// session. It runs without any authority lock held.
	OnExpired func(message string)
}

// Authority owns the session. Construct one per process with NewAuthority.
//
// All state is guarded by one mutex. Store writes happen under it; listener
// and notifier callbacks never do.
type Authority struct {
	store         storage.Store
	clock         Clock
	authorizer    Authorizer
	profiles      ProfileFetcher
	log           *logging.Logger
	timeout       time.Duration
	warningBefore time.Duration
	writeInterval time.Duration
	watchStore    bool
	onExpired     func(string)

	timer   *Timer
	monitor *ActivityMonitor

	mu           sync.Mutex
	state        State
	token        string
	user         profile.Profile
	sessionStart time.Time
	lastPersist  time.Time
	// generation changes on every begin and teardown. Timer callbacks,
	// activity handlers and in-flight refreshes capture it and do nothing
	// once it has moved on.
	generation   uint64
	loading      bool
	initialized  bool
	closed       bool
	stopWatch    context.CancelFunc
	listeners    map[uint64]func(State)
	nextListener uint64
}

// NewAuthority builds an authority in the Unauthenticated, loading state.
// Call Initialize to restore a persisted session.
func NewAuthority(opts Options) *Authority {
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Authorizer == nil {
		opts.Authorizer = nopAuthorizer{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.WarningBefore <= 0 {
		opts.WarningBefore = DefaultWarningBefore
	}
	if opts.WarningBefore > opts.Timeout {
		opts.WarningBefore = opts.Timeout
	}
	if opts.ActivityWriteInterval < 0 {
		opts.ActivityWriteInterval = 0
	}

	return &Authority{
		store:         opts.Store,
		clock:         opts.Clock,
		authorizer:    opts.Authorizer,
		profiles:      opts.Profiles,
		log:           opts.Logger.Named("session"),
		timeout:       opts.Timeout,
		warningBefore: opts.WarningBefore,
		writeInterval: opts.ActivityWriteInterval,
		watchStore:    opts.WatchStore,
		onExpired:     opts.OnExpired,
		timer:         NewTimer(opts.Clock),
		monitor:       NewActivityMonitor(opts.Activity),
		loading:       true,
		listeners:     make(map[uint64]func(State)),
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Initialize restores the persisted session if it is complete, well formed
// and younger than the timeout; otherwise it removes every credential key.
// Loading is complete when it returns. Only the first call has any effect.
func (a *Authority) Initialize() {
	a.mu.Lock()
	if a.initialized || a.closed {
		a.mu.Unlock()
		return
	}
	a.initialized = true

	now := a.now()
	sess, err := a.readPersisted()
	switch {
	case errors.Is(err, errNoPersistedSession):
		a.log.Debug("no persisted session")
		a.teardownLocked(true)
	case err != nil:
		a.log.Warn("discarding persisted session",
			logging.Event(logging.EventSessionCleared), zap.Error(err))
		a.teardownLocked(true)
	default:
		// A start in the future (clock skew) restarts the countdown from
		// now rather than extending it.
		if sess.start.After(now) {
			sess.start = now
			if err := a.store.Set(storage.KeySessionStart, formatMillis(now)); err != nil {
				a.log.Warn("session start not rewritten", zap.Error(err))
			}
		}
		age := sessionAge(now, sess.start)
		if age >= a.timeout {
			a.log.Info("persisted session expired",
				logging.Event(logging.EventSessionTimeout),
				zap.Duration("age", age))
			a.teardownLocked(true)
		} else {
			a.beginLocked(sess.token, sess.user, sess.start, a.timeout-age)
			a.log.Info("session restored",
				logging.Event(logging.EventSessionRestored),
				zap.String("email", sess.user.Email()),
				zap.Duration("remaining", a.timeout-age))
		}
	}
	a.loading = false
	a.startWatchLocked()

	state, fns := a.state, a.listenersLocked()
	a.mu.Unlock()

	notifyListeners(fns, state)
}

// Login establishes a session from a successful authentication response.
// Nothing is sent over the network. If the store rejects any write, the keys
// already written are removed, the authority stays Unauthenticated and the
// error is returned.
func (a *Authority) Login(user profile.Profile, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}
	if user == nil {
		return ErrMissingUser
	}
	userJSON, err := user.Marshal()
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.initialized = true
	a.loading = false

	replaced := a.teardownLocked(false)
	now := a.now()

	writes := [][2]string{
		{storage.KeyToken, token},
		{storage.KeyUser, string(userJSON)},
		{storage.KeySessionStart, formatMillis(now)},
	}
	for _, w := range writes {
		if err := a.store.Set(w[0], w[1]); err != nil {
			a.removeCredentialsLocked()
			a.log.Error("login not persisted", zap.String("key", w[0]), zap.Error(err))
			fns := a.listenersLocked()
			a.mu.Unlock()
			if replaced {
				notifyListeners(fns, StateUnauthenticated)
			}
			return fmt.Errorf("persist session: %w", err)
		}
	}

	a.beginLocked(token, user.Clone(), now, a.timeout)
	a.log.Info("session started",
		logging.Event(logging.EventSessionStart),
		zap.String("email", user.Email()))

	fns := a.listenersLocked()
	a.mu.Unlock()

	notifyListeners(fns, StateAuthenticated)
	return nil
}

// Logout ends the session: the activity monitor is stopped first, then
// memory, the persisted keys, the request authorization and the timer are
// cleared. It is idempotent and never fails; storage errors are logged.
func (a *Authority) Logout() {
	a.mu.Lock()
	was := a.teardownLocked(true)
	if was {
		a.log.Info("logged out", logging.Event(logging.EventSessionLogout))
	}
	fns := a.listenersLocked()
	a.mu.Unlock()

	if was {
		notifyListeners(fns, StateUnauthenticated)
	}
}

// Close stops the timer, the activity monitor and store watching without
// touching the persisted session. One-shot commands call it before exiting
// so the session outlives the process.
func (a *Authority) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.monitor.Stop()
	a.generation++
	a.timer.Cancel()
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
}

// =============================================================================
// USER
// =============================================================================

// UpdateUser replaces the user object in memory and in the store. The token
// and session_start are untouched. Without a session it returns
// ErrNotAuthenticated and changes nothing.
func (a *Authority) UpdateUser(user profile.Profile) error {
	if user == nil {
		return ErrMissingUser
	}
	raw, err := user.Marshal()
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	a.mu.Lock()
	if a.state != StateAuthenticated {
		a.mu.Unlock()
		return ErrNotAuthenticated
	}
	a.user = user.Clone()
	storeErr := a.store.Set(storage.KeyUser, string(raw))
	fns := a.listenersLocked()
	a.mu.Unlock()

	notifyListeners(fns, StateAuthenticated)
	if storeErr != nil {
		a.log.Warn("user update not persisted", zap.Error(storeErr))
		return fmt.Errorf("persist user: %w", storeErr)
	}
	return nil
}

// RefreshProfile re-fetches the user with the current token. With no session
// it does nothing. A 401 or 403 ends the session if it is still the one the
// request was made for. Any other failure is logged and returned with the
// session left intact. A response that arrives after the session ended or
// was replaced is discarded.
func (a *Authority) RefreshProfile(ctx context.Context) error {
	a.mu.Lock()
	if a.state != StateAuthenticated || a.profiles == nil {
		a.mu.Unlock()
		return nil
	}
	token, gen := a.token, a.generation
	a.mu.Unlock()

	user, err := a.profiles.Profile(ctx, token)
	if err == nil && user == nil {
		err = errors.New("empty profile response")
	}
	if err != nil {
		if api.IsAuthRejected(err) {
			a.mu.Lock()
			if gen != a.generation {
				a.mu.Unlock()
				return err
			}
			a.teardownLocked(true)
			a.log.Warn("session rejected by server",
				logging.Event(logging.EventSessionRejected), zap.Error(err))
			fns := a.listenersLocked()
			a.mu.Unlock()
			notifyListeners(fns, StateUnauthenticated)
			return err
		}
		a.log.Warn("profile refresh failed", zap.Error(err))
		return err
	}

	raw, err := user.Marshal()
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	a.mu.Lock()
	if gen != a.generation || a.state != StateAuthenticated {
		a.mu.Unlock()
		a.log.Debug("discarding profile for a session that has ended")
		return nil
	}
	a.user = user.Clone()
	if err := a.store.Set(storage.KeyUser, string(raw)); err != nil {
		a.log.Warn("refreshed user not persisted", zap.Error(err))
	}
	a.log.Info("profile refreshed", logging.Event(logging.EventProfileRefreshed))
	fns := a.listenersLocked()
	a.mu.Unlock()

	notifyListeners(fns, StateAuthenticated)
	return nil
}

// =============================================================================
// EXPIRY
// =============================================================================

// CheckExpiry re-validates the session against the wall clock and the store.
// It ends the session when the timeout has passed (with the expiry notice)
// or when the token was removed or replaced by another client instance
// (without it). It returns whether the session is still active.
//
// The UI calls it on focus, on every tick and on store change
// notifications, so a timer delayed by system sleep is caught up.
func (a *Authority) CheckExpiry() bool {
	a.mu.Lock()
	if a.state != StateAuthenticated || a.closed {
		a.mu.Unlock()
		return false
	}
	return a.settleLocked(a.evaluateLocked(a.now()))
}

func (a *Authority) expire(gen uint64) {
	a.mu.Lock()
	if gen != a.generation || a.state != StateAuthenticated {
		a.mu.Unlock()
		return
	}
	a.settleLocked(a.evaluateLocked(a.now()))
}

type verdict int

const (
	verdictActive verdict = iota
	verdictExpired
	verdictRevoked
)

// evaluateLocked decides whether the session is still alive. A newer
// session_start written by another instance is adopted and the timer
// re-armed for the remainder.
func (a *Authority) evaluateLocked(now time.Time) verdict {
	start := a.sessionStart

	token, ok, err := a.store.Get(storage.KeyToken)
	switch {
	case err != nil:
		a.log.Debug("store unreadable during expiry check", zap.Error(err))
	case !ok || token != a.token:
		return verdictRevoked
	default:
		if raw, ok, err := a.store.Get(storage.KeySessionStart); err == nil && ok {
			if ms, err := parseMillis(raw); err == nil {
				persisted := time.UnixMilli(ms)
				if persisted.After(now) {
					persisted = now
				}
				if persisted.After(start) {
					start = persisted
				}
			}
		}
	}

	age := sessionAge(now, start)
	if age >= a.timeout {
		return verdictExpired
	}

	if start.After(a.sessionStart) || !a.timer.Armed() {
		a.sessionStart = start
		gen := a.generation
		a.timer.Arm(a.timeout-age, func() { a.expire(gen) })
	}
	return verdictActive
}

// settleLocked applies a verdict and releases the lock.
func (a *Authority) settleLocked(v verdict) bool {
	switch v {
	case verdictActive:
		a.mu.Unlock()
		return true

	case verdictRevoked:
		// The keys now belong to nobody or to another session; leave them.
		a.teardownLocked(false)
		a.log.Info("session ended by another client", logging.Event(logging.EventSessionLogout))
		fns := a.listenersLocked()
		a.mu.Unlock()
		notifyListeners(fns, StateUnauthenticated)
		return false

	default:
		a.teardownLocked(true)
		a.log.Info("session expired", logging.Event(logging.EventSessionTimeout))
		fns := a.listenersLocked()
		notify := a.onExpired
		a.mu.Unlock()
		notifyListeners(fns, StateUnauthenticated)
		if notify != nil {
			notify(ExpiredMessage)
		}
		return false
	}
}

// =============================================================================
// ACTIVITY
// =============================================================================

// RecordActivity extends the session as if sig had been observed. The UI
// normally reaches this through the ActivitySource instead.
func (a *Authority) RecordActivity(sig Signal) {
	a.mu.Lock()
	gen := a.generation
	a.mu.Unlock()
	a.recordActivity(gen, sig)
}

func (a *Authority) recordActivity(gen uint64, sig Signal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation || a.state != StateAuthenticated {
		return
	}

	now := a.now()
	a.sessionStart = now
	if !sig.Continuous() || a.writeInterval == 0 || now.Sub(a.lastPersist) >= a.writeInterval {
		if err := a.store.Set(storage.KeySessionStart, formatMillis(now)); err != nil {
			a.log.Warn("session extension not persisted", zap.Error(err))
		} else {
			a.lastPersist = now
			a.log.Debug("session extended",
				logging.Event(logging.EventSessionExtended),
				zap.Stringer("signal", sig))
		}
	}
	a.timer.Arm(a.timeout, func() { a.expire(gen) })
}

// =============================================================================
// ACCESSORS
// =============================================================================

// IsAuthenticated reports the in-memory state. It never touches the store.
func (a *Authority) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateAuthenticated
}

// State returns the current state.
func (a *Authority) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// IsLoading is true until Initialize or Login has run.
func (a *Authority) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Token returns the bearer token, or "" without a session.
func (a *Authority) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// User returns a copy of the user object, or nil without a session.
func (a *Authority) User() profile.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user.Clone()
}

// Timeout returns the configured inactivity limit.
func (a *Authority) Timeout() time.Duration { return a.timeout }

// RemainingTime returns the time left before expiry, or 0 without a session.
func (a *Authority) RemainingTime() time.Duration {
	return a.Status().RemainingTime
}

// Status returns a snapshot for display.
func (a *Authority) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := Status{State: a.state, Timeout: a.timeout}
	if a.state != StateAuthenticated {
		return st
	}
	now := a.now()
	st.SessionStart = a.sessionStart
	st.ExpiresAt = a.sessionStart.Add(a.timeout)
	st.IdleTime = sessionAge(now, a.sessionStart)
	st.RemainingTime = a.timeout - st.IdleTime
	if st.RemainingTime < 0 {
		st.RemainingTime = 0
	}
	st.Warning = st.RemainingTime > 0 && st.RemainingTime <= a.warningBefore
	return st
}

// OnChange registers fn to run after every state change and user update.
// fn runs without the authority lock held. The returned func unregisters it.
func (a *Authority) OnChange(fn func(State)) (cancel func()) {
	a.mu.Lock()
	id := a.nextListener
	a.nextListener++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// =============================================================================
// INTERNALS
// =============================================================================

// now strips the monotonic reading so elapsed time is measured on the wall
// clock and time spent suspended counts as idle time.
func (a *Authority) now() time.Time {
	return a.clock.Now().Round(0)
}

func (a *Authority) beginLocked(token string, user profile.Profile, start time.Time, remaining time.Duration) {
	a.generation++
	gen := a.generation

	a.state = StateAuthenticated
	a.token = token
	a.user = user
	a.sessionStart = start
	a.lastPersist = start

	a.authorizer.Attach(token)
	a.timer.Arm(remaining, func() { a.expire(gen) })
	a.monitor.Start(func(sig Signal) { a.recordActivity(gen, sig) })
}

// teardownLocked returns the authority to Unauthenticated and reports whether
// a session was active. The monitor is stopped before anything else so no
// activity handler can observe half-cleared state.
func (a *Authority) teardownLocked(clearStore bool) bool {
	a.monitor.Stop()
	a.generation++
	a.timer.Cancel()

	was := a.state == StateAuthenticated
	a.state = StateUnauthenticated
	a.token = ""
	a.user = nil
	a.sessionStart = time.Time{}
	a.lastPersist = time.Time{}

	if clearStore {
		a.removeCredentialsLocked()
	}
	a.authorizer.Detach()
	return was
}

func (a *Authority) removeCredentialsLocked() {
	for _, key := range storage.CredentialKeys {
		if err := a.store.Remove(key); err != nil {
			a.log.Warn("failed to remove credential", zap.String("key", key), zap.Error(err))
		}
	}
}

func (a *Authority) startWatchLocked() {
	if !a.watchStore || a.stopWatch != nil {
		return
	}
	w, ok := a.store.(storage.Watcher)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Watch(ctx, func() { a.CheckExpiry() }); err != nil {
		cancel()
		a.log.Warn("store watch unavailable", zap.Error(err))
		return
	}
	a.stopWatch = cancel
}

func (a *Authority) listenersLocked() []func(State) {
	if len(a.listeners) == 0 {
		return nil
	}
	fns := make([]func(State), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func notifyListeners(fns []func(State), state State) {
	for _, fn := range fns {
		fn(state)
	}
}

type persistedSession struct {
	token string
	user  profile.Profile
	start time.Time
}

func (a *Authority) readPersisted() (persistedSession, error) {
	var values [3]string
	var present [3]bool
	for i, key := range storage.CredentialKeys {
		v, ok, err := a.store.Get(key)
		if err != nil {
			return persistedSession{}, fmt.Errorf("read %s: %w", key, err)
		}
		values[i], present[i] = v, ok
	}
	if !present[0] && !present[1] && !present[2] {
		return persistedSession{}, errNoPersistedSession
	}

	token := values[0]
	if !present[0] || strings.TrimSpace(token) == "" {
		return persistedSession{}, errors.New("token missing")
	}
	if !present[1] {
		return persistedSession{}, errors.New("user missing")
	}
	user, err := profile.Parse([]byte(values[1]))
	if err != nil {
		return persistedSession{}, fmt.Errorf("user: %w", err)
	}
	if !present[2] {
		return persistedSession{}, errors.New("session_start missing")
	}
	ms, err := parseMillis(values[2])
	if err != nil {
		return persistedSession{}, fmt.Errorf("session_start: %w", err)
	}
	return persistedSession{token: token, user: user, start: time.UnixMilli(ms)}, nil
}

// sessionAge treats a start in the future as age zero so clock skew can
// never extend a session past the timeout.
func sessionAge(now, start time.Time) time.Duration {
	age := now.Sub(start)
	if age < 0 {
		return 0
	}
	return age
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseMillis(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

type nopAuthorizer struct{}

func (nopAuthorizer) Attach(string) {}
func (nopAuthorizer) Detach()       {}
