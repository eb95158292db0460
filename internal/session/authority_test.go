// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session/sessiontest"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// =============================================================================
// FIXTURES
// =============================================================================

type fixture struct {
	t         *testing.T
	clock     *sessiontest.FakeClock
	store     *storage.MemoryStore
	activity  *session.Broadcaster
	auth      *api.BearerAuth
	profiles  *fakeProfiles
	notices   *noticeLog
	authority *session.Authority
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		clock:    sessiontest.NewFakeClock(epoch),
		store:    storage.NewMemoryStore(),
		activity: session.NewBroadcaster(),
		auth:     api.NewBearerAuth(nil),
		profiles: &fakeProfiles{},
		notices:  &noticeLog{},
	}
	f.authority = f.build(f.store)
	return f
}

func (f *fixture) build(store storage.Store) *session.Authority {
	return session.NewAuthority(session.Options{
		Store:      store,
		Clock:      f.clock,
		Activity:   f.activity,
		Authorizer: f.auth,
		Profiles:   f.profiles,
		OnExpired:  f.notices.add,
	})
}

func (f *fixture) persist(token, user string, start time.Time) {
	f.t.Helper()
	require.NoError(f.t, f.store.Set(storage.KeyToken, token))
	require.NoError(f.t, f.store.Set(storage.KeyUser, user))
	require.NoError(f.t, f.store.Set(storage.KeySessionStart, strconv.FormatInt(start.UnixMilli(), 10)))
}

func (f *fixture) get(key string) (string, bool) {
	v, ok, err := f.store.Get(key)
	require.NoError(f.t, err)
	return v, ok
}

func (f *fixture) assertStoreEmpty() {
	f.t.Helper()
	for _, k := range storage.CredentialKeys {
		_, ok := f.get(k)
		assert.False(f.t, ok, "store still holds %q", k)
	}
}

func (f *fixture) login() profile.Profile {
	f.t.Helper()
	u := profile.Profile{"email": "jane@example.com", "first_name": "Jane", "plan_type": "trial"}
	require.NoError(f.t, f.authority.Login(u, "tok-1"))
	return u
}

type noticeLog struct {
	mu   sync.Mutex
	msgs []string
}

func (n *noticeLog) add(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *noticeLog) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

// fakeProfiles answers Profile calls from a queue of canned results. When
// gate is set, each call blocks until the gate is closed.
type fakeProfiles struct {
	mu      sync.Mutex
	user    profile.Profile
	err     error
	tokens  []string
	gate    chan struct{}
	entered chan struct{}
}

func (p *fakeProfiles) Profile(ctx context.Context, token string) (profile.Profile, error) {
	p.mu.Lock()
	p.tokens = append(p.tokens, token)
	gate, entered := p.gate, p.entered
	user, err := p.user, p.err
	p.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}
	return user, err
}

// failingStore rejects writes to one key.
type failingStore struct {
	storage.Store
	failKey string
	failGet bool
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Set(key, value string) error {
	if key == s.failKey {
		return errDiskFull
	}
	return s.Store.Set(key, value)
}

func (s *failingStore) Get(key string) (string, bool, error) {
	if s.failGet {
		return "", false, errDiskFull
	}
	return s.Store.Get(key)
}

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

func TestLogin_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.authority.Initialize()
	u := f.login()

	assert.True(t, f.authority.IsAuthenticated())
	assert.Equal(t, session.StateAuthenticated, f.authority.State())

	tok, ok := f.get(storage.KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	raw, _ := f.get(storage.KeyUser)
	stored, err := profile.Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, u, stored)

	start, _ := f.get(storage.KeySessionStart)
	assert.Equal(t, strconv.FormatInt(epoch.UnixMilli(), 10), start)

	header, ok := f.auth.Header()
	assert.True(t, ok)
	assert.Equal(t, "Bearer tok-1", header)
	assert.Equal(t, 1, f.activity.Subscribers())
}

func TestLogin_RejectsIncompleteInput(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.authority.Login(profile.Profile{}, " "), session.ErrMissingToken)
	assert.ErrorIs(t, f.authority.Login(nil, "tok"), session.ErrMissingUser)
	assert.False(t, f.authority.IsAuthenticated())
	assert.Equal(t, 0, f.store.Len())
}

func TestLogin_StoreFailureLeavesNoSession(t *testing.T) {
	f := newFixture(t)
	store := &failingStore{Store: f.store, failKey: storage.KeySessionStart}
	a := f.build(store)

	err := a.Login(profile.Profile{"email": "a@b.c"}, "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)

	assert.False(t, a.IsAuthenticated())
	assert.False(t, a.IsLoading())
	f.assertStoreEmpty()
	_, attached := f.auth.Header()
	assert.False(t, attached)
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, 0, f.activity.Subscribers())
}

func TestLogin_ReplacesExistingSession(t *testing.T) {
	f := newFixture(t)
	f.login()

	require.NoError(t, f.authority.Login(profile.Profile{"email": "other@x.y"}, "tok-2"))

	assert.Equal(t, "tok-2", f.authority.Token())
	assert.Equal(t, "other@x.y", f.authority.User().Email())
	assert.Equal(t, 1, f.activity.Subscribers(), "one monitor per session")
	assert.Equal(t, 1, f.clock.Pending(), "one outstanding expiry")
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.login()

	f.authority.Logout()
	f.authority.Logout()

	assert.False(t, f.authority.IsAuthenticated())
	assert.Nil(t, f.authority.User())
	assert.Empty(t, f.authority.Token())
	f.assertStoreEmpty()
	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, 0, f.activity.Subscribers())
	assert.Empty(t, f.notices.all(), "explicit logout shows no notice")
}

func TestLogout_DetachesAuthorization(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.authority.Logout()

	_, ok := f.auth.Header()
	assert.False(t, ok)
}

func TestLogout_ActivityAfterTeardownDoesNothing(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.authority.Logout()

	f.activity.Emit(session.SignalKeyPress)
	f.authority.RecordActivity(session.SignalKeyPress)

	assert.Equal(t, 0, f.clock.Pending())
	_, ok := f.get(storage.KeySessionStart)
	assert.False(t, ok)
}

// =============================================================================
// INITIALIZE
// =============================================================================

func TestInitialize_ExpiredSessionCleared(t *testing.T) {
	f := newFixture(t)
	f.persist("tok", `{"email":"a@b.c"}`, epoch.Add(-(session.DefaultTimeout + time.Millisecond)))

	assert.True(t, f.authority.IsLoading())
	f.authority.Initialize()

	assert.False(t, f.authority.IsLoading())
	assert.False(t, f.authority.IsAuthenticated())
	f.assertStoreEmpty()
	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.notices.all(), "stale session at startup is silent")
}

func TestInitialize_JustInsideTimeoutRestores(t *testing.T) {
	f := newFixture(t)
	f.persist("tok", `{"email":"a@b.c"}`, epoch.Add(-(session.DefaultTimeout - time.Millisecond)))

	f.authority.Initialize()

	require.True(t, f.authority.IsAuthenticated())
	assert.Equal(t, "tok", f.authority.Token())
	assert.Equal(t, "a@b.c", f.authority.User().Email())
	assert.Equal(t, time.Millisecond, f.authority.RemainingTime())

	header, _ := f.auth.Header()
	assert.Equal(t, "Bearer tok", header)

	// The restored timer carries only the remaining time.
	f.clock.Advance(time.Millisecond)
	assert.False(t, f.authority.IsAuthenticated())
	assert.Equal(t, []string{session.ExpiredMessage}, f.notices.all())
}

func TestInitialize_PartialStateRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Set(storage.KeyToken, "tok"))

	f.authority.Initialize()

	assert.False(t, f.authority.IsAuthenticated())
	f.assertStoreEmpty()
}

func TestInitialize_MalformedStateRejected(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		start string
	}{
		{"user not json", `{broken`, strconv.FormatInt(epoch.UnixMilli(), 10)},
		{"user not object", `["a"]`, strconv.FormatInt(epoch.UnixMilli(), 10)},
		{"user null", `null`, strconv.FormatInt(epoch.UnixMilli(), 10)},
		{"start not numeric", `{"email":"a@b.c"}`, "yesterday"},
		{"start float", `{"email":"a@b.c"}`, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.store.Set(storage.KeyToken, "tok"))
			require.NoError(t, f.store.Set(storage.KeyUser, tt.user))
			require.NoError(t, f.store.Set(storage.KeySessionStart, tt.start))

			f.authority.Initialize()

			assert.False(t, f.authority.IsAuthenticated())
			f.assertStoreEmpty()
		})
	}
}

func TestInitialize_UnreadableStore(t *testing.T) {
	f := newFixture(t)
	f.persist("tok", `{"email":"a@b.c"}`, epoch)
	a := f.build(&failingStore{Store: f.store, failGet: true})

	a.Initialize()

	assert.False(t, a.IsAuthenticated())
	assert.False(t, a.IsLoading())
}

func TestInitialize_FutureStartDoesNotExtend(t *testing.T) {
	f := newFixture(t)
	f.persist("tok", `{"email":"a@b.c"}`, epoch.Add(time.Hour))

	f.authority.Initialize()
	require.True(t, f.authority.IsAuthenticated())
	assert.Equal(t, session.DefaultTimeout, f.authority.RemainingTime())
	start, _ := f.get(storage.KeySessionStart)
	assert.Equal(t, strconv.FormatInt(epoch.UnixMilli(), 10), start)

	f.clock.Advance(session.DefaultTimeout)
	assert.False(t, f.authority.IsAuthenticated())
}

func TestInitialize_RunsOnce(t *testing.T) {
	f := newFixture(t)
	f.authority.Initialize()

	f.persist("tok", `{"email":"a@b.c"}`, epoch)
	f.authority.Initialize()

	assert.False(t, f.authority.IsAuthenticated())
}

// =============================================================================
// TIMER AND ACTIVITY
// =============================================================================

func TestExpiry_LogsOutWithNotice(t *testing.T) {
	f := newFixture(t)
	f.login()

	var states []session.State
	f.authority.OnChange(func(s session.State) { states = append(states, s) })

	f.clock.Advance(session.DefaultTimeout - time.Second)
	assert.True(t, f.authority.IsAuthenticated())

	f.clock.Advance(time.Second)
	assert.False(t, f.authority.IsAuthenticated())
	f.assertStoreEmpty()
	assert.Equal(t, []string{session.ExpiredMessage}, f.notices.all())
	assert.Equal(t, []session.State{session.StateUnauthenticated}, states)
	assert.Equal(t, 0, f.activity.Subscribers())
}

func TestActivity_ResetsTimer(t *testing.T) {
	f := newFixture(t)
	f.login()

	f.clock.Advance(session.DefaultTimeout - time.Second)
	f.activity.Emit(session.SignalPointerMove)

	f.clock.Advance(2 * time.Second)
	assert.True(t, f.authority.IsAuthenticated(), "timer was not re-armed")

	start, _ := f.get(storage.KeySessionStart)
	want := epoch.Add(session.DefaultTimeout - time.Second)
	assert.Equal(t, strconv.FormatInt(want.UnixMilli(), 10), start)

	f.clock.Advance(session.DefaultTimeout - 2*time.Second)
	assert.False(t, f.authority.IsAuthenticated())
}

func TestActivity_EverySignalCounts(t *testing.T) {
	signals := []session.Signal{
		session.SignalPointerPress,
		session.SignalPointerMove,
		session.SignalKeyPress,
		session.SignalScroll,
		session.SignalTouchStart,
	}
	for _, sig := range signals {
		t.Run(sig.String(), func(t *testing.T) {
			f := newFixture(t)
			f.login()
			f.clock.Advance(20 * time.Minute)
			f.activity.Emit(sig)
			f.clock.Advance(20 * time.Minute)
			assert.True(t, f.authority.IsAuthenticated())
		})
	}
}

func TestActivity_WriteThrottle(t *testing.T) {
	f := newFixture(t)
	a := session.NewAuthority(session.Options{
		Store:                 f.store,
		Clock:                 f.clock,
		Activity:              f.activity,
		ActivityWriteInterval: time.Second,
	})
	require.NoError(t, a.Login(profile.Profile{"email": "a@b.c"}, "tok"))

	f.clock.Advance(300 * time.Millisecond)
	f.activity.Emit(session.SignalPointerMove)
	start, _ := f.get(storage.KeySessionStart)
	assert.Equal(t, strconv.FormatInt(epoch.UnixMilli(), 10), start, "write inside the interval")

	// The timer still moved.
	assert.Equal(t, epoch.Add(300*time.Millisecond), a.Status().SessionStart)

	f.clock.Advance(time.Second)
	f.activity.Emit(session.SignalPointerMove)
	start, _ = f.get(storage.KeySessionStart)
	assert.Equal(t, strconv.FormatInt(epoch.Add(1300*time.Millisecond).UnixMilli(), 10), start)
}

func TestActivity_DiscreteSignalsAlwaysWrite(t *testing.T) {
	f := newFixture(t)
	a := session.NewAuthority(session.Options{
		Store:                 f.store,
		Clock:                 f.clock,
		Activity:              f.activity,
		ActivityWriteInterval: time.Second,
	})
	require.NoError(t, a.Login(profile.Profile{"email": "a@b.c"}, "tok"))

	for i, sig := range []session.Signal{
		session.SignalKeyPress,
		session.SignalPointerPress,
		session.SignalTouchStart,
	} {
		f.clock.Advance(100 * time.Millisecond)
		f.activity.Emit(sig)
		start, _ := f.get(storage.KeySessionStart)
		want := epoch.Add(time.Duration(i+1) * 100 * time.Millisecond)
		assert.Equal(t, strconv.FormatInt(want.UnixMilli(), 10), start, sig.String())
	}

	f.clock.Advance(100 * time.Millisecond)
	f.activity.Emit(session.SignalScroll)
	start, _ := f.get(storage.KeySessionStart)
	assert.Equal(t, strconv.FormatInt(epoch.Add(300*time.Millisecond).UnixMilli(), 10), start, "scroll inside the interval")
}

func TestStatus_Warning(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, session.Status{State: session.StateUnauthenticated, Timeout: session.DefaultTimeout}, f.authority.Status())

	f.login()
	f.clock.Advance(27 * time.Minute)
	st := f.authority.Status()
	assert.False(t, st.Warning)
	assert.Equal(t, 3*time.Minute, st.RemainingTime)
	assert.Equal(t, epoch.Add(session.DefaultTimeout), st.ExpiresAt)

	f.clock.Advance(90 * time.Second)
	st = f.authority.Status()
	assert.True(t, st.Warning)
	assert.Equal(t, 27*time.Minute+90*time.Second, st.IdleTime)
}

// =============================================================================
// CHECK EXPIRY
// =============================================================================

func TestCheckExpiry_CatchesLateTimer(t *testing.T) {
	f := newFixture(t)
	f.login()

	// Wall clock jumps (suspend) without the timer firing.
	f.clock.Set(epoch.Add(session.DefaultTimeout + time.Minute))

	assert.False(t, f.authority.CheckExpiry())
	assert.False(t, f.authority.IsAuthenticated())
	f.assertStoreEmpty()
	assert.Equal(t, []string{session.ExpiredMessage}, f.notices.all())
}

func TestCheckExpiry_ActiveSession(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.clock.Advance(time.Minute)
	assert.True(t, f.authority.CheckExpiry())
	assert.Equal(t, 1, f.clock.Pending())
}

func TestCheckExpiry_OtherInstanceLoggedOut(t *testing.T) {
	f := newFixture(t)
	f.login()

	other := f.build(f.store)
	other.Initialize()
	require.True(t, other.IsAuthenticated())

	other.Logout()
	assert.False(t, f.authority.CheckExpiry())
	assert.False(t, f.authority.IsAuthenticated())
	assert.Empty(t, f.notices.all())
}

func TestCheckExpiry_OtherInstanceLoggedInAsSomeoneElse(t *testing.T) {
	f := newFixture(t)
	f.login()

	other := f.build(f.store)
	require.NoError(t, other.Login(profile.Profile{"email": "b@x.y"}, "tok-b"))

	assert.False(t, f.authority.CheckExpiry())
	// The other session's keys survive.
	tok, ok := f.get(storage.KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-b", tok)
}

func TestExpiry_AdoptsOtherInstanceActivity(t *testing.T) {
	f := newFixture(t)
	f.login()

	// Another instance records activity 20 minutes in.
	f.clock.Advance(20 * time.Minute)
	require.NoError(t, f.store.Set(storage.KeySessionStart,
		strconv.FormatInt(f.clock.Now().UnixMilli(), 10)))

	// Our timer fires at 30 minutes but the shared session is still live.
	f.clock.Advance(10 * time.Minute)
	assert.True(t, f.authority.IsAuthenticated())
	assert.Empty(t, f.notices.all())

	f.clock.Advance(20 * time.Minute)
	assert.False(t, f.authority.IsAuthenticated())
}

func TestWatchStore_NoticesOtherInstanceLogout(t *testing.T) {
	f := newFixture(t)
	a := session.NewAuthority(session.Options{
		Store:      f.store,
		Clock:      f.clock,
		WatchStore: true,
	})
	a.Initialize()
	require.NoError(t, a.Login(profile.Profile{"email": "a@b.c"}, "tok"))

	other := f.build(f.store)
	other.Initialize()
	other.Logout()

	assert.Eventually(t, func() bool { return !a.IsAuthenticated() }, time.Second, 5*time.Millisecond)
	a.Close()
}

// =============================================================================
// UPDATE USER
// =============================================================================

func TestUpdateUser_PreservesExpiry(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.clock.Advance(10 * time.Minute)

	startBefore, _ := f.get(storage.KeySessionStart)
	updated := profile.Profile{"email": "jane@example.com", "first_name": "Janet"}
	require.NoError(t, f.authority.UpdateUser(updated))

	startAfter, _ := f.get(storage.KeySessionStart)
	assert.Equal(t, startBefore, startAfter)
	tok, _ := f.get(storage.KeyToken)
	assert.Equal(t, "tok-1", tok)

	raw, _ := f.get(storage.KeyUser)
	stored, err := profile.Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
	assert.Equal(t, "Janet", f.authority.User().String("first_name"))

	// Expiry still counts from the original start.
	f.clock.Advance(20 * time.Minute)
	assert.False(t, f.authority.IsAuthenticated())
}

func TestUpdateUser_WithoutSession(t *testing.T) {
	f := newFixture(t)
	err := f.authority.UpdateUser(profile.Profile{"email": "a@b.c"})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Equal(t, 0, f.store.Len())
	assert.Nil(t, f.authority.User())
}

func TestUser_ReturnsCopy(t *testing.T) {
	f := newFixture(t)
	f.login()
	u := f.authority.User()
	u["email"] = "mutated"
	assert.Equal(t, "jane@example.com", f.authority.User().Email())
}

// =============================================================================
// REFRESH PROFILE
// =============================================================================

func TestRefreshProfile_NoSessionIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.authority.RefreshProfile(context.Background()))
	assert.Empty(t, f.profiles.tokens)
}

func TestRefreshProfile_Success(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.profiles.user = profile.Profile{"email": "jane@example.com", "plan_type": "pro"}

	require.NoError(t, f.authority.RefreshProfile(context.Background()))

	assert.Equal(t, []string{"tok-1"}, f.profiles.tokens)
	assert.Equal(t, "pro", f.authority.User().PlanType())
	raw, _ := f.get(storage.KeyUser)
	assert.Contains(t, raw, `"plan_type":"pro"`)
}

func TestRefreshProfile_AuthRejectionLogsOut(t *testing.T) {
	for _, status := range []int{401, 403} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			f := newFixture(t)
			f.login()
			f.profiles.err = &api.Error{Status: status, Detail: "Invalid token"}

			err := f.authority.RefreshProfile(context.Background())
			assert.True(t, api.IsAuthRejected(err))

			assert.False(t, f.authority.IsAuthenticated())
			f.assertStoreEmpty()
			_, ok := f.auth.Header()
			assert.False(t, ok)
			assert.Empty(t, f.notices.all())
		})
	}
}

func TestRefreshProfile_TransientErrorKeepsSession(t *testing.T) {
	f := newFixture(t)
	u := f.login()
	f.profiles.err = errors.New("dial tcp: connection refused")

	err := f.authority.RefreshProfile(context.Background())
	assert.Error(t, err)

	assert.True(t, f.authority.IsAuthenticated())
	tok, _ := f.get(storage.KeyToken)
	assert.Equal(t, "tok-1", tok)
	raw, _ := f.get(storage.KeyUser)
	stored, _ := profile.Parse([]byte(raw))
	assert.Equal(t, u, stored)
}

func TestRefreshProfile_ServerErrorKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.profiles.err = &api.Error{Status: 503}

	assert.Error(t, f.authority.RefreshProfile(context.Background()))
	assert.True(t, f.authority.IsAuthenticated())
}

func TestRefreshProfile_StaleResponseDiscarded(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.profiles.user = profile.Profile{"email": "stale@example.com"}
	f.profiles.gate = make(chan struct{})
	f.profiles.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.authority.RefreshProfile(context.Background()) }()

	<-f.profiles.entered
	f.authority.Logout()
	close(f.profiles.gate)
	require.NoError(t, <-done)

	assert.False(t, f.authority.IsAuthenticated())
	assert.Nil(t, f.authority.User())
	f.assertStoreEmpty()
}

func TestRefreshProfile_StaleRejectionSparesNewSession(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.profiles.err = &api.Error{Status: 401}
	f.profiles.gate = make(chan struct{})
	f.profiles.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.authority.RefreshProfile(context.Background()) }()

	<-f.profiles.entered
	require.NoError(t, f.authority.Login(profile.Profile{"email": "new@x.y"}, "tok-new"))
	close(f.profiles.gate)
	<-done

	assert.True(t, f.authority.IsAuthenticated())
	assert.Equal(t, "tok-new", f.authority.Token())
}

// =============================================================================
// CLOSE
// =============================================================================

func TestClose_KeepsPersistedSession(t *testing.T) {
	f := newFixture(t)
	f.login()
	f.authority.Close()

	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, 0, f.activity.Subscribers())
	tok, ok := f.get(storage.KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	f.clock.Advance(time.Hour)
	assert.Empty(t, f.notices.all())
	assert.ErrorIs(t, f.authority.Login(profile.Profile{}, "x"), session.ErrClosed)
}
