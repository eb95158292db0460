// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

// Store keys. None of them overlaps storage.CredentialKeys.
const (
	KeySession       = "propmatch-session"
	KeyHistory       = "propmatch-search-history"
	KeyAnonymousUser = "propmatch-anonymous-user-id"
)

const (
	// DefaultSessionTimeout is the search-session inactivity window.
	DefaultSessionTimeout = 24 * time.Hour
	// DefaultMaxEntries bounds the stored history.
	DefaultMaxEntries = 50

	anonymousPrefix = "anon_"
)

// Query statuses.
const (
	StatusSearching = "searching"
	StatusCompleted = "completed"
)

var (
	// ErrNoSession is returned when no search session has been initialised.
	ErrNoSession = errors.New("no active search session")
	// ErrQueryMismatch is returned when the query id is not the current one.
	ErrQueryMismatch = errors.New("query is not the current search")
	// ErrEmptyAddress rejects a search without an address.
	ErrEmptyAddress = errors.New("address is required")
)

// Step is one stage of a property search.
type Step string

const (
	StepAddressSearch    Step = "addressSearch"
	StepPropertyDetails  Step = "propertyDetails"
	StepScoreAnalysis    Step = "scoreAnalysis"
	StepReportGeneration Step = "reportGeneration"
	StepAIMessages       Step = "aiMessages"
)

// Steps lists every step in pipeline order.
func Steps() []Step {
	return []Step{StepAddressSearch, StepPropertyDetails, StepScoreAnalysis, StepReportGeneration, StepAIMessages}
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	for _, known := range Steps() {
		if s == known {
			return true
		}
	}
	return false
}

// StepData carries the results a step produced. Only the fields relevant to
// the step are kept.
type StepData struct {
	Suggestions      []any
	PropertyData     map[string]any
	PropertyID       string
	ConfirmedAddress string
	ScoreData        map[string]any
}

// Query is one property search.
type Query struct {
	QueryID          string         `json:"queryId"`
	Address          string         `json:"address"`
	StartedAt        time.Time      `json:"startedAt"`
	LastUpdated      *time.Time     `json:"lastUpdated,omitempty"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	Status           string         `json:"status"`
	Steps            map[Step]bool  `json:"steps"`
	Suggestions      []any          `json:"suggestions,omitempty"`
	PropertyData     map[string]any `json:"propertyData,omitempty"`
	PropertyID       string         `json:"propertyId,omitempty"`
	ConfirmedAddress string         `json:"confirmedAddress,omitempty"`
	ScoreData        map[string]any `json:"scoreData,omitempty"`
}

// DisplayAddress prefers the confirmed address.
func (q *Query) DisplayAddress() string {
	if q.ConfirmedAddress != "" {
		return q.ConfirmedAddress
	}
	return q.Address
}

// CompletedSteps counts the steps marked done.
func (q *Query) CompletedSteps() int {
	n := 0
	for _, s := range Steps() {
		if q.Steps[s] {
			n++
		}
	}
	return n
}

// Session is the persisted search session.
type Session struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	CurrentQuery *Query    `json:"currentQuery"`
	SearchCount  int       `json:"searchCount"`
}

// Stats summarises the tracker state.
type Stats struct {
	SessionID     string
	UserID        string
	SessionAge    time.Duration
	TotalSearches int
	HistoryCount  int
	CurrentQuery  *Query
}

// Options configure a Tracker.
type Options struct {
	Store storage.Store
	// UserID returns the signed-in user's id, or "" when anonymous.
	UserID func() string
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to uuid.NewString.
	NewID      func() string
	Timeout    time.Duration
	MaxEntries int
	Logger     *logging.Logger
}

// Tracker records searches into a storage.Store. It is safe for
// concurrent use within one process.
type Tracker struct {
	store   storage.Store
	userID  func() string
	now     func() time.Time
	newID   func() string
	timeout time.Duration
	max     int
	log     *logging.Logger

	mu sync.Mutex
}

// NewTracker returns a tracker over opts.Store.
func NewTracker(opts Options) *Tracker {
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.UserID == nil {
		opts.UserID = func() string { return "" }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSessionTimeout
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Tracker{
		store:   opts.Store,
		userID:  opts.UserID,
		now:     opts.Now,
		newID:   opts.NewID,
		timeout: opts.Timeout,
		max:     opts.MaxEntries,
		log:     opts.Logger.Named("history"),
	}
}

// =============================================================================
// SESSION
// =============================================================================

// InitSession resumes the stored search session, or starts a new one when
// none exists or it has been idle longer than the timeout.
func (t *Tracker) InitSession() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	sess, err := t.loadSession()
	if err != nil {
		return nil, err
	}
	if sess == nil || now.Sub(sess.LastActivity) > t.timeout {
		userID, err := t.resolveUserID()
		if err != nil {
			return nil, err
		}
		sess = &Session{
			SessionID:    t.newID(),
			UserID:       userID,
			CreatedAt:    now,
			LastActivity: now,
		}
		t.log.Info("search session created", zap.String("session_id", sess.SessionID))
	} else {
		sess.LastActivity = now
		t.log.Debug("search session resumed", zap.String("session_id", sess.SessionID))
	}

	if err := t.saveSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// StartSearch makes address the current query and returns its id.
func (t *Tracker) StartSearch(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrEmptyAddress
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.requireSession()
	if err != nil {
		return "", err
	}

	now := t.now()
	steps := make(map[Step]bool, len(Steps()))
	for _, s := range Steps() {
		steps[s] = false
	}
	sess.CurrentQuery = &Query{
		QueryID:   t.newID(),
		Address:   address,
		StartedAt: now,
		Status:    StatusSearching,
		Steps:     steps,
	}
	sess.SearchCount++
	sess.LastActivity = now

	if err := t.saveSession(sess); err != nil {
		return "", err
	}
	t.log.Info("search started", zap.String("query_id", sess.CurrentQuery.QueryID))
	return sess.CurrentQuery.QueryID, nil
}

// UpdateStep marks step done on the current query and keeps the data that
// step produced.
func (t *Tracker) UpdateStep(queryID string, step Step, data StepData) error {
	if !step.Valid() {
		return fmt.Errorf("unknown step %q", step)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sess, q, err := t.currentQuery(queryID)
	if err != nil {
		return err
	}

	now := t.now()
	q.Steps[step] = true
	q.LastUpdated = &now
	sess.LastActivity = now

	switch step {
	case StepAddressSearch:
		if data.Suggestions != nil {
			q.Suggestions = data.Suggestions
		}
	case StepPropertyDetails:
		if data.PropertyData != nil {
			q.PropertyData = data.PropertyData
			q.PropertyID = data.PropertyID
			q.ConfirmedAddress = data.ConfirmedAddress
		}
	case StepScoreAnalysis:
		if data.ScoreData != nil {
			q.ScoreData = data.ScoreData
		}
	}
	return t.saveSession(sess)
}

// CompleteSearch moves the current query into history. Non-empty fields of
// final override what the steps recorded.
func (t *Tracker) CompleteSearch(queryID string, final StepData) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, q, err := t.currentQuery(queryID)
	if err != nil {
		return err
	}

	now := t.now()
	done := *q
	if final.Suggestions != nil {
		done.Suggestions = final.Suggestions
	}
	if final.PropertyData != nil {
		done.PropertyData = final.PropertyData
	}
	if final.PropertyID != "" {
		done.PropertyID = final.PropertyID
	}
	if final.ConfirmedAddress != "" {
		done.ConfirmedAddress = final.ConfirmedAddress
	}
	if final.ScoreData != nil {
		done.ScoreData = final.ScoreData
	}
	done.CompletedAt = &now
	done.Status = StatusCompleted

	if err := t.addToHistory(done); err != nil {
		return err
	}

	sess.CurrentQuery = nil
	sess.LastActivity = now
	if err := t.saveSession(sess); err != nil {
		return err
	}
	t.log.Info("search completed", zap.String("query_id", queryID))
	return nil
}

// CurrentQuery returns the query in progress, or nil.
func (t *Tracker) CurrentQuery() (*Query, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, err := t.loadSession()
	if err != nil || sess == nil {
		return nil, err
	}
	return sess.CurrentQuery, nil
}

// ClearSession forgets the search session and any query in progress.
func (t *Tracker) ClearSession() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Remove(KeySession)
}

// =============================================================================
// HISTORY
// =============================================================================

// History returns completed searches, newest first.
func (t *Tracker) History() ([]Query, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadHistory()
}

// Latest returns the most recent completed search.
func (t *Tracker) Latest() (*Query, bool, error) {
	h, err := t.History()
	if err != nil || len(h) == 0 {
		return nil, false, err
	}
	return &h[0], true, nil
}

// FindByAddress returns the newest search whose confirmed or typed address
// equals address, ignoring case and surrounding space.
func (t *Tracker) FindByAddress(address string) (*Query, bool, error) {
	h, err := t.History()
	if err != nil {
		return nil, false, err
	}
	want := normalizeAddress(address)
	for i := range h {
		if normalizeAddress(h[i].ConfirmedAddress) == want || normalizeAddress(h[i].Address) == want {
			return &h[i], true, nil
		}
	}
	return nil, false, nil
}

// ClearHistory removes every completed search.
func (t *Tracker) ClearHistory() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Remove(KeyHistory)
}

// Stats summarises the session and history.
func (t *Tracker) Stats() (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.loadSession()
	if err != nil {
		return Stats{}, err
	}
	h, err := t.loadHistory()
	if err != nil {
		return Stats{}, err
	}
	userID, err := t.resolveUserID()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{UserID: userID, HistoryCount: len(h)}
	if sess != nil {
		st.SessionID = sess.SessionID
		st.SessionAge = t.now().Sub(sess.CreatedAt)
		st.TotalSearches = sess.SearchCount
		st.CurrentQuery = sess.CurrentQuery
	}
	return st, nil
}

// UserID returns the signed-in user's id or the persistent anonymous id.
func (t *Tracker) UserID() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolveUserID()
}

// =============================================================================
// INTERNALS
// =============================================================================

func (t *Tracker) requireSession() (*Session, error) {
	sess, err := t.loadSession()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (t *Tracker) currentQuery(queryID string) (*Session, *Query, error) {
	sess, err := t.requireSession()
	if err != nil {
		return nil, nil, err
	}
	q := sess.CurrentQuery
	if q == nil || q.QueryID != queryID {
		return nil, nil, ErrQueryMismatch
	}
	if q.Steps == nil {
		q.Steps = make(map[Step]bool)
	}
	return sess, q, nil
}

// loadSession returns nil for an absent or unreadable session.
func (t *Tracker) loadSession() (*Session, error) {
	raw, ok, err := t.store.Get(KeySession)
	if err != nil {
		return nil, fmt.Errorf("read search session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.SessionID == "" {
		t.log.Warn("discarding unreadable search session", zap.Error(err))
		return nil, nil
	}
	return &sess, nil
}

func (t *Tracker) saveSession(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode search session: %w", err)
	}
	if err := t.store.Set(KeySession, string(data)); err != nil {
		return fmt.Errorf("save search session: %w", err)
	}
	return nil
}

// loadHistory returns an empty history when the stored value is unreadable.
func (t *Tracker) loadHistory() ([]Query, error) {
	raw, ok, err := t.store.Get(KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("read search history: %w", err)
	}
	if !ok {
		return []Query{}, nil
	}
	var h []Query
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		t.log.Warn("discarding unreadable search history", zap.Error(err))
		return []Query{}, nil
	}
	return h, nil
}

// addToHistory prepends q, dropping older entries for the same confirmed
// address, and trims to the maximum.
func (t *Tracker) addToHistory(q Query) error {
	h, err := t.loadHistory()
	if err != nil {
		return err
	}

	out := make([]Query, 0, len(h)+1)
	out = append(out, q)
	key := normalizeAddress(q.ConfirmedAddress)
	for _, item := range h {
		if item.QueryID == q.QueryID {
			continue
		}
		if key != "" && normalizeAddress(item.ConfirmedAddress) == key {
			continue
		}
		out = append(out, item)
	}
	if len(out) > t.max {
		out = out[:t.max]
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode search history: %w", err)
	}
	if err := t.store.Set(KeyHistory, string(data)); err != nil {
		return fmt.Errorf("save search history: %w", err)
	}
	return nil
}

func (t *Tracker) resolveUserID() (string, error) {
	if id := strings.TrimSpace(t.userID()); id != "" {
		return id, nil
	}
	id, ok, err := t.store.Get(KeyAnonymousUser)
	if err != nil {
		return "", fmt.Errorf("read anonymous id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}
	id = anonymousPrefix + t.newID()
	if err := t.store.Set(KeyAnonymousUser, id); err != nil {
		return "", fmt.Errorf("save anonymous id: %w", err)
	}
	return id, nil
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
