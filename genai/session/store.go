// Package session provides the server-side quota ledger backing prepaid
// recommendation batches. State is process-lifetime only; restarting the
// server forfeits open sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the session id is unknown or already swept.
	ErrNotFound = errors.New("session not found")

	// ErrQuotaExhausted indicates the session has no remaining prepaid
	// batches. It is an expected business outcome, not a failure.
	ErrQuotaExhausted = errors.New("session quota exhausted")

	// ErrNotOwner indicates the session belongs to a different user.
	ErrNotOwner = errors.New("session owned by another user")
)

const (
	defaultTTL           = 24 * time.Hour
	defaultSweepInterval = time.Hour
)

// Context captures the search parameters a session was opened for, so
// follow-up batches stay consistent with the paid request.
type Context struct {
	Location  string   `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Session is one prepaid recommendation session.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	RemainingQuota int       `json:"remainingQuota"`
	CreatedAt      time.Time `json:"createdAt"`
	Context        Context   `json:"context,omitempty"`
}

// Store manages sessions keyed by id. All operations are concurrency-safe;
// quota consumption is check-and-decrement under one lock so concurrent
// requests can never both succeed on the last credit.
type Store struct {
	mux  sync.RWMutex
	data map[string]*Session

	now           func() time.Time
	ttl           time.Duration
	sweepInterval time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweepInterval overrides how often expired sessions are removed.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// NewStore creates an empty session store.
func NewStore(options ...Option) *Store {
	store := &Store{
		data:          make(map[string]*Session),
		now:           time.Now,
		ttl:           defaultTTL,
		sweepInterval: defaultSweepInterval,
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// Create opens a new session with the given prepaid quota and returns its id.
func (s *Store) Create(userID string, initialQuota int, sessionContext Context) string {
	id := uuid.New().String()
	s.mux.Lock()
	defer s.mux.Unlock()
	s.data[id] = &Session{
		ID:             id,
		UserID:         userID,
		RemainingQuota: initialQuota,
		CreatedAt:      s.now(),
		Context:        sessionContext,
	}
	return id
}

// Get returns a copy of the session or ErrNotFound. Expired sessions are
// reported as not found even before the sweeper removes them.
func (s *Store) Get(id string) (Session, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	entry, ok := s.data[id]
	if !ok || s.expired(entry) {
		return Session{}, ErrNotFound
	}
	return *entry, nil
}

// Consume atomically decrements the remaining quota. It returns true when a
// credit was taken, false when the quota was already zero, and ErrNotFound
// for an unknown or expired session.
func (s *Store) Consume(id string) (bool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	entry, ok := s.data[id]
	if !ok || s.expired(entry) {
		return false, ErrNotFound
	}
	if entry.RemainingQuota <= 0 {
		return false, nil
	}
	entry.RemainingQuota--
	return true, nil
}

// ConsumeFor verifies ownership and consumes one credit as a single
// operation, mapping the outcome onto the error taxonomy: ErrNotFound,
// ErrNotOwner or ErrQuotaExhausted.
func (s *Store) ConsumeFor(id, userID string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	entry, ok := s.data[id]
	if !ok || s.expired(entry) {
		return ErrNotFound
	}
	if entry.UserID != userID {
		return ErrNotOwner
	}
	if entry.RemainingQuota <= 0 {
		return ErrQuotaExhausted
	}
	entry.RemainingQuota--
	return nil
}

// Sweep removes every session older than the TTL, regardless of remaining
// quota, and returns how many were removed.
func (s *Store) Sweep() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	removed := 0
	for id, entry := range s.data {
		if s.expired(entry) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the configured interval until ctx is done.
func (s *Store) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.data)
}

func (s *Store) expired(entry *Session) bool {
	return s.now().Sub(entry.CreatedAt) > s.ttl
}
