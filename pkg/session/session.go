// Package session keeps per-browser UI state in memory, keyed by a random
// cookie. Values are stored and returned by copy; callers replace a session
// wholesale with Put rather than mutating it in place.
//
// Idle sessions are evicted lazily on access once their TTL has passed, and
// the least recently used session is dropped when the store is full. No
// background goroutine is involved.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rubiojr/dataplans/pkg/log"
)

// CookieName is the session cookie set on every browser.
const CookieName = "dataplans_session"

type entry[T any] struct {
	value T
	seen  time.Time
}

// Store maps session ids to values of type T. It is safe for concurrent use.
type Store[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	max     int

	// Now is the clock used for expiry.
	Now func() time.Time

	logger *log.Logger
}

// New returns a store. A ttl of zero disables expiry; a maxSessions of zero
// disables the size cap.
func New[T any](ttl time.Duration, maxSessions int) *Store[T] {
	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		max:     maxSessions,
		Now:     time.Now,
		logger:  log.ForService("session"),
	}
}

// Get returns the value for id and refreshes its idle timer. Expired
// sessions are removed and reported as missing.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	e, ok := s.entries[id]
	if !ok {
		return zero, false
	}
	now := s.Now()
	if s.expired(e, now) {
		delete(s.entries, id)
		s.logger.Debugf("session %s expired", id)
		return zero, false
	}
	e.seen = now
	s.entries[id] = e
	return e.value, true
}

// Put stores v under id, replacing any previous value.
func (s *Store[T]) Put(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	if _, exists := s.entries[id]; !exists {
		s.makeRoom(now)
	}
	s.entries[id] = entry[T]{value: v, seen: now}
}

// Create stores v under a new random id and returns the id.
func (s *Store[T]) Create(v T) string {
	id := uuid.NewString()
	s.Put(id, v)
	return id
}

// Delete removes id.
func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of stored sessions, expired ones included until
// they are next touched.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store[T]) expired(e entry[T], now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.seen) > s.ttl
}

// makeRoom drops expired sessions and, if the store is still full, the
// least recently seen one. Callers hold mu.
func (s *Store[T]) makeRoom(now time.Time) {
	if s.max <= 0 || len(s.entries) < s.max {
		return
	}
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
	for len(s.entries) >= s.max {
		var oldestID string
		var oldest time.Time
		for id, e := range s.entries {
			if oldestID == "" || e.seen.Before(oldest) {
				oldestID, oldest = id, e.seen
			}
		}
		delete(s.entries, oldestID)
		s.logger.Debugf("evicted session %s, store full", oldestID)
	}
}

// Load returns the session of the requesting browser, creating one holding
// fresh() and setting the cookie when the browser has none or it expired.
func (s *Store[T]) Load(w http.ResponseWriter, r *http.Request, fresh func() T) (string, T) {
	if c, err := r.Cookie(CookieName); err == nil {
		if v, ok := s.Get(c.Value); ok {
			return c.Value, v
		}
	}
	v := fresh()
	id := s.Create(v)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, v
}
