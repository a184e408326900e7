// Package session is the single source of truth for "who is logged in". The
// HTTP client reads the bearer token from it and screens decide navigation
// off its authenticated flag. State survives restarts through a pluggable
// persister.
package session

import (
	"log/slog"
	"sync"

	"bookbuddy/pkg/domain"
)

// StorageKey is the fixed key the serialized session lives under, for
// persisters with a keyed namespace (redis). The file persister uses it as
// the default filename stem.
const StorageKey = "auth-storage"

// Session is the persisted authentication state. IsAuthenticated is always
// re-derived from the presence of both User and Token; the stored value is
// written for compatibility with the serialized layout but never trusted on
// restore.
type Session struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

func (s Session) derived() Session {
	s.IsAuthenticated = s.User != nil && s.Token != ""
	return s
}

// Options configures a Store.
type Options struct {
	// Persister backs the session across restarts. Defaults to an
	// in-process MemoryPersister.
	Persister Persister
	// RedirectToLogin runs after every Logout, including redundant ones.
	// It stands in for the navigation reset to the login route. Optional.
	RedirectToLogin func()
}

// Store holds the current session and notifies subscribers after every
// mutation. Persistence is best-effort: storage failures are logged, never
// surfaced to mutation callers.
type Store struct {
	mu        sync.RWMutex
	cur       Session
	persister Persister
	redirect  func()
	subs      map[int]func(Session)
	nextSub   int
}

// NewStore builds a store and restores any persisted session.
func NewStore(opts Options) *Store {
	persister := opts.Persister
	if persister == nil {
		persister = NewMemoryPersister()
	}
	s := &Store{
		persister: persister,
		redirect:  opts.RedirectToLogin,
		subs:      make(map[int]func(Session)),
	}
	restored, ok, err := persister.Load()
	if err != nil {
		slog.Warn("session restore failed", "err", err)
	}
	if ok {
		s.cur = restored.derived()
	}
	return s
}

// Login replaces the session with the given user and token.
func (s *Store) Login(user domain.User, token string) {
	s.mu.Lock()
	s.cur = Session{User: &user, Token: token}.derived()
	s.persist()
	snapshot := s.cur
	s.mu.Unlock()
	s.notify(snapshot)
}

// Logout clears the session and fires the login redirect. Idempotent: when
// already logged out it only re-navigates.
func (s *Store) Logout() {
	s.mu.Lock()
	s.cur = Session{}
	if err := s.persister.Clear(); err != nil {
		slog.Warn("session clear failed", "err", err)
	}
	snapshot := s.cur
	s.mu.Unlock()
	s.notify(snapshot)
	if s.redirect != nil {
		s.redirect()
	}
}

// SetUser shallow-merges the patch into the current user. No-op when no user
// is set.
func (s *Store) SetUser(patch domain.UserPatch) {
	s.mu.Lock()
	if s.cur.User == nil {
		s.mu.Unlock()
		return
	}
	merged := patch.Apply(*s.cur.User)
	s.cur.User = &merged
	s.persist()
	snapshot := s.cur
	s.mu.Unlock()
	s.notify(snapshot)
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Token returns the current bearer token, empty when logged out. Satisfies
// the API client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// IsAuthenticated reports whether both a user and a token are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.IsAuthenticated
}

// UserID returns the logged-in user's ID, empty when logged out.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur.User == nil {
		return ""
	}
	return s.cur.User.ID
}

// Subscribe registers a change listener and returns its cancel func. The
// listener receives a session snapshot after every mutation.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) persist() {
	if err := s.persister.Save(s.cur); err != nil {
		slog.Warn("session persist failed", "err", err)
	}
}

func (s *Store) notify(snapshot Session) {
	s.mu.RLock()
	listeners := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
