// Package session is the single source of truth for who is using the client.
// It reconciles the fast local cache (optimistic, possibly stale) with the
// slow network verification against /auth/me.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"writook/internal/authclient"
	"writook/internal/localstate"
	"writook/pkg/domain"
)

// Snapshot is one observed session state. User is unstable until Loading is
// false: the optimistic cached user and the verified user may differ.
type Snapshot struct {
	Token   string
	User    *domain.User
	Loading bool
}

// LoggedIn reports whether a user is present in this snapshot.
func (s Snapshot) LoggedIn() bool { return s.User != nil }

// Store holds the current session and notifies subscribers on every change.
type Store struct {
	local localstate.Store
	auth  *authclient.Client

	mu       sync.Mutex
	state    Snapshot
	restored bool
	subs     map[int]func(Snapshot)
	nextSub  int
}

// New builds a session store. The initial state is empty and loading.
func New(local localstate.Store, auth *authclient.Client) *Store {
	return &Store{
		local: local,
		auth:  auth,
		state: Snapshot{Loading: true},
		subs:  make(map[int]func(Snapshot)),
	}
}

// Restore runs once per process: it publishes the cached user immediately for
// a fast first render, then verifies the persisted token against the backend.
// Whatever happens, Loading is false when Restore returns.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return
	}
	s.restored = true
	s.mu.Unlock()

	token, hasToken, err := s.local.Get(ctx, localstate.KeyAuthToken)
	if err != nil {
		slog.Warn("session: read persisted token", "err", err)
	}
	if cached := s.cachedUser(ctx); cached != nil {
		s.setState(Snapshot{Token: token, User: cached, Loading: hasToken})
	}
	if !hasToken || token == "" {
		s.setState(Snapshot{Loading: false})
		return
	}
	s.verify(ctx, token)
}

// verify replaces the optimistic user with the backend's answer. Any failure,
// network errors included, drops the session; the user must log in again.
func (s *Store) verify(ctx context.Context, token string) {
	if tokenExpired(token) {
		slog.Debug("session: persisted token expired locally, skipping verify")
		s.drop(ctx)
		return
	}
	user, err := s.auth.Me(ctx, token)
	if err != nil {
		slog.Info("session: token verification failed", "err", err)
		s.drop(ctx)
		return
	}
	s.persistUser(ctx, user)
	s.setState(Snapshot{Token: token, User: &user, Loading: false})
}

// Login persists the token and user and publishes the logged-in state.
func (s *Store) Login(ctx context.Context, token string, user domain.User) {
	if err := s.local.Set(ctx, localstate.KeyAuthToken, token); err != nil {
		slog.Warn("session: persist token", "err", err)
	}
	s.persistUser(ctx, user)
	s.setState(Snapshot{Token: token, User: &user, Loading: false})
}

// Logout clears the persisted token and the cached user, so a stale user can
// never reappear on the next restore.
func (s *Store) Logout(ctx context.Context) {
	s.drop(ctx)
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer called on every state change, and returns
// its cancel function. The observer runs on the mutating goroutine.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
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

func (s *Store) drop(ctx context.Context) {
	if err := s.local.Delete(ctx, localstate.KeyAuthToken); err != nil {
		slog.Warn("session: clear persisted token", "err", err)
	}
	if err := s.local.Delete(ctx, localstate.KeyAuthUser); err != nil {
		slog.Warn("session: clear cached user", "err", err)
	}
	s.setState(Snapshot{Loading: false})
}

func (s *Store) setState(next Snapshot) {
	s.mu.Lock()
	s.state = next
	observers := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.mu.Unlock()
	for _, fn := range observers {
		fn(next)
	}
}

func (s *Store) cachedUser(ctx context.Context) *domain.User {
	raw, ok, err := s.local.Get(ctx, localstate.KeyAuthUser)
	if err != nil || !ok {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	if user.Username == "" {
		return nil
	}
	return &user
}

func (s *Store) persistUser(ctx context.Context, user domain.User) {
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.local.Set(ctx, localstate.KeyAuthUser, string(data)); err != nil {
		slog.Warn("session: persist cached user", "err", err)
	}
}

// tokenExpired peeks at the JWT exp claim without verifying the signature.
// A locally expired token gets the same treatment as a 401 from the backend,
// minus the round trip. Opaque tokens fall through to network verification.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
