package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/record"
	"shopfront/internal/usertoken"
	"shopfront/pkg/domain"
)

// AuthError is the single failure kind surfaced by login and signup. It
// carries the server-provided message when one exists.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

func authError(fallback string, err error) *AuthError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &AuthError{Message: apiErr.Message, Err: err}
	}
	return &AuthError{Message: fallback, Err: err}
}

// AuthAPI is the slice of the commerce API the session store talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error)
	SignUp(ctx context.Context, name, email, password string) (domain.User, domain.TokenPair, error)
	Logout(ctx context.Context) error
}

// Store owns the in-memory session: the authenticated user and its token
// pair. The record store is the durable backing copy, written through on
// every mutation. Authenticated() is true iff both the user record and an
// access token are present.
type Store struct {
	api     AuthAPI
	records record.Store

	mu            sync.RWMutex
	authenticated bool
	user          domain.User
	tokens        domain.TokenPair

	listenerMu sync.Mutex
	listeners  []func()
}

// NewStore builds a session store in the logged-out state.
func NewStore(authAPI AuthAPI, records record.Store) *Store {
	return &Store{api: authAPI, records: records}
}

// Subscribe registers a listener invoked synchronously after every session
// mutation, outside the store's lock.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.listenerMu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Authenticated reports whether a user and access token are both present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the current user record; ok is false when logged out.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// AccessToken returns the current access token, or "" when logged out.
// Suitable as an api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

// RefreshToken returns the current refresh token, or "" when logged out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}

// Hydrate restores the session from the persisted record at startup. No
// network call happens here: a stored token is trusted until the first API
// call that rejects it. A record missing either half leaves the store
// logged out.
func (s *Store) Hydrate(ctx context.Context) error {
	rec, ok, err := s.records.Load(ctx)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if !ok || rec.Tokens.AccessToken == "" || rec.User.ID == "" {
		return nil
	}
	if claims, err := usertoken.Peek(rec.Tokens.AccessToken); err == nil && claims.Expired(time.Now()) {
		slog.Warn("stored access token is past expiry", "user", rec.User.ID, "expiredAt", claims.ExpiresAt)
	}
	s.mu.Lock()
	s.authenticated = true
	s.user = rec.User
	s.tokens = rec.Tokens
	s.mu.Unlock()
	s.notify()
	return nil
}

// Login exchanges credentials for a session. On success the record store is
// updated before the in-memory state, so the durable copy never lags. On
// failure the pre-call state, authenticated or not, is untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	user, tokens, err := s.api.Login(ctx, email, password)
	if err != nil {
		return authError("login failed", err)
	}
	return s.establish(ctx, user, tokens)
}

// SignUp has the same contract and side effects as Login, against the
// signup endpoint.
func (s *Store) SignUp(ctx context.Context, name, email, password string) error {
	user, tokens, err := s.api.SignUp(ctx, name, email, password)
	if err != nil {
		return authError("signup failed", err)
	}
	return s.establish(ctx, user, tokens)
}

func (s *Store) establish(ctx context.Context, user domain.User, tokens domain.TokenPair) error {
	if user.ID == "" || tokens.AccessToken == "" {
		return &AuthError{Message: "malformed auth response"}
	}
	rec := record.SessionRecord{User: user, Tokens: tokens, SavedAt: time.Now().UTC()}
	if err := s.records.Save(ctx, rec); err != nil {
		return &AuthError{Message: "could not persist session", Err: err}
	}
	s.mu.Lock()
	s.authenticated = true
	s.user = user
	s.tokens = tokens
	s.mu.Unlock()
	s.notify()
	return nil
}

// Logout tears the session down. The remote notification is best-effort;
// local and persisted state are cleared no matter what, so this operation
// never fails from the caller's perspective.
func (s *Store) Logout(ctx context.Context) {
	if s.Authenticated() {
		if err := s.api.Logout(ctx); err != nil {
			slog.Warn("remote logout failed", "err", err)
		}
	}
	if err := s.records.Clear(ctx); err != nil {
		slog.Warn("clear persisted session failed", "err", err)
	}
	s.mu.Lock()
	s.authenticated = false
	s.user = domain.User{}
	s.tokens = domain.TokenPair{}
	s.mu.Unlock()
	s.notify()
}
