package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mvickers/tubetui/internal/config"
	"github.com/mvickers/tubetui/internal/domain"
	"github.com/mvickers/tubetui/internal/store"
)

// AuthEvent is broadcast to subscribers whenever authentication state
// changes.
type AuthEvent struct {
	LoggedIn bool
	User     *domain.User
}

// SessionService is the single process-wide holder of authentication state.
// Views read it and subscribe to transitions; they never mutate it directly,
// only trigger Revalidate. On expiry it clears stored credentials and wipes
// the local cache, and every subscriber is told to drop user-scoped state.
type SessionService struct {
	repo   domain.SessionRepository
	cache  *store.FeedCache
	logger *slog.Logger

	mu     sync.Mutex
	user   *domain.User
	nextID int
	subs   map[int]chan AuthEvent
}

// NewSessionService creates a new session service.
func NewSessionService(repo domain.SessionRepository, cache *store.FeedCache, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		subs:   make(map[int]chan AuthEvent),
	}
}

// Subscribe registers for auth transitions. The returned cancel func must be
// called when the subscriber goes away.
func (s *SessionService) Subscribe() (<-chan AuthEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan AuthEvent, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// CurrentUser returns the authenticated user, or nil when logged out.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Login authenticates, persists credentials, and notifies subscribers.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, token, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := config.SaveCredentials(token, user.ID, user.Handle); err != nil {
		s.logger.Warn("failed to persist credentials", "error", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.logger.Info("logged in", "user", user.Handle)
	s.broadcast(AuthEvent{LoggedIn: true, User: user})
	return user, nil
}

// Revalidate asks the backend whether the stored token is still good and
// updates local state accordingly.
func (s *SessionService) Revalidate(ctx context.Context) error {
	user, err := s.repo.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) || errors.Is(err, domain.ErrNotAuthenticated) {
			s.Expire()
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.broadcast(AuthEvent{LoggedIn: true, User: user})
	return nil
}

// Logout invalidates the server session (best effort) and clears all local
// state.
func (s *SessionService) Logout(ctx context.Context) {
	if err := s.repo.Logout(ctx); err != nil {
		s.logger.Warn("server logout failed", "error", err)
	}
	s.Expire()
}

// Expire clears stored credentials and the feed cache, drops the in-memory
// user, and notifies every subscriber. Called on 401/expired-token errors
// from any call site; safe to call repeatedly.
func (s *SessionService) Expire() {
	if err := config.ClearCredentials(); err != nil {
		s.logger.Warn("failed to clear credentials", "error", err)
	}
	if s.cache != nil {
		s.cache.Wipe()
	}

	s.mu.Lock()
	alreadyOut := s.user == nil
	s.user = nil
	s.mu.Unlock()

	if !alreadyOut {
		s.logger.Info("session expired, credentials cleared")
	}
	s.broadcast(AuthEvent{LoggedIn: false})
}

// HandleError routes an error from any remote call: session-expiry errors
// trigger the global expiry path and return true so the caller can redirect
// to login instead of showing a generic failure.
func (s *SessionService) HandleError(err error) bool {
	if errors.Is(err, domain.ErrSessionExpired) {
		s.Expire()
		return true
	}
	return false
}

func (s *SessionService) broadcast(ev AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default: // Subscriber hasn't drained the last event; drop
		}
	}
}
