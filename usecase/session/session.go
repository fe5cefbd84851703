// Package session owns the client's identity: it authenticates through the
// API, persists the result and restores it on start.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/repository"
)

// Authenticator performs the remote credential exchange.
type Authenticator interface {
	Login(ctx context.Context, cred domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, r domain.Registration) error
}

// Store is the single owner of the current session. It is either Anonymous
// (empty user id) or Authenticated.
type Store struct {
	storage repository.SessionStorage
	auth    Authenticator
	logger  *zap.Logger

	mu      sync.RWMutex
	current domain.Session
}

func New(storage repository.SessionStorage, auth Authenticator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: storage,
		auth:    auth,
		logger:  logger,
	}
}

// Rehydrate restores the session from storage without contacting the server.
// It never fails: unreadable state degrades to Anonymous, unreadable roles to
// an empty role set.
func (s *Store) Rehydrate(ctx context.Context) domain.Session {
	restored := domain.Session{}

	userID, err := s.storage.Get(ctx, repository.KeyUserID)
	switch {
	case errors.Is(err, domain.ErrStorageKeyAbsent):
	case err != nil:
		s.logger.Warn("session storage unreadable, starting anonymous", zap.Error(err))
	default:
		restored.UserID = strings.TrimSpace(userID)
	}

	if restored.IsAuthenticated() {
		raw, err := s.storage.Get(ctx, repository.KeyRoles)
		switch {
		case err == nil:
			restored.Roles = domain.ParseRoles(raw)
		case !errors.Is(err, domain.ErrStorageKeyAbsent):
			s.logger.Warn("stored roles unreadable", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.current = restored
	s.mu.Unlock()

	if restored.IsAuthenticated() {
		s.logger.Debug("session restored", zap.String("user_id", restored.UserID), zap.Strings("roles", restored.Roles.Strings()))
	}
	return restored
}

// Login authenticates and persists the session. On failure the store keeps
// its previous state and the failure is returned unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Session, error) {
	cred := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := cred.Validate(); err != nil {
		return s.Current(), err
	}

	sess, err := s.auth.Login(ctx, cred)
	if err != nil {
		s.logger.Info("login rejected", zap.String("email", cred.Email), zap.Error(err))
		return s.Current(), err
	}

	if err := s.persist(ctx, sess); err != nil {
		s.clearStorage(ctx)
		return s.Current(), domain.WrapError(domain.ErrCodeInternal, "could not save session", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info("logged in", zap.String("user_id", sess.UserID), zap.Strings("roles", sess.Roles.Strings()))
	return sess, nil
}

// Register creates an account. The store stays Anonymous.
func (s *Store) Register(ctx context.Context, r domain.Registration) error {
	r.Email = strings.TrimSpace(r.Email)
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.auth.Register(ctx, r); err != nil {
		return err
	}
	s.logger.Info("registered", zap.String("email", r.Email))
	return nil
}

// Logout clears memory and storage. Storage failures are logged only.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()
	s.clearStorage(ctx)
}

// Invalidate logs out after the server rejected the session.
func (s *Store) Invalidate(ctx context.Context, reason string) {
	s.logger.Warn("session invalidated", zap.String("user_id", s.UserID()), zap.String("reason", reason))
	s.Logout(ctx)
}

// Current returns a copy of the session.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// UserID is the identity sent on authenticated API calls.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.UserID
}

func (s *Store) persist(ctx context.Context, sess domain.Session) error {
	roles, err := sess.Roles.MarshalJSON()
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, repository.KeyUserID, sess.UserID); err != nil {
		return fmt.Errorf("store %s: %w", repository.KeyUserID, err)
	}
	if err := s.storage.Set(ctx, repository.KeyRoles, string(roles)); err != nil {
		return fmt.Errorf("store %s: %w", repository.KeyRoles, err)
	}
	return nil
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), repository.KeyUserID, repository.KeyRoles); err != nil {
		s.logger.Warn("could not clear session storage", zap.Error(err))
	}
}
