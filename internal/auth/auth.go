// Package auth implements admin login with bcrypt passwords and cookie-referenced sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hyperjump/electrolight/internal/config"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/storage"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated is returned for a missing, unknown or expired session.
	ErrUnauthenticated = errors.New("authentication required")
)

const minPasswordLength = 8

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknownUserHash is compared against when the username does not exist, so
// unknown and known usernames cost the same bcrypt work.
func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("electrolight-unknown-user"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Service manages admin accounts and sessions.
type Service struct {
	store   storage.Accounts
	config  *config.AuthConfig
	logger  *zap.Logger
	now     func() time.Time
	compare func(hash, password []byte) error
}

// NewService creates an auth service. A nil config uses the defaults.
func NewService(store storage.Accounts, cfg *config.AuthConfig, logger *zap.Logger) *Service {
	if cfg == nil {
		cfg = &config.AuthConfig{}
	}
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// CookieName returns the session cookie name.
func (s *Service) CookieName() string {
	return s.config.CookieName
}

// CreateAdmin hashes password and stores a new admin account.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (*models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.AdminUser{Username: username, PasswordHash: string(hash)}
	if err := s.store.CreateAdminUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and opens a new session.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, *models.AdminUser, error) {
	user, err := s.store.GetAdminUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, storage.ErrNotFound) {
		_ = s.compare(unknownUserHash(), []byte(password))
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("admin logged in", zap.String("username", user.Username))
	return session, user, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its admin account.
// Expired sessions are deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.AdminUser, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.store.GetSession(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		if err := s.store.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, ErrUnauthenticated
	}

	user, err := s.store.GetAdminUser(ctx, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return user, err
}

// PurgeExpired deletes every expired session and returns how many were removed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSessions(ctx, s.now())
}
