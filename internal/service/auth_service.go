package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/repository"
	"github.com/filedepot/filedepot/internal/session"
)

// AuthService exchanges Basic credentials for session tokens and resolves
// tokens back to users on authenticated requests.
type AuthService struct {
	users      *UserService
	userRepo   repository.UserRepository
	sessions   *session.Store
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users *UserService,
	userRepo repository.UserRepository,
	sessions *session.Store,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		userRepo:   userRepo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// Login parses a Basic Authorization header, verifies the credentials and
// issues a fresh session token bound to the user for the configured TTL.
// Each login produces a new token; concurrent sessions stay independent.
func (s *AuthService) Login(ctx context.Context, authorization string) (string, error) {
	email, password, ok := parseBasicAuth(authorization)
	if !ok {
		return "", ErrUnauthorized
	}

	user, err := s.users.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	token := uuid.New().String()
	s.sessions.Put(ctx, token, strconv.FormatInt(user.ID, 10), s.sessionTTL)

	s.logger.Info().Int64("user_id", user.ID).Msg("session opened")
	return token, nil
}

// Logout invalidates a session token. The token must currently resolve to a
// user, matching the behavior of every other authenticated operation.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.Resolve(ctx, token); err != nil {
		return err
	}
	s.sessions.Delete(ctx, token)
	return nil
}

// Resolve maps a session token to its user. A missing, expired or malformed
// token, and a token whose user no longer exists, all yield ErrUnauthorized.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	value, ok := s.sessions.Get(ctx, token)
	if !ok {
		return nil, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		s.logger.Error().Str("value", value).Msg("malformed user ID in session store")
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// parseBasicAuth extracts the email/password pair from a Basic Authorization
// header. Both halves must be non-empty; passwords may themselves contain
// colons, only the first colon separates the pair.
func parseBasicAuth(authorization string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(authorization, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(authorization[len(prefix):])
	if err != nil {
		return "", "", false
	}

	email, password, found := strings.Cut(string(decoded), ":")
	if !found || email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}
