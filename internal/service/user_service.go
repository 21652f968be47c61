package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/filedepot/filedepot/internal/domain"
	"github.com/filedepot/filedepot/internal/jobs"
	"github.com/filedepot/filedepot/internal/repository"
)

// UserService handles user registration and credential verification.
type UserService struct {
	userRepo repository.UserRepository
	enqueuer jobs.Enqueuer
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, enqueuer jobs.Enqueuer, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		enqueuer: enqueuer,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// RegisterInput contains the data needed to register a user.
type RegisterInput struct {
	Email    string
	Password string
}

// =============================================================================
// Operations
// =============================================================================

// Register creates a new user account. Only the bcrypt hash of the password
// is persisted. On success a welcome job is enqueued; enqueue failures are
// logged but never fail the registration.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, ErrMissingEmail
	}
	if input.Password == "" {
		return nil, ErrMissingPassword
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(input.Email, string(hash))
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registrations can slip past the existence check;
		// the unique constraint is the source of truth.
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.enqueuer.EnqueueWelcome(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to enqueue welcome job")
	}

	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return user, nil
}

// Verify checks an email/password pair against the stored hash. An unknown
// email and a wrong password both yield ErrInvalidCredentials.
func (s *UserService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Count returns the total number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
