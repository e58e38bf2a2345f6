package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rolodex/rolodex/internal/auth"
	"github.com/rolodex/rolodex/internal/metrics"
	"github.com/rolodex/rolodex/internal/model"
	"github.com/rolodex/rolodex/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	users   repository.UserStore
	hasher  auth.PasswordHasher
	tokens  *auth.TokenManager
	metrics metrics.Recorder
	clock   Clock
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, hasher auth.PasswordHasher, tokens *auth.TokenManager, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
		clock:   time.Now,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	Username  string
	UserID    string
	ExpiresAt time.Time
}

// Register creates a new account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	switch {
	case username == "":
		return nil, validationError("username is required")
	case email == "":
		return nil, validationError("email is required")
	case input.Password == "":
		return nil, validationError("password is required")
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           generateULID(),
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    s.clock.now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email,
// wrong password and empty input all fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.metrics.IncLogin(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.LoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)

	return &LoginResult{
		Token:     token,
		Username:  user.Username,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}
