package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roms-in-tech/authgate/internal/domain"
)

// Service verifies credentials and registers accounts. It holds no state of
// its own; all durable state lives in the user repository.
type Service struct {
	users  domain.UserRepository
	hasher PasswordHasher
}

func NewService(users domain.UserRepository, hasher PasswordHasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// Authenticate resolves a username/password pair to a user.
//
// An unknown username and a wrong password return distinct rejections so the
// outcome can be logged precisely, but both carry messages that render
// identically at the entry page. Store or hasher faults propagate as plain
// errors and must never be treated as bad credentials. Session establishment
// is the caller's job.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		slog.InfoContext(ctx, "Login attempt for unknown username", "username", username)
		return nil, ErrIncorrectUsername
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		slog.InfoContext(ctx, "Login attempt with wrong password", "user_id", user.ID)
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

// Register validates a new-account request, hashes the password, and inserts
// the user. A rejected registration performs no insert. Duplicate usernames
// surface as a rejection: the store's unique index is the arbiter when
// concurrent signups race, so a duplicate-key error is an expected outcome
// here, not a fault. On success the caller is expected to establish a session
// immediately (signup implies login).
func (s *Service) Register(ctx context.Context, username, password, confirm string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if password != confirm {
		return nil, ErrPasswordsDontMatch
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Insert(ctx, username, passwordHash)
	if errors.Is(err, domain.ErrUsernameTaken) {
		slog.InfoContext(ctx, "Signup attempt for taken username", "username", username)
		return nil, ErrSignupFailed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}
