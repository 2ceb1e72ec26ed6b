package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"kadry/pkg/sentinel"
)

// Service authenticates staff. Failed logins collapse to one opaque
// unauthorized error so the response never reveals whether the username
// exists.
type Service struct {
	users  UserStore
	tokens *TokenService
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(users UserStore, tokens *TokenService, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("auth service: user store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("auth service: token service is required")
	}
	s := &Service{
		users:  users,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Service) Tokens() *TokenService { return s.tokens }

// Register creates a staff account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", sentinel.ErrInvalidState)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Burn a comparison anyway to keep timing uniform.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000uGyyRC0U3Nb8S0nYA5o7dO0ZC3eGyqW"), []byte(password))
			return TokenPair{}, fmt.Errorf("bad credentials: %w", sentinel.ErrUnauthorized)
		}
		return TokenPair{}, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected", slog.String("username", username))
		return TokenPair{}, fmt.Errorf("bad credentials: %w", sentinel.ErrUnauthorized)
	}

	return s.tokens.GeneratePair(user.ID)
}

// Refresh trades a valid refresh token for a fresh pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.tokens.Validate(refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	// The account must still exist: deleting a user revokes their refresh
	// tokens at the next renewal.
	if _, err := s.users.ByID(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("account gone: %w", sentinel.ErrUnauthorized)
		}
		return TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	return s.tokens.GeneratePair(userID)
}

// User loads an account by ID.
func (s *Service) User(ctx context.Context, id int64) (*User, error) {
	return s.users.ByID(ctx, id)
}
