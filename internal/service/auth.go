package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/repository"
)

// AuthService exchanges credentials for access tokens.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// Authenticate verifies the credentials and issues a signed access token
// whose subject is the user's pseudo.
//
// An unknown pseudo and a wrong password both produce the same unauthorized
// error, so the endpoint does not reveal which half of the credentials was
// wrong.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByPseudo(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("Invalid username or password")
		}
		return "", fmt.Errorf("authenticating %s: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login attempt", slog.String("pseudo", username))
		return "", apperror.Unauthorized("Invalid username or password")
	}

	token, err := s.tokens.Issue(user.Pseudo)
	if err != nil {
		return "", fmt.Errorf("issuing token for %s: %w", username, err)
	}

	s.logger.Info("token issued", slog.String("pseudo", user.Pseudo))
	return token, nil
}
