// Package service contains the business logic layer: uniqueness rules,
// reference resolution, credential checks. Services accept plain values and
// return domain errors; they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/pastebin/internal/apperror"
	"github.com/sakif/pastebin/internal/auth"
	"github.com/sakif/pastebin/internal/model"
	"github.com/sakif/pastebin/internal/repository"
)

// UserService handles account registration, profile updates and deletion.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateUserInput carries the schema-validated registration payload.
type CreateUserInput struct {
	Firstname string
	Lastname  string
	Pseudo    string
	Email     string
	Password  string
}

// UpdateUserInput carries a partial profile update. Nil fields were absent
// from the payload and leave the stored value untouched.
type UpdateUserInput struct {
	Firstname *string
	Lastname  *string
	Pseudo    *string
	Email     *string
	Password  *string
}

// Create registers a new account. The password is hashed before anything is
// stored; the plaintext never leaves this method.
//
// Pseudo and email uniqueness are pre-checked to produce the documented
// conflict messages. The store's UNIQUE constraints remain the authoritative
// check: a concurrent duplicate that slips past the pre-check surfaces as
// the same conflict error from the repository.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if err := s.checkPseudoFree(ctx, in.Pseudo); err != nil {
		return nil, err
	}
	if err := s.checkEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	user := &model.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Pseudo:       in.Pseudo,
		Email:        in.Email,
		PasswordHash: hash,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("pseudo", in.Pseudo),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("id", user.ID),
		slog.String("pseudo", user.Pseudo),
	)

	return user, nil
}

// GetByID retrieves a user by primary identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// List retrieves users in insertion order with the given bounds.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Update applies a partial update to user. Only non-nil input fields change
// the stored entity; a supplied password is re-hashed. Changing pseudo or
// email to a value held by another account is a conflict.
func (s *UserService) Update(ctx context.Context, user *model.User, in UpdateUserInput) (*model.User, error) {
	if in.Pseudo != nil && *in.Pseudo != user.Pseudo {
		if err := s.checkPseudoFree(ctx, *in.Pseudo); err != nil {
			return nil, err
		}
		user.Pseudo = *in.Pseudo
	}
	if in.Email != nil && *in.Email != user.Email {
		if err := s.checkEmailFree(ctx, *in.Email); err != nil {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.Firstname != nil {
		user.Firstname = *in.Firstname
	}
	if in.Lastname != nil {
		user.Lastname = *in.Lastname
	}
	if in.Password != nil {
		hash, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("updating user: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		s.logger.Error("failed to update user",
			slog.String("id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("user updated", slog.String("id", user.ID))
	return user, nil
}

// Delete removes a user and, through the store's cascade, every snippet the
// user owns. A second delete of the same id reports not found.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("id", id))
	return nil
}

func (s *UserService) checkPseudoFree(ctx context.Context, pseudo string) error {
	_, err := s.repo.GetUserByPseudo(ctx, pseudo)
	if err == nil {
		return apperror.Conflict(fmt.Sprintf("A user with pseudo %s already exists", pseudo))
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("checking pseudo uniqueness: %w", err)
	}
	return nil
}

func (s *UserService) checkEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return apperror.Conflict(fmt.Sprintf("A user with email %s already exists", email))
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("checking email uniqueness: %w", err)
	}
	return nil
}
