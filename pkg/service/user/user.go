// Package user provides business logic for user management operations.
package user

import (
	"context"
	"log/slog"

	"github.com/amirasaad/donation/pkg/domain/user"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/pkg/repository"
	"github.com/google/uuid"
)

// Service provides business logic for user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:    uow,
		logger: logger.With("service", "user"),
	}
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *Service) CreateUser(
	ctx context.Context,
	username, email, password string,
) (*user.User, error) {
	u, err := user.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, &dto.UserCreate{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
	}); err != nil {
		s.logger.Warn("user creation failed", "username", username, "error", err)
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(
	ctx context.Context,
	userID uuid.UUID,
) (*dto.UserRead, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, userID)
}
