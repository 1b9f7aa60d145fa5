package services

import (
	"context"

	"github.com/google/uuid"

	"team-chat/internal/domain/user"
	"team-chat/internal/repository"
)

// UserService is the narrow user directory this core depends on.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) FindUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
