package service

import (
	"context"

	"github.com/veloworks/user-service/internal/models"
	"github.com/veloworks/user-service/internal/repository"
)

// UserRepository is the persistence seam the services depend on,
// implemented by repository.UserRepository.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	DeleteByID(ctx context.Context, id string) (int64, error)
}

var _ UserRepository = (*repository.UserRepository)(nil)
