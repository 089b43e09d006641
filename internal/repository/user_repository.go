package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/veloworks/user-service/internal/models"
	"github.com/veloworks/user-service/internal/storage"
)

type UserRepository struct {
	db *storage.Postgres
}

func NewUserRepository(db *storage.Postgres) *UserRepository {
	return &UserRepository{db: db}
}

// Inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.DB.WithContext(ctx).Create(user).Error
}

// Retrieves user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &user, err
}

// Retrieves user by id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &user, err
}

// Updates the given fields on a user record
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Deletes a user by id and reports how many rows were affected, so the
// caller can distinguish a delete from a no-op on a missing record.
func (r *UserRepository) DeleteByID(ctx context.Context, id string) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.User{})

	return result.RowsAffected, result.Error
}
