package service

import (
	"context"

	"github.com/veloworks/user-service/internal/cache"
	"github.com/veloworks/user-service/internal/models"
	"github.com/veloworks/user-service/internal/observability"
)

type UserService struct {
	repo   UserRepository
	cache  *cache.UserCache
	logger *observability.Logger
}

func NewUserService(repo UserRepository, userCache *cache.UserCache, logger *observability.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  userCache,
		logger: logger,
	}
}

// GetInternalUser serves the projection other services read. Cache
// first, system of record on miss, write-back with TTL. A down or
// disabled cache degrades to plain database reads; cache errors never
// reach the caller.
func (s *UserService) GetInternalUser(ctx context.Context, userID string) (*models.Projection, error) {
	if projection, err := s.cache.Get(ctx, userID); err == nil {
		return projection, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	projection := user.Projection()
	if err := s.cache.Set(ctx, projection); err != nil {
		s.logger.Warn("user_cache_set_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	return projection, nil
}

// Retrieves the full user record
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ProfileUpdate carries the optional plan and add-on changes.
type ProfileUpdate struct {
	Name         *string
	Avatar       *string
	Plan         *string
	ReceiptScans *bool
	MultiWallet  *bool
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Avatar != nil {
		fields["avatar"] = *update.Avatar
	}
	if update.Plan != nil {
		fields["plan"] = *update.Plan
	}
	if update.ReceiptScans != nil {
		fields["receipt_scans"] = *update.ReceiptScans
	}
	if update.MultiWallet != nil {
		fields["multi_wallet"] = *update.MultiWallet
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, userID)
}
