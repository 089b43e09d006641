package service

import (
	"context"
	"fmt"

	"github.com/veloworks/user-service/internal/clients"
	"github.com/veloworks/user-service/internal/observability"
)

// CleanupEnqueuer hands a user id to the background cleanup worker.
type CleanupEnqueuer interface {
	Enqueue(userID string)
}

// DeletionResult records what one deletion attempt did. RemoteCleanup
// is "pending" when the response is sent: the analytics call resolves
// after the fact and is observed only through logs.
type DeletionResult struct {
	UserID        string             `json:"user_id"`
	DebtStatus    clients.DebtStatus `json:"-"`
	LocalDeleted  bool               `json:"local_deleted"`
	RemoteCleanup string             `json:"remote_cleanup"`
}

// AccountService orchestrates account deletion across three systems
// with different consistency guarantees.
type AccountService struct {
	repo     UserRepository
	expenses *clients.ExpensesClient
	cleanup  CleanupEnqueuer
	logger   *observability.Logger
}

func NewAccountService(repo UserRepository, expenses *clients.ExpensesClient, cleanup CleanupEnqueuer, logger *observability.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		expenses: expenses,
		cleanup:  cleanup,
		logger:   logger,
	}
}

// DeleteAccount runs the deletion saga:
//
//  1. Debt check against the expenses service, blocking and fail-closed.
//     An unverifiable status aborts before anything is written.
//  2. Local delete, strongly consistent. Zero rows means not-found and
//     the saga ends; nothing was removed, nothing to compensate.
//  3. Analytics cleanup, fire-and-forget via the background worker.
//     The local delete is already committed, so its failure is a
//     consistency alert, never an error to the caller.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) (*DeletionResult, error) {
	result := &DeletionResult{UserID: userID, RemoteCleanup: "skipped"}

	status, err := s.expenses.CheckDebtStatus(ctx, userID)
	result.DebtStatus = status

	switch status {
	case clients.DebtStatusBlocked:
		return result, ErrDeletionBlocked
	case clients.DebtStatusAllowed:
		// proceed
	default:
		s.logger.Warn("debt_check_unverifiable", map[string]any{
			"user_id": userID,
			"error":   errString(err),
		})
		return result, fmt.Errorf("%w: %v", ErrDebtCheckUnavailable, err)
	}

	affected, err := s.repo.DeleteByID(ctx, userID)
	if err != nil {
		return result, err
	}
	if affected == 0 {
		return result, ErrUserNotFound
	}
	result.LocalDeleted = true

	s.cleanup.Enqueue(userID)
	result.RemoteCleanup = "pending"

	s.logger.Info("account_deleted", map[string]any{
		"user_id": userID,
	})

	return result, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
