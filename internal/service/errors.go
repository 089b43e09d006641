package service

import "errors"

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// ErrDeletionBlocked means the expenses service reported outstanding
	// financial records; the account must not be deleted.
	ErrDeletionBlocked = errors.New("account has unsettled financial records")

	// ErrDebtCheckUnavailable means the financial status could not be
	// verified. Deletion is blocked: uncertainty never permits an
	// irreversible action. Callers should surface this as retryable.
	ErrDebtCheckUnavailable = errors.New("financial status could not be verified")
)
