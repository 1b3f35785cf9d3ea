package repository

import (
	"context"
	"errors"
	"time"

	"rewards/voucherhub/internal/model"
)

var (
	// ErrNotFound indicates the requested voucher does not exist.
	ErrNotFound = errors.New("voucher not found")

	// ErrCodeExists indicates another voucher already holds the code.
	ErrCodeExists = errors.New("voucher code already exists")
)

// VoucherRepository persists vouchers keyed by code.
// All implementations must be safe for concurrent use.
type VoucherRepository interface {
	// Create inserts v only if its code is free; first writer wins.
	// Returns ErrCodeExists if the code is taken.
	Create(ctx context.Context, v *model.Voucher) error

	// GetByCode returns ErrNotFound if the code doesn't exist.
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)

	// Exists reports whether a voucher with code has been stored.
	Exists(ctx context.Context, code string) (bool, error)

	// InvalidateExpired flips IsValid to false on every valid voucher whose
	// expiry lies before the given time and returns how many changed.
	InvalidateExpired(ctx context.Context, before time.Time) (int64, error)
}
