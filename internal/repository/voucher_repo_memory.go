package repository

import (
	"context"
	"sync"
	"time"

	"rewards/voucherhub/internal/model"
)

type memoryVoucherRepository struct {
	mu   sync.RWMutex
	data map[string]*model.Voucher
}

// NewMemoryVoucherRepository returns a process-local store for development
// and tests. Stored vouchers are cloned on the way in and out.
func NewMemoryVoucherRepository() VoucherRepository {
	return &memoryVoucherRepository{
		data: make(map[string]*model.Voucher),
	}
}

func (r *memoryVoucherRepository) Create(ctx context.Context, v *model.Voucher) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[v.Code]; exists {
		return ErrCodeExists
	}
	r.data[v.Code] = v.Clone()
	return nil
}

func (r *memoryVoucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.data[code]
	if !exists {
		return nil, ErrNotFound
	}
	return v.Clone(), nil
}

func (r *memoryVoucherRepository) Exists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.data[code]
	return exists, nil
}

func (r *memoryVoucherRepository) InvalidateExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	for _, v := range r.data {
		if v.IsValid && v.ExpiryDate.Before(before) {
			v.IsValid = false
			changed++
		}
	}
	return changed, nil
}
