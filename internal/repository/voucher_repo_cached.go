package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"

	"rewards/voucherhub/internal/model"
)

type cachedVoucherRepository struct {
	next  VoucherRepository
	cache *ristretto.Cache
	ttl   time.Duration
	loads singleflight.Group
}

// NewCachedVoucherRepository fronts next with an in-process read cache.
// Only positive lookups are cached: a miss always reaches next, so Exists
// never reports a stored code as free.
func NewCachedVoucherRepository(next VoucherRepository, maxEntries int64, ttl time.Duration) (VoucherRepository, error) {
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create voucher cache: %w", err)
	}

	return &cachedVoucherRepository{next: next, cache: cache, ttl: ttl}, nil
}

func (r *cachedVoucherRepository) Create(ctx context.Context, v *model.Voucher) error {
	if err := r.next.Create(ctx, v); err != nil {
		return err
	}
	r.store(v)
	return nil
}

func (r *cachedVoucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	if v, ok := r.cached(code); ok {
		return v, nil
	}

	// Concurrent misses for one code share a single backing read.
	val, err, _ := r.loads.Do(code, func() (interface{}, error) {
		v, err := r.next.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		r.store(v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.Voucher).Clone(), nil
}

func (r *cachedVoucherRepository) Exists(ctx context.Context, code string) (bool, error) {
	if _, ok := r.cached(code); ok {
		return true, nil
	}
	return r.next.Exists(ctx, code)
}

func (r *cachedVoucherRepository) InvalidateExpired(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.next.InvalidateExpired(ctx, before)
	if n > 0 {
		r.cache.Clear()
	}
	return n, err
}

func (r *cachedVoucherRepository) cached(code string) (*model.Voucher, bool) {
	val, ok := r.cache.Get(code)
	if !ok {
		return nil, false
	}
	v, ok := val.(*model.Voucher)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

func (r *cachedVoucherRepository) store(v *model.Voucher) {
	r.cache.SetWithTTL(v.Code, v.Clone(), 1, r.ttl)
	// Sets are buffered; wait so the next read on this instance sees it.
	r.cache.Wait()
}
