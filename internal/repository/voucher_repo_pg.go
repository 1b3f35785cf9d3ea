package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rewards/voucherhub/internal/model"
)

type pgVoucherRepository struct {
	db *gorm.DB
}

// NewPGVoucherRepository expects db to be opened with TranslateError so that
// primary-key conflicts surface as gorm.ErrDuplicatedKey.
func NewPGVoucherRepository(db *gorm.DB) VoucherRepository {
	return &pgVoucherRepository{db: db}
}

func (r *pgVoucherRepository) Create(ctx context.Context, v *model.Voucher) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCodeExists
	}
	return err
}

func (r *pgVoucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	var v model.Voucher
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *pgVoucherRepository) Exists(ctx context.Context, code string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.Voucher{}).
		Where("code = ?", code).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *pgVoucherRepository) InvalidateExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Voucher{}).
		Where("expiry_date < ? AND is_valid = ?", before, true).
		UpdateColumn("is_valid", false)
	return res.RowsAffected, res.Error
}
