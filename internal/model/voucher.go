package model

import "time"

type Voucher struct {
	Code       string    `gorm:"type:varchar(16);primaryKey" json:"code"`
	Value      float64   `gorm:"type:double precision;not null" json:"value"`
	ExpiryDate time.Time `gorm:"type:timestamptz;not null" json:"expiryDate"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null" json:"createdAt"`
	IsValid    bool      `gorm:"not null;default:true" json:"isValid"`
}

func (Voucher) TableName() string { return "vouchers" }

// NewVoucher assembles a freshly issued voucher. It performs no validation:
// value and expiry are checked before a code is ever generated.
func NewVoucher(code string, value float64, expiryDate, now time.Time) *Voucher {
	return &Voucher{
		Code:       code,
		Value:      value,
		ExpiryDate: expiryDate,
		CreatedAt:  now,
		IsValid:    true,
	}
}

// IsExpired reports whether the voucher's expiry lies strictly before now.
func (v *Voucher) IsExpired(now time.Time) bool {
	return v.ExpiryDate.Before(now)
}

// Clone returns a copy that shares no state with v.
func (v *Voucher) Clone() *Voucher {
	c := *v
	return &c
}
