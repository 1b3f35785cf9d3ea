package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Voucher{}); err != nil {
		return err
	}

	// The expiry sweep only ever scans vouchers that are still valid.
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_vouchers_valid_expiry " +
			"ON vouchers (expiry_date) WHERE is_valid",
	).Error
}
