package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid voucher data")
	ErrParameterRetrieval = errors.New("failed to retrieve offensive words")
	ErrCodeConflict       = errors.New("voucher code conflicted on store")
	ErrVoucherNotFound    = errors.New("voucher not found")
)
