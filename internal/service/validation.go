package service

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Layouts tried after RFC 3339. None carries an offset, so they parse as UTC.
// Fractional seconds after the seconds field are accepted by time.Parse.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ValidateVoucherData checks a requested value and expiry before any code is
// generated. expiryDate accepts ISO-8601 timestamps with or without an offset
// or plain dates (taken as UTC midnight) and must lie strictly after now.
func ValidateVoucherData(value float64, expiryDate string, now time.Time) (time.Time, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return time.Time{}, fmt.Errorf("%w: value must be a positive amount", ErrInvalidInput)
	}

	expiryDate = strings.TrimSpace(expiryDate)
	if expiryDate == "" {
		return time.Time{}, fmt.Errorf("%w: expiryDate is required", ErrInvalidInput)
	}

	expiry, err := parseExpiry(expiryDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expiryDate %q is not an ISO-8601 date", ErrInvalidInput, expiryDate)
	}

	if !expiry.After(now) {
		return time.Time{}, fmt.Errorf("%w: expiryDate must be in the future", ErrInvalidInput)
	}
	return expiry, nil
}

func parseExpiry(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t.UTC(), nil
	}
	for _, layout := range localLayouts {
		if t, lerr := time.Parse(layout, s); lerr == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
