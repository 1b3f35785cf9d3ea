package codegen

import (
	"errors"
	"fmt"
	"io"
)

// Alphabet is the closed character set every voucher code is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of a voucher code.
const CodeLength = 16

// ErrRandomSource is returned when the random source cannot supply bytes.
var ErrRandomSource = errors.New("random source failed")

// FormatCode draws CodeLength bytes from r and maps each one onto Alphabet.
// The mapping is deterministic: identical bytes yield an identical code.
func FormatCode(r io.Reader) (string, error) {
	b := make([]byte, CodeLength)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	for i := range b {
		b[i] = Alphabet[int(b[i])%len(Alphabet)]
	}
	return string(b), nil
}

// IsWellFormed reports whether code has the voucher length and only uses
// characters from Alphabet.
func IsWellFormed(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
