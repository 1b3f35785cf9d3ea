package codegen

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxAttempts bounds how many candidates one generation sequence may
// evaluate before giving up.
const DefaultMaxAttempts = 20

var (
	// ErrGenerationExhausted means the attempt bound was reached without an
	// acceptable candidate. It points at the code space or the word list,
	// not at storage.
	ErrGenerationExhausted = errors.New("voucher code generation exhausted")

	// ErrProbeFailed wraps a failure of the uniqueness check.
	ErrProbeFailed = errors.New("voucher code uniqueness probe failed")
)

// Prober reports whether a code is already taken. Implementations must be
// free of side effects; Exists may be called many times per sequence.
type Prober interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// ProbeFunc adapts a plain function to Prober.
type ProbeFunc func(ctx context.Context, code string) (bool, error)

// Exists calls f.
func (f ProbeFunc) Exists(ctx context.Context, code string) (bool, error) {
	return f(ctx, code)
}

// Generator produces unique, non-offensive voucher codes.
type Generator struct {
	rand        io.Reader
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithRandSource replaces crypto/rand as the byte source.
func WithRandSource(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// WithMaxAttempts overrides DefaultMaxAttempts. Non-positive values are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator creates a Generator backed by crypto/rand.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rand:        rand.Reader,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts returns the configured attempt bound.
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate returns the first candidate that is neither offensive under words
// nor reported as existing by prober. Every candidate is probed exactly once.
// A probe error aborts the sequence immediately and does not count as an
// attempt. ErrGenerationExhausted is returned after MaxAttempts rejections.
func (g *Generator) Generate(ctx context.Context, words WordSet, prober Prober) (string, error) {
	for attempts := 0; ; attempts++ {
		if attempts >= g.maxAttempts {
			return "", fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, attempts)
		}

		candidate, err := FormatCode(g.rand)
		if err != nil {
			return "", err
		}

		exists, err := prober.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrProbeFailed, err)
		}

		if !exists && !words.IsOffensive(candidate) {
			return candidate, nil
		}
	}
}
