package repository

import "context"

// ParamStore is the external parameter source, e.g. the offensive-word list.
// Implementations: Redis (production) or in-memory (local dev / tests).
type ParamStore interface {
	// Get returns the value at path. ok is false when no value is set.
	Get(ctx context.Context, path string) (value string, ok bool, err error)
	Set(ctx context.Context, path, value string) error
}
