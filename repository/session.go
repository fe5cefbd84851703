package repository

import (
	"context"
)

// Durable session entry names.
const (
	KeyUserID = "user_id"
	KeyRoles  = "roles"
)

// SessionStorage is the durable key/value store holding the session entries.
// Get returns domain.ErrStorageKeyAbsent for a missing key.
type SessionStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
