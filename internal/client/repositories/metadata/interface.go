// Package metadata is the client's durable key/value store: a single SQLite
// table holding small string values such as session tokens and the cached
// user profile.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	// SetMany writes all pairs in one transaction.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	// DeleteMany removes all keys in one transaction. Missing keys are not an error.
	DeleteMany(ctx context.Context, keys ...string) error
	// Replace sets values and removes drop in one transaction.
	Replace(ctx context.Context, values map[string]string, drop []string) error
	List(ctx context.Context) (map[string]string, error)
}
