package domain

import (
	"context"
)

// Cache defines the hash and list port backed by Redis.
type Cache interface {
	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error

	// HGetAll retrieves all fields and values of a hash stored at key.
	// A missing key yields an empty map.
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// HSet sets fields in the hash stored at key.
	HSet(ctx context.Context, key string, values map[string]string) error

	// RPush appends values to the list stored at key.
	RPush(ctx context.Context, key string, values ...string) error

	// LRange returns the list stored at key between start and stop inclusive.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}
