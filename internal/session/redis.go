package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// registryKey is the Redis set holding signed-in user ids.
const registryKey = "learnhub:sessions"

// RedisRegistry is a Registry backed by a shared Redis set, for deployments
// where session state must outlive a single process.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry creates a Redis-backed registry using the given client.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

// Add marks the user as signed in.
func (r *RedisRegistry) Add(ctx context.Context, userID string) error {
	if err := r.client.SAdd(ctx, registryKey, userID).Err(); err != nil {
		return fmt.Errorf("add session member: %w", err)
	}
	return nil
}

// Remove marks the user as signed out. Removing an absent user is a no-op.
func (r *RedisRegistry) Remove(ctx context.Context, userID string) error {
	if err := r.client.SRem(ctx, registryKey, userID).Err(); err != nil {
		return fmt.Errorf("remove session member: %w", err)
	}
	return nil
}

// Count returns the number of signed-in users.
func (r *RedisRegistry) Count(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, registryKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count session members: %w", err)
	}
	return int(n), nil
}

// List returns a snapshot of the signed-in user ids.
func (r *RedisRegistry) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, registryKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list session members: %w", err)
	}
	return ids, nil
}
