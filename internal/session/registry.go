// Package session tracks which users are currently signed in. The default
// backend is a process-local set that does not survive restarts; a Redis
// backend is available behind the same interface for shared deployments.
package session

import (
	"context"
	"sync"
)

// Registry records currently signed-in user identifiers. Add and Remove are
// idempotent; List returns a point-in-time snapshot with no meaningful order.
// Admins are never added to the registry.
type Registry interface {
	Add(ctx context.Context, userID string) error
	Remove(ctx context.Context, userID string) error
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]string, error)
}

// MemoryRegistry is the in-memory Registry implementation. State is scoped to
// the running process and safe for concurrent request handling.
type MemoryRegistry struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{users: make(map[string]struct{})}
}

// Add marks the user as signed in. Adding a present user is a no-op.
func (r *MemoryRegistry) Add(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = struct{}{}
	return nil
}

// Remove marks the user as signed out. Removing an absent user is a no-op.
func (r *MemoryRegistry) Remove(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

// Count returns the number of signed-in users.
func (r *MemoryRegistry) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

// List returns a snapshot of the signed-in user ids.
func (r *MemoryRegistry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}
