package users

import (
	"context"
	"sync"
	"time"

	"github.com/joyal-jij0/pragati/internal/common"
)

// MemoryRepository is an in-memory Repository with the same uniqueness
// semantics as the Postgres implementation. Used in tests and as a stand-in
// store for local development.
type MemoryRepository struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*User
	byEmail map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		byID:    make(map[int64]*User),
		byEmail: make(map[string]int64),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, &common.ConflictError{Email: email}
	}

	user := &User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.byID[user.ID] = user
	r.byEmail[email] = user.ID

	clone := *user
	return &clone, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *user
	return &clone, nil
}
