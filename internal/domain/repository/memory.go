package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"userhub/internal/common"
	"userhub/internal/domain/model"
)

// memoryUserRepository is a mutex-guarded in-memory credential store.
// It mirrors the Postgres semantics (case-insensitive email uniqueness,
// accept-or-reject writes) and backs tests and local runs.
type memoryUserRepository struct {
	mu        sync.RWMutex
	byID      map[string]*model.User
	idByEmail map[string]string // lowercased email -> id
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:      make(map[string]*model.User),
		idByEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.idByEmail[key]; exists {
		return common.ErrDuplicateEmail
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = user.Clone()
	r.idByEmail[key] = user.ID
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user.Clone(), nil
}

func (r *memoryUserRepository) UpdateProfile(_ context.Context, id string, name, country *string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if name != nil {
		user.Name = *name
	}
	if country != nil {
		user.Country = *country
	}
	user.UpdatedAt = time.Now()
	return user.Clone(), nil
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	user.HashedPassword = hashedPassword
	user.UpdatedAt = time.Now()
	return nil
}
