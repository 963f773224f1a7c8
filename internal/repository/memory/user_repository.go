package memory

import (
	"context"
	"fmt"
	"sync"

	"lojaConforto/domain"
)

type UserRepository struct {
	mu     sync.RWMutex
	byID   map[uint]*domain.User
	byName map[string]uint
	nextID uint
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:   make(map[uint]*domain.User),
		byName: make(map[string]uint),
		nextID: 1,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[user.Username]; taken {
		return fmt.Errorf("username %q already exists", user.Username)
	}

	user.ID = r.nextID
	r.nextID++

	clone := *user
	r.byID[user.ID] = &clone
	r.byName[user.Username] = user.ID

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return *u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}

	return *r.byID[id], nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.byID))
	for id := uint(1); id < r.nextID; id++ {
		if u, ok := r.byID[id]; ok {
			users = append(users, *u)
		}
	}

	return users, nil
}
