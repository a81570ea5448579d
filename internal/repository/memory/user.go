package memory

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user.ID = r.db.nextID()
	user.CreatedAt = r.db.now()
	cp := *user
	r.db.users[cp.ID] = &cp
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.TelegramID != 0 && u.TelegramID == telegramID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.users[user.ID]
	if !ok {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	cp := *user
	cp.CreatedAt = existing.CreatedAt
	r.db.users[cp.ID] = &cp
	return nil
}
