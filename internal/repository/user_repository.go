package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, telegram_id, username, first_name, last_name, language_code, is_teacher, timezone, created_at`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, language_code, is_teacher, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.Pool().QueryRow(
		ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.IsTeacher,
		user.Timezone,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}
	return user, nil
}

// Update обновляет данные пользователя
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET username = $1, first_name = $2, last_name = $3, language_code = $4, is_teacher = $5, timezone = $6
		WHERE id = $7
	`

	affected, err := base.ExecAffected(
		ctx, r.Pool(), query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.IsTeacher,
		user.Timezone,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update user: %w", ErrNotFound)
	}

	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	var user model.User
	err := r.Pool().QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.LanguageCode,
		&user.IsTeacher,
		&user.Timezone,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}
