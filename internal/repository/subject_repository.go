package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubjectRepository struct {
	*base.Repository
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `
		SELECT id, teacher_id, name, description, price, duration, is_active, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject model.Subject
	err := r.Pool().QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.TeacherID,
		&subject.Name,
		&subject.Description,
		&subject.Price,
		&subject.Duration,
		&subject.IsActive,
		&subject.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}
