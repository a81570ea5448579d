package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupRepository struct {
	*base.Repository
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает группу по ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	query := `
		SELECT id, teacher_id, name, created_at
		FROM student_groups
		WHERE id = $1
	`

	var group model.Group
	err := r.Pool().QueryRow(ctx, query, id).Scan(&group.ID, &group.TeacherID, &group.Name, &group.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get group by id: %w", err)
	}

	return &group, nil
}
