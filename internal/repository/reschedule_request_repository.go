package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// RescheduleRequestRepository управляет заявками учеников на перенос занятий
type RescheduleRequestRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewRescheduleRequestRepository(pool *pgxpool.Pool, logger *zap.Logger) *RescheduleRequestRepository {
	return &RescheduleRequestRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт заявку на перенос
func (r *RescheduleRequestRepository) Create(ctx context.Context, req *model.RescheduleRequest) error {
	query := `
		INSERT INTO reschedule_requests (lesson_id, student_id, proposed_start, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.Pool().QueryRow(
		ctx, query,
		req.LessonID,
		req.StudentID,
		req.ProposedStart,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create reschedule request: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *RescheduleRequestRepository) GetByID(ctx context.Context, id int64) (*model.RescheduleRequest, error) {
	query := `
		SELECT id, lesson_id, student_id, proposed_start, status, created_at, updated_at
		FROM reschedule_requests
		WHERE id = $1
	`

	var req model.RescheduleRequest
	err := r.Pool().QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.LessonID,
		&req.StudentID,
		&req.ProposedStart,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reschedule request by id: %w", err)
	}

	return &req, nil
}

// UpdateStatus меняет статус заявки, только если она ещё ожидает решения
func (r *RescheduleRequestRepository) UpdateStatus(ctx context.Context, id int64, status model.RescheduleStatus) error {
	query := `
		UPDATE reschedule_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`

	affected, err := base.ExecAffected(ctx, r.Pool(), query, status, id)
	if err != nil {
		return fmt.Errorf("update reschedule request status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update reschedule request status: %w", ErrNotFound)
	}

	return nil
}

// ExpirePending помечает истёкшими заявки, предложенное время которых раньше before
func (r *RescheduleRequestRepository) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE reschedule_requests
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND proposed_start < $1
	`

	affected, err := base.ExecAffected(ctx, r.Pool(), query, before)
	if err != nil {
		return 0, fmt.Errorf("expire reschedule requests: %w", err)
	}

	if affected > 0 {
		r.logger.Debug("Expired reschedule requests", zap.Int64("count", affected))
	}

	return affected, nil
}
