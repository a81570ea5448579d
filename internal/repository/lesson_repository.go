package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Колонки занятия вместе с именами предмета, ученика и группы
const lessonSelect = `
	SELECT l.id, l.teacher_id, l.student_id, l.group_id, l.subject_id, l.series_id,
	       l.start_time, l.duration_minutes, l.is_canceled, l.created_at, l.updated_at,
	       COALESCE(s.name, ''),
	       COALESCE(NULLIF(TRIM(CONCAT(u.first_name, ' ', u.last_name)), ''), '@' || NULLIF(u.username, ''), ''),
	       COALESCE(g.name, '')
	FROM lessons l
	LEFT JOIN subjects s ON s.id = l.subject_id
	LEFT JOIN users u ON u.id = l.student_id
	LEFT JOIN student_groups g ON g.id = l.group_id
`

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт занятие
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	if err := insertLesson(ctx, r.Pool(), lesson); err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// CreateBatch создаёт все занятия серии в одной транзакции: либо все, либо ни одного
func (r *LessonRepository) CreateBatch(ctx context.Context, lessons []*model.Lesson) error {
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		for _, lesson := range lessons {
			if err := insertLesson(ctx, tx, lesson); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create lesson batch: %w", err)
	}
	return nil
}

func insertLesson(ctx context.Context, q base.Querier, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (teacher_id, student_id, group_id, subject_id, series_id, start_time, end_time, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		lesson.TeacherID,
		lesson.StudentID,
		lesson.GroupID,
		lesson.SubjectID,
		lesson.SeriesID,
		lesson.StartTime,
		lesson.EndTime(),
		lesson.DurationMinutes,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)

	if base.IsExclusionViolation(err) {
		return ErrTimeSlotTaken
	}
	return err
}

// GetByID получает занятие по ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	row := r.Pool().QueryRow(ctx, lessonSelect+` WHERE l.id = $1`, id)

	lesson, err := scanLesson(row)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// GetByTeacherID получает все занятия учителя (включая отменённые), начинающиеся в [from, to)
func (r *LessonRepository) GetByTeacherID(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	query := lessonSelect + `
		WHERE l.teacher_id = $1
		  AND l.start_time >= $2
		  AND l.start_time < $3
		ORDER BY l.start_time, l.id
	`

	lessons, err := r.queryLessons(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get lessons by teacher: %w", err)
	}
	return lessons, nil
}

// FindActiveInWindow получает неотменённые занятия учителя, начинающиеся в [from, to)
func (r *LessonRepository) FindActiveInWindow(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	query := lessonSelect + `
		WHERE l.teacher_id = $1
		  AND NOT l.is_canceled
		  AND l.start_time >= $2
		  AND l.start_time < $3
		ORDER BY l.start_time, l.id
	`

	lessons, err := r.queryLessons(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find active lessons: %w", err)
	}
	return lessons, nil
}

// UpdateSchedule переносит занятие на новое время
func (r *LessonRepository) UpdateSchedule(ctx context.Context, id int64, start time.Time, durationMinutes int) error {
	query := `
		UPDATE lessons
		SET start_time = $1, end_time = $2, duration_minutes = $3, updated_at = NOW()
		WHERE id = $4 AND NOT is_canceled
	`

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	affected, err := base.ExecAffected(ctx, r.Pool(), query, start, end, durationMinutes, id)
	if base.IsExclusionViolation(err) {
		return fmt.Errorf("update lesson schedule: %w", ErrTimeSlotTaken)
	}
	if err != nil {
		return fmt.Errorf("update lesson schedule: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update lesson schedule: %w", ErrNotFound)
	}

	return nil
}

// Cancel отменяет занятие, освобождая время
func (r *LessonRepository) Cancel(ctx context.Context, id int64) error {
	query := `
		UPDATE lessons
		SET is_canceled = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	affected, err := base.ExecAffected(ctx, r.Pool(), query, id)
	if err != nil {
		return fmt.Errorf("cancel lesson: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("cancel lesson: %w", ErrNotFound)
	}

	return nil
}

func (r *LessonRepository) queryLessons(ctx context.Context, query string, args ...any) ([]*model.Lesson, error) {
	rows, err := r.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, rows.Err()
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var lesson model.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.TeacherID,
		&lesson.StudentID,
		&lesson.GroupID,
		&lesson.SubjectID,
		&lesson.SeriesID,
		&lesson.StartTime,
		&lesson.DurationMinutes,
		&lesson.IsCanceled,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
		&lesson.SubjectName,
		&lesson.StudentName,
		&lesson.GroupName,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
