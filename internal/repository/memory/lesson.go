package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
)

// LessonRepository повторяет поведение SQL-версии, включая EXCLUDE-ограничение
type LessonRepository struct {
	db *DB
}

func NewLessonRepository(db *DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.taken(lesson, 0, nil) {
		return fmt.Errorf("create lesson: %w", repository.ErrTimeSlotTaken)
	}
	r.insert(lesson)
	return nil
}

func (r *LessonRepository) CreateBatch(ctx context.Context, lessons []*model.Lesson) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, lesson := range lessons {
		if r.taken(lesson, 0, lessons[:i]) {
			return fmt.Errorf("create lesson batch: %w", repository.ErrTimeSlotTaken)
		}
	}
	for _, lesson := range lessons {
		r.insert(lesson)
	}
	return nil
}

func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if l, ok := r.db.lessons[id]; ok {
		return r.db.withNames(l), nil
	}
	return nil, nil
}

func (r *LessonRepository) GetByTeacherID(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	return r.find(teacherID, from, to, true), nil
}

func (r *LessonRepository) FindActiveInWindow(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	return r.find(teacherID, from, to, false), nil
}

func (r *LessonRepository) UpdateSchedule(ctx context.Context, id int64, start time.Time, durationMinutes int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.lessons[id]
	if !ok || l.IsCanceled {
		return fmt.Errorf("update lesson schedule: %w", repository.ErrNotFound)
	}

	moved := *l
	moved.StartTime = start
	moved.DurationMinutes = durationMinutes
	if r.taken(&moved, id, nil) {
		return fmt.Errorf("update lesson schedule: %w", repository.ErrTimeSlotTaken)
	}

	moved.UpdatedAt = r.db.now()
	r.db.lessons[id] = &moved
	return nil
}

func (r *LessonRepository) Cancel(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.lessons[id]
	if !ok {
		return fmt.Errorf("cancel lesson: %w", repository.ErrNotFound)
	}
	l.IsCanceled = true
	l.UpdatedAt = r.db.now()
	return nil
}

func (r *LessonRepository) find(teacherID int64, from, to time.Time, withCanceled bool) []*model.Lesson {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var lessons []*model.Lesson
	for _, l := range r.db.lessons {
		if l.TeacherID != teacherID || (l.IsCanceled && !withCanceled) {
			continue
		}
		if l.StartTime.Before(from) || !l.StartTime.Before(to) {
			continue
		}
		lessons = append(lessons, r.db.withNames(l))
	}

	sort.Slice(lessons, func(i, j int) bool {
		if !lessons[i].StartTime.Equal(lessons[j].StartTime) {
			return lessons[i].StartTime.Before(lessons[j].StartTime)
		}
		return lessons[i].ID < lessons[j].ID
	})
	return lessons
}

// taken проверяет пересечение с сохранёнными и ещё не сохранёнными занятиями; вызывается под блокировкой.
// excludeID != 0 пропускает переносимое занятие, у несохранённых занятий ID ещё нулевой.
func (r *LessonRepository) taken(lesson *model.Lesson, excludeID int64, pending []*model.Lesson) bool {
	overlaps := func(other *model.Lesson) bool {
		return (excludeID == 0 || other.ID != excludeID) &&
			other.TeacherID == lesson.TeacherID &&
			!other.IsCanceled &&
			schedule.Overlaps(other.StartTime, other.EndTime(), lesson.StartTime, lesson.EndTime())
	}

	for _, l := range r.db.lessons {
		if overlaps(l) {
			return true
		}
	}
	for _, l := range pending {
		if overlaps(l) {
			return true
		}
	}
	return false
}

func (r *LessonRepository) insert(lesson *model.Lesson) {
	now := r.db.now()
	lesson.ID = r.db.nextID()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	cp := *lesson
	cp.SubjectName, cp.StudentName, cp.GroupName = "", "", ""
	r.db.lessons[cp.ID] = &cp
}
