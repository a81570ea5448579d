package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
)

// Хранилища, которые нужны сервисам. Реализованы в repository (Postgres) и repository/memory.

type LessonStore interface {
	schedule.LessonFinder
	Create(ctx context.Context, lesson *model.Lesson) error
	CreateBatch(ctx context.Context, lessons []*model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	GetByTeacherID(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error)
	UpdateSchedule(ctx context.Context, id int64, start time.Time, durationMinutes int) error
	Cancel(ctx context.Context, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type SubjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
}

type GroupStore interface {
	GetByID(ctx context.Context, id int64) (*model.Group, error)
}

type RescheduleRequestStore interface {
	Create(ctx context.Context, req *model.RescheduleRequest) error
	GetByID(ctx context.Context, id int64) (*model.RescheduleRequest, error)
	UpdateStatus(ctx context.Context, id int64, status model.RescheduleStatus) error
	ExpirePending(ctx context.Context, before time.Time) (int64, error)
}
