package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"go.uber.org/zap"
)

type UserService interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	MakeTeacher(ctx context.Context, telegramID int64) error
	SetTimezone(ctx context.Context, telegramID int64, timezone string) error
}

type LessonService interface {
	CreateLesson(ctx context.Context, in service.CreateLessonInput) (*model.Lesson, error)
	GetTeacherSchedule(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error)
}

type RescheduleService interface {
	SubmitRequest(ctx context.Context, studentID, lessonID int64, proposedStart time.Time) (*model.RescheduleRequest, error)
	ApproveRequest(ctx context.Context, teacherID, requestID int64) (*model.Lesson, error)
	RejectRequest(ctx context.Context, teacherID, requestID int64) error
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService       UserService
	lessonService     LessonService
	rescheduleService RescheduleService
	messages          *formatting.ConflictFormatter
	logger            *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService UserService,
	lessonService LessonService,
	rescheduleService RescheduleService,
	messages *formatting.ConflictFormatter,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:       userService,
		lessonService:     lessonService,
		rescheduleService: rescheduleService,
		messages:          messages,
		logger:            logger,
	}
}
