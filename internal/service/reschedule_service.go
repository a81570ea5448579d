package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"go.uber.org/zap"
)

// RescheduleService обрабатывает заявки учеников на перенос занятий
type RescheduleService struct {
	lessons   LessonStore
	requests  RescheduleRequestStore
	users     UserStore
	conflicts conflictDetector
	logger    *zap.Logger
	now       func() time.Time
}

func NewRescheduleService(
	lessons LessonStore,
	requests RescheduleRequestStore,
	users UserStore,
	checker *schedule.Checker,
	messages *formatting.ConflictFormatter,
	logger *zap.Logger,
) *RescheduleService {
	return &RescheduleService{
		lessons:   lessons,
		requests:  requests,
		users:     users,
		conflicts: conflictDetector{checker: checker, messages: messages},
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitRequest создаёт заявку ученика на перенос своего занятия.
// Занятое время отклоняется сразу, чтобы ученик мог выбрать другое.
func (s *RescheduleService) SubmitRequest(ctx context.Context, studentID, lessonID int64, proposedStart time.Time) (*model.RescheduleRequest, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, ErrNotFound)
	}
	if lesson.StudentID == nil || *lesson.StudentID != studentID {
		return nil, fmt.Errorf("lesson %d of another student: %w", lessonID, ErrForbidden)
	}
	if lesson.IsCanceled {
		return nil, invalid("Занятие отменено")
	}
	if !proposedStart.After(s.now()) {
		return nil, invalid("Нельзя перенести занятие в прошлое")
	}

	teacher, err := s.teacherOf(ctx, lesson)
	if err != nil {
		return nil, err
	}

	if err := s.conflicts.check(ctx, teacher, proposedStart, lesson.DurationMinutes, lesson.ID, lesson.StudentID); err != nil {
		return nil, err
	}

	req := &model.RescheduleRequest{
		LessonID:      lesson.ID,
		StudentID:     studentID,
		ProposedStart: proposedStart,
		Status:        model.RescheduleStatusPending,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create reschedule request: %w", err)
	}

	s.logger.Info("Reschedule requested",
		zap.Int64("request_id", req.ID),
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("student_id", studentID),
		zap.Time("proposed_start", proposedStart),
	)

	return req, nil
}

// ApproveRequest переносит занятие на предложенное время. Расписание проверяется заново:
// пока заявка ждала, время могли занять.
func (s *RescheduleService) ApproveRequest(ctx context.Context, teacherID, requestID int64) (*model.Lesson, error) {
	req, lesson, err := s.loadRequest(ctx, teacherID, requestID)
	if err != nil {
		return nil, err
	}

	if !req.ProposedStart.After(s.now()) {
		if err := s.requests.UpdateStatus(ctx, req.ID, model.RescheduleStatusExpired); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("expire reschedule request: %w", err)
		}
		return nil, invalid("Предложенное время уже прошло")
	}
	if lesson.IsCanceled {
		return nil, invalid("Занятие отменено")
	}

	teacher, err := s.teacherOf(ctx, lesson)
	if err != nil {
		return nil, err
	}

	if err := s.conflicts.check(ctx, teacher, req.ProposedStart, lesson.DurationMinutes, lesson.ID, lesson.StudentID); err != nil {
		return nil, err
	}

	if err := s.lessons.UpdateSchedule(ctx, lesson.ID, req.ProposedStart, lesson.DurationMinutes); err != nil {
		return nil, s.conflicts.rejected(ctx, err, teacher, req.ProposedStart, lesson.DurationMinutes, lesson.ID, lesson.StudentID)
	}

	if err := s.requests.UpdateStatus(ctx, req.ID, model.RescheduleStatusApproved); err != nil {
		// занятие уже перенесено, заявку мог закрыть планировщик
		s.logger.Warn("Failed to mark reschedule request approved",
			zap.Int64("request_id", req.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Reschedule approved",
		zap.Int64("request_id", req.ID),
		zap.Int64("lesson_id", lesson.ID),
		zap.Time("from", lesson.StartTime),
		zap.Time("to", req.ProposedStart),
	)

	lesson.StartTime = req.ProposedStart
	return lesson, nil
}

// RejectRequest отклоняет заявку, занятие остаётся на месте
func (s *RescheduleService) RejectRequest(ctx context.Context, teacherID, requestID int64) error {
	req, _, err := s.loadRequest(ctx, teacherID, requestID)
	if err != nil {
		return err
	}

	if err := s.requests.UpdateStatus(ctx, req.ID, model.RescheduleStatusRejected); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("Заявка уже обработана")
		}
		return fmt.Errorf("reject reschedule request: %w", err)
	}

	s.logger.Info("Reschedule rejected", zap.Int64("request_id", req.ID))
	return nil
}

// ExpireStaleRequests закрывает ожидающие заявки, предложенное время которых уже наступило
func (s *RescheduleService) ExpireStaleRequests(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.requests.ExpirePending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("expire stale requests: %w", err)
	}
	return count, nil
}

// loadRequest возвращает ожидающую заявку и её занятие, проверяя, что занятие принадлежит учителю
func (s *RescheduleService) loadRequest(ctx context.Context, teacherID, requestID int64) (*model.RescheduleRequest, *model.Lesson, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("get reschedule request: %w", err)
	}
	if req == nil {
		return nil, nil, fmt.Errorf("reschedule request %d: %w", requestID, ErrNotFound)
	}

	lesson, err := s.lessons.GetByID(ctx, req.LessonID)
	if err != nil {
		return nil, nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, nil, fmt.Errorf("lesson %d: %w", req.LessonID, ErrNotFound)
	}
	if lesson.TeacherID != teacherID {
		return nil, nil, fmt.Errorf("reschedule request %d: %w", requestID, ErrForbidden)
	}
	if !req.IsPending() {
		return nil, nil, invalid("Заявка уже обработана")
	}

	return req, lesson, nil
}

func (s *RescheduleService) teacherOf(ctx context.Context, lesson *model.Lesson) (*model.User, error) {
	teacher, err := s.users.GetByID(ctx, lesson.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("teacher %d: %w", lesson.TeacherID, ErrNotFound)
	}
	return teacher, nil
}
