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
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LessonService struct {
	lessons   LessonStore
	users     UserStore
	subjects  SubjectStore
	groups    GroupStore
	conflicts conflictDetector
	logger    *zap.Logger
}

func NewLessonService(
	lessons LessonStore,
	users UserStore,
	subjects SubjectStore,
	groups GroupStore,
	checker *schedule.Checker,
	messages *formatting.ConflictFormatter,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		lessons:   lessons,
		users:     users,
		subjects:  subjects,
		groups:    groups,
		conflicts: conflictDetector{checker: checker, messages: messages},
		logger:    logger,
	}
}

// CreateLessonInput описывает одно новое занятие.
// DurationMinutes = 0 означает длительность предмета.
type CreateLessonInput struct {
	TeacherID       int64
	StudentID       *int64
	GroupID         *int64
	SubjectID       *int64
	StartTime       time.Time
	DurationMinutes int
}

// CreateRecurringInput описывает серию занятий по правилу повторения
type CreateRecurringInput struct {
	TeacherID       int64
	StudentID       *int64
	GroupID         *int64
	SubjectID       *int64
	Rule            model.RecurrenceRule
	DurationMinutes int
}

// AvailabilityInput описывает проверку времени без создания занятия
type AvailabilityInput struct {
	TeacherID       int64
	StartTime       time.Time
	DurationMinutes int
	StudentID       *int64
	ExcludeLessonID int64
}

// CreateLesson создаёт занятие, если у учителя свободно это время
func (s *LessonService) CreateLesson(ctx context.Context, in CreateLessonInput) (*model.Lesson, error) {
	teacher, err := s.loadTeacher(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}

	duration, err := s.prepareLesson(ctx, teacher, in.StudentID, in.GroupID, in.SubjectID, in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if err := s.conflicts.check(ctx, teacher, in.StartTime, duration, 0, in.StudentID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		TeacherID:       teacher.ID,
		StudentID:       in.StudentID,
		GroupID:         in.GroupID,
		SubjectID:       in.SubjectID,
		StartTime:       in.StartTime,
		DurationMinutes: duration,
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, s.conflicts.rejected(ctx, err, teacher, in.StartTime, duration, 0, in.StudentID)
	}

	s.logger.Info("Lesson created",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("teacher_id", teacher.ID),
		zap.Time("start_time", lesson.StartTime),
		zap.Int("duration_minutes", duration),
	)

	return lesson, nil
}

// CreateRecurringLessons разворачивает правило в даты и создаёт всю серию, либо ничего.
// Даты считаются в часовом поясе учителя.
func (s *LessonService) CreateRecurringLessons(ctx context.Context, in CreateRecurringInput) ([]*model.Lesson, error) {
	teacher, err := s.loadTeacher(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}

	duration, err := s.prepareLesson(ctx, teacher, in.StudentID, in.GroupID, in.SubjectID, in.DurationMinutes)
	if err != nil {
		return nil, err
	}

	starts, err := schedule.Expand(in.Rule, s.conflicts.messages.Location(teacher.Timezone))
	switch {
	case errors.Is(err, schedule.ErrTooManyOccurrences):
		return nil, invalid(fmt.Sprintf("Серия не может содержать больше %d %s", schedule.MaxOccurrences, formatting.PluralizeLessons(schedule.MaxOccurrences)))
	case errors.Is(err, schedule.ErrInvalidRule):
		return nil, invalid("Некорректное правило повторения")
	case err != nil:
		return nil, fmt.Errorf("expand recurrence: %w", err)
	}
	if len(starts) == 0 {
		return nil, invalid("По правилу повторения не получилось ни одного занятия")
	}

	found, err := s.conflicts.checker.CheckBatchOverlap(ctx, teacher.ID, starts, duration, 0)
	if err != nil {
		return nil, fmt.Errorf("check series overlap: %w", err)
	}
	if found != nil {
		return nil, s.conflicts.conflict(found, in.StudentID, teacher)
	}

	seriesID := uuid.New()
	lessons := make([]*model.Lesson, 0, len(starts))
	for _, start := range starts {
		lessons = append(lessons, &model.Lesson{
			TeacherID:       teacher.ID,
			StudentID:       in.StudentID,
			GroupID:         in.GroupID,
			SubjectID:       in.SubjectID,
			SeriesID:        &seriesID,
			StartTime:       start,
			DurationMinutes: duration,
		})
	}

	if err := s.lessons.CreateBatch(ctx, lessons); err != nil {
		return nil, s.seriesRejected(ctx, err, teacher, starts, duration, in.StudentID)
	}

	s.logger.Info("Recurring lessons created",
		zap.Int64("teacher_id", teacher.ID),
		zap.String("series_id", seriesID.String()),
		zap.Int("count", len(lessons)),
	)

	return lessons, nil
}

// RescheduleLesson переносит занятие. Старое время самого занятия не считается конфликтом.
// DurationMinutes = 0 сохраняет текущую длительность.
func (s *LessonService) RescheduleLesson(ctx context.Context, teacherID, lessonID int64, start time.Time, durationMinutes int) (*model.Lesson, error) {
	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	lesson, err := s.loadOwnLesson(ctx, teacher.ID, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.IsCanceled {
		return nil, invalid("Нельзя перенести отменённое занятие")
	}

	if durationMinutes == 0 {
		durationMinutes = lesson.DurationMinutes
	}
	if err := s.conflicts.validateDuration(durationMinutes); err != nil {
		return nil, err
	}

	if err := s.conflicts.check(ctx, teacher, start, durationMinutes, lesson.ID, lesson.StudentID); err != nil {
		return nil, err
	}

	if err := s.lessons.UpdateSchedule(ctx, lesson.ID, start, durationMinutes); err != nil {
		return nil, s.conflicts.rejected(ctx, err, teacher, start, durationMinutes, lesson.ID, lesson.StudentID)
	}

	s.logger.Info("Lesson rescheduled",
		zap.Int64("lesson_id", lesson.ID),
		zap.Time("from", lesson.StartTime),
		zap.Time("to", start),
	)

	lesson.StartTime = start
	lesson.DurationMinutes = durationMinutes
	return lesson, nil
}

// CancelLesson отменяет занятие и освобождает его время
func (s *LessonService) CancelLesson(ctx context.Context, teacherID, lessonID int64) error {
	lesson, err := s.loadOwnLesson(ctx, teacherID, lessonID)
	if err != nil {
		return err
	}
	if lesson.IsCanceled {
		return nil
	}

	if err := s.lessons.Cancel(ctx, lesson.ID); err != nil {
		return fmt.Errorf("cancel lesson: %w", err)
	}

	s.logger.Info("Lesson canceled",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("teacher_id", teacherID),
	)

	return nil
}

// GetTeacherSchedule возвращает занятия учителя, начинающиеся в [from, to), включая отменённые
func (s *LessonService) GetTeacherSchedule(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	if !to.After(from) {
		return nil, invalid("Конец периода должен быть позже начала")
	}
	if _, err := s.loadTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	lessons, err := s.lessons.GetByTeacherID(ctx, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get teacher schedule: %w", err)
	}
	return lessons, nil
}

// CheckAvailability возвращает конфликт для предложенного времени или nil, если оно свободно
func (s *LessonService) CheckAvailability(ctx context.Context, in AvailabilityInput) (*ConflictError, error) {
	teacher, err := s.loadTeacher(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	if err := s.conflicts.validateDuration(in.DurationMinutes); err != nil {
		return nil, err
	}

	err = s.conflicts.check(ctx, teacher, in.StartTime, in.DurationMinutes, in.ExcludeLessonID, in.StudentID)
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, nil
	}
	return nil, err
}

// prepareLesson проверяет участников и предмет и возвращает итоговую длительность
func (s *LessonService) prepareLesson(ctx context.Context, teacher *model.User, studentID, groupID, subjectID *int64, durationMinutes int) (int, error) {
	if studentID != nil && groupID != nil {
		return 0, invalid("Укажите либо ученика, либо группу")
	}

	if studentID != nil {
		student, err := s.users.GetByID(ctx, *studentID)
		if err != nil {
			return 0, fmt.Errorf("get student: %w", err)
		}
		if student == nil {
			return 0, invalid("Ученик не найден")
		}
	}

	if groupID != nil {
		group, err := s.groups.GetByID(ctx, *groupID)
		if err != nil {
			return 0, fmt.Errorf("get group: %w", err)
		}
		if group == nil || group.TeacherID != teacher.ID {
			return 0, invalid("Группа не найдена")
		}
	}

	if subjectID != nil {
		subject, err := s.subjects.GetByID(ctx, *subjectID)
		if err != nil {
			return 0, fmt.Errorf("get subject: %w", err)
		}
		if subject == nil || subject.TeacherID != teacher.ID {
			return 0, invalid("Предмет не найден")
		}
		if durationMinutes == 0 {
			durationMinutes = subject.Duration
		}
	}

	if err := s.conflicts.validateDuration(durationMinutes); err != nil {
		return 0, err
	}
	return durationMinutes, nil
}

// seriesRejected ищет занятие, из-за которого база отклонила серию
func (s *LessonService) seriesRejected(ctx context.Context, err error, teacher *model.User, starts []time.Time, durationMinutes int, studentID *int64) error {
	if !errors.Is(err, repository.ErrTimeSlotTaken) {
		return fmt.Errorf("create series: %w", err)
	}

	found, checkErr := s.conflicts.checker.CheckBatchOverlap(ctx, teacher.ID, starts, durationMinutes, 0)
	if checkErr != nil {
		return fmt.Errorf("check series overlap: %w", checkErr)
	}
	if found != nil {
		return s.conflicts.conflict(found, studentID, teacher)
	}
	return &ConflictError{Message: msgSlotTaken}
}

func (s *LessonService) loadTeacher(ctx context.Context, teacherID int64) (*model.User, error) {
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, fmt.Errorf("teacher %d: %w", teacherID, ErrNotFound)
	}
	if !teacher.IsTeacher {
		return nil, fmt.Errorf("user %d is not a teacher: %w", teacherID, ErrForbidden)
	}
	return teacher, nil
}

func (s *LessonService) loadOwnLesson(ctx context.Context, teacherID, lessonID int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, ErrNotFound)
	}
	if lesson.TeacherID != teacherID {
		return nil, fmt.Errorf("lesson %d: %w", lessonID, ErrForbidden)
	}
	return lesson, nil
}
