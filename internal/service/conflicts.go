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
)

const msgSlotTaken = "❌ Это время уже занято"

// conflictDetector проверяет расписание учителя и превращает найденное пересечение в ConflictError
type conflictDetector struct {
	checker  *schedule.Checker
	messages *formatting.ConflictFormatter
}

func (d conflictDetector) conflict(lesson *model.Lesson, studentID *int64, teacher *model.User) *ConflictError {
	return &ConflictError{
		Lesson:  lesson,
		Message: d.messages.Format(lesson, studentID, teacher.Timezone),
	}
}

// check возвращает *ConflictError, если [start, start+duration) пересекается с занятием учителя
func (d conflictDetector) check(ctx context.Context, teacher *model.User, start time.Time, durationMinutes int, excludeLessonID int64, studentID *int64) error {
	found, err := d.checker.CheckOverlap(ctx, teacher.ID, start, durationMinutes, excludeLessonID)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if found != nil {
		return d.conflict(found, studentID, teacher)
	}
	return nil
}

// rejected разбирает ошибку записи: отказ EXCLUDE-ограничения значит, что параллельный
// запрос занял время между проверкой и записью
func (d conflictDetector) rejected(ctx context.Context, err error, teacher *model.User, start time.Time, durationMinutes int, excludeLessonID int64, studentID *int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("save lesson: %w", ErrNotFound)
	}
	if !errors.Is(err, repository.ErrTimeSlotTaken) {
		return fmt.Errorf("save lesson: %w", err)
	}
	if checkErr := d.check(ctx, teacher, start, durationMinutes, excludeLessonID, studentID); checkErr != nil {
		return checkErr
	}
	return &ConflictError{Message: msgSlotTaken}
}

// validateDuration ограничивает длительность окном просмотра назад, иначе проверка может пропустить пересечение
func (d conflictDetector) validateDuration(durationMinutes int) error {
	if durationMinutes <= 0 {
		return invalid("Длительность занятия должна быть больше нуля")
	}
	if maxMinutes := int(d.checker.Lookback() / time.Minute); durationMinutes > maxMinutes {
		return invalid(fmt.Sprintf("Занятие не может длиться дольше %s", formatting.FormatDuration(maxMinutes)))
	}
	return nil
}
