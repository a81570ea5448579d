package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// DefaultTimezone используется, если учитель не настроил часовой пояс
const DefaultTimezone = "Europe/Moscow"

const (
	fallbackSubject = "Занятие"
	fallbackStudent = "Неизвестный ученик"
	fallbackGroup   = "Группа"
)

// ConflictFormatter собирает текст ошибки о пересечении занятий
type ConflictFormatter struct {
	Now             func() time.Time
	DefaultTimezone string
}

func NewConflictFormatter(defaultTimezone string) *ConflictFormatter {
	return &ConflictFormatter{
		Now:             time.Now,
		DefaultTimezone: defaultTimezone,
	}
}

var defaultConflictFormatter = NewConflictFormatter(DefaultTimezone)

// FormatConflictMessage форматирует сообщение о конфликте с текущим временем
func FormatConflictMessage(conflict *model.Lesson, newStudentID *int64, timezone string) string {
	return defaultConflictFormatter.Format(conflict, newStudentID, timezone)
}

// Format возвращает сообщение о том, почему время недоступно.
// Если конфликт с занятием того же ученика, сообщение говорит именно об этом,
// иначе называет другого ученика или группу и предмет.
func (f *ConflictFormatter) Format(conflict *model.Lesson, newStudentID *int64, timezone string) string {
	loc := f.Location(timezone)
	start := conflict.StartTime.In(loc)
	end := conflict.EndTime().In(loc)

	when := fmt.Sprintf("%s, %s", FormatDay(start, f.now(), loc), FormatTimeRange(start, end))

	subject := conflict.SubjectName
	if subject == "" {
		subject = fallbackSubject
	}

	if sameStudent(conflict, newStudentID) {
		return fmt.Sprintf("❌ У этого ученика уже есть занятие «%s» %s", subject, when)
	}

	return fmt.Sprintf("❌ Это время занято: «%s» %s %s", subject, participant(conflict), when)
}

// Location возвращает часовой пояс учителя, либо пояс по умолчанию, либо UTC
func (f *ConflictFormatter) Location(timezone string) *time.Location {
	for _, name := range []string{timezone, f.DefaultTimezone, DefaultTimezone} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

func (f *ConflictFormatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func sameStudent(conflict *model.Lesson, newStudentID *int64) bool {
	return conflict.StudentID != nil && newStudentID != nil && *conflict.StudentID == *newStudentID
}

func participant(conflict *model.Lesson) string {
	if conflict.IsGroup() {
		name := conflict.GroupName
		if name == "" {
			name = fallbackGroup
		}
		return fmt.Sprintf("с группой «%s»", name)
	}

	name := conflict.StudentName
	if name == "" {
		name = fallbackStudent
	}
	return "с учеником " + name
}
