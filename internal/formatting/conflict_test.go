package formatting

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
)

func ptrInt64(v int64) *int64 {
	return &v
}

func TestConflictFormatter(t *testing.T) {
	// 20 октября 2026, 09:00 по Москве
	now := time.Date(2026, time.October, 20, 6, 0, 0, 0, time.UTC)
	f := &ConflictFormatter{Now: func() time.Time { return now }, DefaultTimezone: "Europe/Moscow"}

	conflict := &model.Lesson{
		ID:              1,
		TeacherID:       10,
		StudentID:       ptrInt64(1),
		StartTime:       time.Date(2026, time.October, 20, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		SubjectName:     "Math",
		StudentName:     "S1",
	}

	t.Run("same student", func(t *testing.T) {
		msg := f.Format(conflict, ptrInt64(1), "Europe/Moscow")
		assert.Equal(t, "❌ У этого ученика уже есть занятие «Math» сегодня, 14:00–15:00", msg)
	})

	t.Run("other student is named", func(t *testing.T) {
		msg := f.Format(conflict, ptrInt64(2), "Europe/Moscow")
		assert.Equal(t, "❌ Это время занято: «Math» с учеником S1 сегодня, 14:00–15:00", msg)
	})

	t.Run("no student on the new lesson", func(t *testing.T) {
		msg := f.Format(conflict, nil, "Europe/Moscow")
		assert.Contains(t, msg, "с учеником S1")
	})

	t.Run("group lesson", func(t *testing.T) {
		group := *conflict
		group.StudentID = nil
		group.GroupID = ptrInt64(5)
		group.GroupName = "Английский B1"
		msg := f.Format(&group, ptrInt64(1), "Europe/Moscow")
		assert.Equal(t, "❌ Это время занято: «Math» с группой «Английский B1» сегодня, 14:00–15:00", msg)
	})

	t.Run("fallback labels", func(t *testing.T) {
		bare := &model.Lesson{ID: 2, StartTime: conflict.StartTime, DurationMinutes: 45, StudentID: ptrInt64(3)}
		msg := f.Format(bare, ptrInt64(4), "Europe/Moscow")
		assert.Equal(t, "❌ Это время занято: «Занятие» с учеником Неизвестный ученик сегодня, 14:00–14:45", msg)

		group := &model.Lesson{ID: 3, StartTime: conflict.StartTime, DurationMinutes: 60, GroupID: ptrInt64(1)}
		assert.Contains(t, f.Format(group, nil, ""), "с группой «Группа»")
	})

	t.Run("tomorrow and absolute dates", func(t *testing.T) {
		tomorrow := *conflict
		tomorrow.StartTime = conflict.StartTime.AddDate(0, 0, 1)
		assert.Contains(t, f.Format(&tomorrow, nil, "Europe/Moscow"), "завтра, 14:00–15:00")

		later := *conflict
		later.StartTime = conflict.StartTime.AddDate(0, 0, 7)
		assert.Contains(t, f.Format(&later, nil, "Europe/Moscow"), "27 октября, 14:00–15:00")

		nextYear := *conflict
		nextYear.StartTime = time.Date(2027, time.January, 12, 11, 0, 0, 0, time.UTC)
		assert.Contains(t, f.Format(&nextYear, nil, "Europe/Moscow"), "12 января 2027, 14:00–15:00")
	})

	t.Run("relative day uses the teacher timezone", func(t *testing.T) {
		// 22:30 UTC 20 октября - это уже 21 октября в Токио
		late := *conflict
		late.StartTime = time.Date(2026, time.October, 20, 22, 30, 0, 0, time.UTC)
		assert.Contains(t, f.Format(&late, nil, "UTC"), "сегодня, 22:30–23:30")
		assert.Contains(t, f.Format(&late, nil, "Asia/Tokyo"), "завтра, 07:30–08:30")
	})

	t.Run("unknown timezone falls back to default", func(t *testing.T) {
		msg := f.Format(conflict, ptrInt64(2), "Mars/Olympus")
		assert.Contains(t, msg, "14:00–15:00")
	})
}

func TestFormatConflictMessage(t *testing.T) {
	conflict := &model.Lesson{
		StudentID:       ptrInt64(1),
		StartTime:       time.Now().Add(48 * time.Hour),
		DurationMinutes: 60,
		SubjectName:     "Math",
	}
	msg := FormatConflictMessage(conflict, ptrInt64(1), "")
	assert.Contains(t, msg, "У этого ученика уже есть занятие «Math»")
}
