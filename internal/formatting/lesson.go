package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// FormatLessonLine форматирует занятие одной строкой для списка расписания
// Например: "🟢 Вт 20.10 14:00–15:00 · Математика · Иван Петров"
func FormatLessonLine(lesson *model.Lesson, loc *time.Location) string {
	start := lesson.StartTime.In(loc)
	end := lesson.EndTime().In(loc)
	status := GetLessonStatusDisplay(lesson)

	parts := []string{fmt.Sprintf("%s %s %s %s",
		status.Emoji,
		GetWeekdayShortName(start.Weekday()),
		start.Format("02.01"),
		FormatTimeRange(start, end),
	)}

	if lesson.SubjectName != "" {
		parts = append(parts, lesson.SubjectName)
	}
	if lesson.IsGroup() && lesson.GroupName != "" {
		parts = append(parts, "группа "+lesson.GroupName)
	} else if lesson.StudentName != "" {
		parts = append(parts, lesson.StudentName)
	}

	return strings.Join(parts, " · ")
}

// FormatLessonInfo форматирует подробную информацию о занятии
func FormatLessonInfo(lesson *model.Lesson, loc *time.Location) string {
	start := lesson.StartTime.In(loc)
	status := GetLessonStatusDisplay(lesson)

	subject := lesson.SubjectName
	if subject == "" {
		subject = fallbackSubject
	}

	return fmt.Sprintf(
		"%s <b>Занятие #%d</b>\n\n"+
			"📚 Предмет: %s\n"+
			"📅 Дата: %s\n"+
			"🕐 Время: %s\n"+
			"⏱ Длительность: %s\n"+
			"📊 Статус: %s",
		status.Emoji,
		lesson.ID,
		html.EscapeString(subject),
		FormatDate(start),
		FormatTimeRange(start, lesson.EndTime().In(loc)),
		FormatDuration(lesson.DurationMinutes),
		status.Text,
	)
}
