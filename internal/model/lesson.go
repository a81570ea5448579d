package model

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	ID              int64      `json:"id"`
	TeacherID       int64      `json:"teacher_id"`
	StudentID       *int64     `json:"student_id"` // nil для группового занятия
	GroupID         *int64     `json:"group_id"`
	SubjectID       *int64     `json:"subject_id"`
	SeriesID        *uuid.UUID `json:"series_id"` // общий идентификатор занятий одной регулярной серии
	StartTime       time.Time  `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	IsCanceled      bool       `json:"is_canceled"` // отменённое занятие освобождает время
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Дополнительные поля для удобства (не из таблицы lessons)
	SubjectName string `json:"subject_name,omitempty"`
	StudentName string `json:"student_name,omitempty"`
	GroupName   string `json:"group_name,omitempty"`
}

// Duration возвращает длительность занятия
func (l *Lesson) Duration() time.Duration {
	return time.Duration(l.DurationMinutes) * time.Minute
}

// EndTime возвращает время окончания занятия (не включительно)
func (l *Lesson) EndTime() time.Time {
	return l.StartTime.Add(l.Duration())
}

// IsGroup проверяет что занятие групповое
func (l *Lesson) IsGroup() bool {
	return l.GroupID != nil
}
