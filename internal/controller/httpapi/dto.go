package httpapi

import (
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

type createLessonRequest struct {
	StudentID       *int64    `json:"student_id" validate:"omitempty,gt=0"`
	GroupID         *int64    `json:"group_id" validate:"omitempty,gt=0"`
	SubjectID       *int64    `json:"subject_id" validate:"omitempty,gt=0"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
}

type createRecurringRequest struct {
	StudentID       *int64     `json:"student_id" validate:"omitempty,gt=0"`
	GroupID         *int64     `json:"group_id" validate:"omitempty,gt=0"`
	SubjectID       *int64     `json:"subject_id" validate:"omitempty,gt=0"`
	Type            string     `json:"type" validate:"required,oneof=daily weekly every_n_weeks"`
	Interval        int        `json:"interval" validate:"gte=0"`
	Weekdays        []int      `json:"weekdays" validate:"dive,gte=0,lte=6"`
	StartTime       time.Time  `json:"start_time" validate:"required"`
	Until           *time.Time `json:"until"`
	Count           int        `json:"count" validate:"gte=0"`
	DurationMinutes int        `json:"duration_minutes" validate:"gte=0"`
}

func (r createRecurringRequest) rule() model.RecurrenceRule {
	weekdays := make([]time.Weekday, 0, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}
	return model.RecurrenceRule{
		Type:     model.RecurrenceType(r.Type),
		Interval: r.Interval,
		Weekdays: weekdays,
		Start:    r.StartTime,
		Until:    r.Until,
		Count:    r.Count,
	}
}

type rescheduleLessonRequest struct {
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
}

type submitRescheduleRequest struct {
	LessonID      int64     `json:"lesson_id" validate:"required,gt=0"`
	ProposedStart time.Time `json:"proposed_start" validate:"required"`
}

type availabilityQuery struct {
	Start           time.Time `json:"start" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	StudentID       *int64    `json:"student_id" validate:"omitempty,gt=0"`
	ExcludeLessonID int64     `json:"exclude_lesson_id" validate:"gte=0"`
}

type availabilityResponse struct {
	Available bool          `json:"available"`
	Message   string        `json:"message,omitempty"`
	Conflict  *model.Lesson `json:"conflict,omitempty"`
}

type lessonsResponse struct {
	Lessons []*model.Lesson `json:"lessons"`
}
