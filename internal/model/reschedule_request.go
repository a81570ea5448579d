package model

import "time"

type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"  // Ожидает решения учителя
	RescheduleStatusApproved RescheduleStatus = "approved" // Занятие перенесено
	RescheduleStatusRejected RescheduleStatus = "rejected" // Отклонено учителем
	RescheduleStatusExpired  RescheduleStatus = "expired"  // Предложенное время прошло
)

// RescheduleRequest represents a student's request to move a lesson to another time
type RescheduleRequest struct {
	ID            int64            `json:"id"`
	LessonID      int64            `json:"lesson_id"`
	StudentID     int64            `json:"student_id"`
	ProposedStart time.Time        `json:"proposed_start"`
	Status        RescheduleStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// IsPending checks if request is pending
func (r *RescheduleRequest) IsPending() bool {
	return r.Status == RescheduleStatusPending
}
