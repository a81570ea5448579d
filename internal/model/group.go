package model

import "time"

// Group is a set of students taught together by one teacher
type Group struct {
	ID        int64     `json:"id"`
	TeacherID int64     `json:"teacher_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
