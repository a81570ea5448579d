package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrTimeSlotTaken возвращается, когда база отклонила пересекающееся занятие
	ErrTimeSlotTaken = errors.New("time slot already taken")
)
