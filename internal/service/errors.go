package service

import (
	"errors"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ConflictError означает, что время занято другим занятием учителя.
// Message можно показывать пользователю как есть.
type ConflictError struct {
	Lesson  *model.Lesson
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError описывает некорректный запрос; текст показывается пользователю
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
