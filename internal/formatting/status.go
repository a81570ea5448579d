package formatting

import "github.com/Freeeeeet/tutor_scheduler/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetLessonStatusDisplay возвращает emoji и текст для состояния занятия
func GetLessonStatusDisplay(lesson *model.Lesson) StatusDisplay {
	if lesson.IsCanceled {
		return StatusDisplay{"⚫️", "Отменено"}
	}
	return StatusDisplay{"🟢", "Запланировано"}
}
