package model

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	IsTeacher    bool      `json:"is_teacher"`
	Timezone     string    `json:"timezone"` // IANA, например "Europe/Moscow"; пусто = не настроен
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName возвращает имя для показа в сообщениях
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return ""
}
