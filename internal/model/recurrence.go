package model

import "time"

type RecurrenceType string

const (
	RecurrenceDaily       RecurrenceType = "daily"
	RecurrenceWeekly      RecurrenceType = "weekly"
	RecurrenceEveryNWeeks RecurrenceType = "every_n_weeks"
)

// RecurrenceRule описывает правило повторения занятий.
// Start задаёт дату и время первого занятия, Until и Count - условие окончания.
type RecurrenceRule struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"` // каждые N дней/недель, 0 = 1
	Weekdays []time.Weekday `json:"weekdays"` // пусто = день недели Start
	Start    time.Time      `json:"start"`
	Until    *time.Time     `json:"until"` // включительно, по дате
	Count    int            `json:"count"` // 0 = не ограничено (нужен Until)
}
