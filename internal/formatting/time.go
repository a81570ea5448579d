package formatting

import (
	"fmt"
	"time"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени: "14:00–15:00"
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s–%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday time.Weekday) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && int(weekday) < len(names) {
		return names[weekday]
	}
	return "?"
}

// GetMonthNameGenitive возвращает название месяца в родительном падеже ("20 октября")
func GetMonthNameGenitive(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "января",
		time.February:  "февраля",
		time.March:     "марта",
		time.April:     "апреля",
		time.May:       "мая",
		time.June:      "июня",
		time.July:      "июля",
		time.August:    "августа",
		time.September: "сентября",
		time.October:   "октября",
		time.November:  "ноября",
		time.December:  "декабря",
	}
	return names[month]
}

// FormatDay возвращает "сегодня", "завтра" или "20 октября" относительно now.
// Год добавляется, если он отличается от текущего. Обе даты берутся в loc.
func FormatDay(t, now time.Time, loc *time.Location) string {
	t = t.In(loc)
	now = now.In(loc)

	switch daysBetween(now, t) {
	case 0:
		return "сегодня"
	case 1:
		return "завтра"
	}

	if t.Year() != now.Year() {
		return fmt.Sprintf("%d %s %d", t.Day(), GetMonthNameGenitive(t.Month()), t.Year())
	}
	return fmt.Sprintf("%d %s", t.Day(), GetMonthNameGenitive(t.Month()))
}

// daysBetween считает разницу в календарных днях без учёта перехода на летнее время
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
