package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// MaxOccurrences ограничивает размер одной серии (год ежедневных занятий)
const MaxOccurrences = 366

var (
	ErrInvalidRule        = errors.New("invalid recurrence rule")
	ErrTooManyOccurrences = fmt.Errorf("recurrence produces more than %d occurrences", MaxOccurrences)
)

// Expand разворачивает правило повторения в конкретные времена начала занятий.
// Время суток первого занятия сохраняется в loc, в том числе при переходе на летнее время.
// Результат отсортирован и не содержит времён раньше rule.Start.
func Expand(rule model.RecurrenceRule, loc *time.Location) ([]time.Time, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = rule.Start.Location()
	}

	start := rule.Start.In(loc)
	if rule.Until != nil && dateKey(rule.Until.In(loc)) < dateKey(start) {
		return nil, fmt.Errorf("%w: until is before start", ErrInvalidRule)
	}

	interval := rule.Interval
	if interval == 0 || rule.Type == model.RecurrenceWeekly {
		interval = 1
	}

	var occurrences []time.Time
	emit := func(t time.Time) (bool, error) {
		if t.Before(start) {
			return false, nil
		}
		if rule.Until != nil && dateKey(t) > dateKey(rule.Until.In(loc)) {
			return true, nil
		}
		if len(occurrences) >= MaxOccurrences {
			return true, ErrTooManyOccurrences
		}
		occurrences = append(occurrences, t)
		return rule.Count > 0 && len(occurrences) >= rule.Count, nil
	}

	y, m, d := start.Date()
	hour, minute, sec := start.Clock()

	switch rule.Type {
	case model.RecurrenceDaily:
		for i := 0; ; i += interval {
			done, err := emit(time.Date(y, m, d+i, hour, minute, sec, 0, loc))
			if err != nil {
				return nil, err
			}
			if done {
				break
			}
		}

	case model.RecurrenceWeekly, model.RecurrenceEveryNWeeks:
		offsets := weekdayOffsets(rule.Weekdays, start.Weekday())
		monday := d - mondayOffset(start.Weekday())
	weeks:
		for week := 0; ; week += interval {
			for _, off := range offsets {
				done, err := emit(time.Date(y, m, monday+week*7+off, hour, minute, sec, 0, loc))
				if err != nil {
					return nil, err
				}
				if done {
					break weeks
				}
			}
		}
	}

	return occurrences, nil
}

func validateRule(rule model.RecurrenceRule) error {
	switch rule.Type {
	case model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceEveryNWeeks:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, rule.Type)
	}

	if rule.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidRule)
	}
	if rule.Interval < 0 {
		return fmt.Errorf("%w: negative interval", ErrInvalidRule)
	}
	if rule.Count < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalidRule)
	}
	if rule.Count > MaxOccurrences {
		return ErrTooManyOccurrences
	}
	if rule.Count == 0 && rule.Until == nil {
		return fmt.Errorf("%w: either count or until is required", ErrInvalidRule)
	}

	for _, wd := range rule.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidRule, wd)
		}
	}

	return nil
}

// weekdayOffsets возвращает смещения дней от понедельника, без повторов и по возрастанию
func weekdayOffsets(weekdays []time.Weekday, fallback time.Weekday) []int {
	if len(weekdays) == 0 {
		return []int{mondayOffset(fallback)}
	}

	seen := make(map[int]bool, len(weekdays))
	offsets := make([]int, 0, len(weekdays))
	for _, wd := range weekdays {
		off := mondayOffset(wd)
		if seen[off] {
			continue
		}
		seen[off] = true
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	return offsets
}

// mondayOffset: понедельник = 0, воскресенье = 6
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
