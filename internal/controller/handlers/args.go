package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateTimeLayout = "02.01.2006 15:04"

var errUsage = errors.New("usage")

// lessonArgs - аргументы команды /lesson ДД.ММ.ГГГГ ЧЧ:ММ <минуты> [student_id]
type lessonArgs struct {
	Start           time.Time
	DurationMinutes int
	StudentID       *int64
}

// rescheduleArgs - аргументы команды /reschedule <lesson_id> ДД.ММ.ГГГГ ЧЧ:ММ
type rescheduleArgs struct {
	LessonID int64
	Start    time.Time
}

// commandArgs возвращает аргументы команды без самой команды ("/lesson@my_bot" тоже считается командой)
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return fields
	}
	return fields[1:]
}

func parseLessonArgs(text string, loc *time.Location) (lessonArgs, error) {
	args := commandArgs(text)
	if len(args) < 3 || len(args) > 4 {
		return lessonArgs{}, errUsage
	}

	start, err := parseDateTime(args[0], args[1], loc)
	if err != nil {
		return lessonArgs{}, err
	}

	duration, err := strconv.Atoi(args[2])
	if err != nil || duration <= 0 {
		return lessonArgs{}, fmt.Errorf("длительность должна быть положительным числом минут")
	}

	out := lessonArgs{Start: start, DurationMinutes: duration}
	if len(args) == 4 {
		id, err := parseID(args[3])
		if err != nil {
			return lessonArgs{}, err
		}
		out.StudentID = &id
	}

	return out, nil
}

func parseRescheduleArgs(text string, loc *time.Location) (rescheduleArgs, error) {
	args := commandArgs(text)
	if len(args) != 3 {
		return rescheduleArgs{}, errUsage
	}

	id, err := parseID(args[0])
	if err != nil {
		return rescheduleArgs{}, err
	}

	start, err := parseDateTime(args[1], args[2], loc)
	if err != nil {
		return rescheduleArgs{}, err
	}

	return rescheduleArgs{LessonID: id, Start: start}, nil
}

// parseIDArg разбирает команды вида /approve <id>
func parseIDArg(text string) (int64, error) {
	args := commandArgs(text)
	if len(args) != 1 {
		return 0, errUsage
	}
	return parseID(args[0])
}

func parseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("дата и время должны быть в формате ДД.ММ.ГГГГ ЧЧ:ММ")
	}
	return t, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный номер: %s", raw)
	}
	return id, nil
}
