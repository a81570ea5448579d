package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
)

// DefaultLookback - насколько раньше начала кандидата ищутся занятия, которые могут на него заходить.
// Предполагается, что ни одно занятие не длится дольше; сервисы отклоняют более длинные занятия.
const DefaultLookback = 24 * time.Hour

var (
	ErrInvalidOwner    = errors.New("owner id is required")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrNoCandidates    = errors.New("no candidate start times")
)

// LessonFinder возвращает неотменённые занятия учителя, начало которых попадает в [from, to)
type LessonFinder interface {
	FindActiveInWindow(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error)
}

// Checker ищет пересечения новых занятий с расписанием учителя
type Checker struct {
	finder   LessonFinder
	lookback time.Duration
}

type Option func(*Checker)

// WithLookback задаёт окно поиска назад от начала кандидата
func WithLookback(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.lookback = d
		}
	}
}

func NewChecker(finder LessonFinder, opts ...Option) *Checker {
	c := &Checker{
		finder:   finder,
		lookback: DefaultLookback,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookback возвращает окно поиска назад, оно же максимальная длительность занятия
func (c *Checker) Lookback() time.Duration {
	return c.lookback
}

// Overlaps проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd).
// Занятия встык не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckOverlap возвращает первое занятие учителя, пересекающееся с [start, start+duration).
// excludeLessonID != 0 исключает занятие из проверки (перенос занятия на новое время).
// Возвращает nil, если время свободно.
func (c *Checker) CheckOverlap(ctx context.Context, teacherID int64, start time.Time, durationMinutes int, excludeLessonID int64) (*model.Lesson, error) {
	if teacherID <= 0 {
		return nil, ErrInvalidOwner
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	duration := minutes(durationMinutes)
	end := start.Add(duration)

	lessons, err := c.finder.FindActiveInWindow(ctx, teacherID, start.Add(-c.lookback), end)
	if err != nil {
		return nil, fmt.Errorf("find lessons: %w", err)
	}

	return firstConflict(lessons, teacherID, start, end, excludeLessonID), nil
}

// CheckBatchOverlap проверяет все занятия серии одним запросом к хранилищу.
// Возвращает занятие, конфликтующее с самым ранним конфликтным кандидатом, или nil.
// Пересечения кандидатов между собой не проверяются.
func (c *Checker) CheckBatchOverlap(ctx context.Context, teacherID int64, starts []time.Time, durationMinutes int, excludeLessonID int64) (*model.Lesson, error) {
	if teacherID <= 0 {
		return nil, ErrInvalidOwner
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if len(starts) == 0 {
		return nil, ErrNoCandidates
	}

	sorted := make([]time.Time, len(starts))
	copy(sorted, starts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	duration := minutes(durationMinutes)
	from := sorted[0].Add(-c.lookback)
	to := sorted[len(sorted)-1].Add(duration)

	lessons, err := c.finder.FindActiveInWindow(ctx, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find lessons: %w", err)
	}
	if len(lessons) == 0 {
		return nil, nil
	}

	for _, start := range sorted {
		if conflict := firstConflict(lessons, teacherID, start, start.Add(duration), excludeLessonID); conflict != nil {
			return conflict, nil
		}
	}

	return nil, nil
}

func firstConflict(lessons []*model.Lesson, teacherID int64, start, end time.Time, excludeLessonID int64) *model.Lesson {
	for _, lesson := range lessons {
		if lesson == nil || lesson.IsCanceled || lesson.TeacherID != teacherID {
			continue
		}
		if excludeLessonID != 0 && lesson.ID == excludeLessonID {
			continue
		}
		if Overlaps(lesson.StartTime, lesson.EndTime(), start, end) {
			return lesson
		}
	}
	return nil
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
