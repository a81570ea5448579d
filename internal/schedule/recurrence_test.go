package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	// Вторник, 20 октября 2026, 16:00 UTC
	start := time.Date(2026, time.October, 20, 16, 0, 0, 0, time.UTC)

	t.Run("weekly by count", func(t *testing.T) {
		got, err := Expand(model.RecurrenceRule{Type: model.RecurrenceWeekly, Start: start, Count: 5}, time.UTC)
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i, occ := range got {
			assert.Equal(t, start.AddDate(0, 0, 7*i), occ)
		}
	})

	t.Run("weekly on several days skips days before start", func(t *testing.T) {
		rule := model.RecurrenceRule{
			Type:     model.RecurrenceWeekly,
			Weekdays: []time.Weekday{time.Thursday, time.Monday, time.Thursday},
			Start:    start,
			Count:    4,
		}
		got, err := Expand(rule, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			time.Date(2026, time.October, 22, 16, 0, 0, 0, time.UTC),
			time.Date(2026, time.October, 26, 16, 0, 0, 0, time.UTC),
			time.Date(2026, time.October, 29, 16, 0, 0, 0, time.UTC),
			time.Date(2026, time.November, 2, 16, 0, 0, 0, time.UTC),
		}, got)
	})

	t.Run("daily with interval until date inclusive", func(t *testing.T) {
		until := time.Date(2026, time.October, 26, 0, 0, 0, 0, time.UTC)
		got, err := Expand(model.RecurrenceRule{Type: model.RecurrenceDaily, Interval: 2, Start: start, Until: &until}, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			start,
			start.AddDate(0, 0, 2),
			start.AddDate(0, 0, 4),
			start.AddDate(0, 0, 6),
		}, got)
	})

	t.Run("every two weeks", func(t *testing.T) {
		rule := model.RecurrenceRule{
			Type:     model.RecurrenceEveryNWeeks,
			Interval: 2,
			Weekdays: []time.Weekday{time.Tuesday, time.Friday},
			Start:    start,
			Count:    4,
		}
		got, err := Expand(rule, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			start,
			time.Date(2026, time.October, 23, 16, 0, 0, 0, time.UTC),
			time.Date(2026, time.November, 3, 16, 0, 0, 0, time.UTC),
			time.Date(2026, time.November, 6, 16, 0, 0, 0, time.UTC),
		}, got)
	})

	t.Run("wall clock is kept across DST change", func(t *testing.T) {
		berlin, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		first := time.Date(2026, time.March, 23, 10, 0, 0, 0, berlin)
		got, err := Expand(model.RecurrenceRule{Type: model.RecurrenceWeekly, Start: first, Count: 2}, berlin)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 10, got[1].Hour())
		assert.Equal(t, 7*24*time.Hour-time.Hour, got[1].Sub(got[0]))
	})

	t.Run("invalid rules", func(t *testing.T) {
		before := start.AddDate(0, 0, -1)
		farAway := start.AddDate(5, 0, 0)

		tests := []struct {
			name string
			rule model.RecurrenceRule
			want error
		}{
			{"unknown type", model.RecurrenceRule{Type: "monthly", Start: start, Count: 1}, ErrInvalidRule},
			{"no end", model.RecurrenceRule{Type: model.RecurrenceWeekly, Start: start}, ErrInvalidRule},
			{"no start", model.RecurrenceRule{Type: model.RecurrenceWeekly, Count: 3}, ErrInvalidRule},
			{"negative interval", model.RecurrenceRule{Type: model.RecurrenceDaily, Interval: -1, Start: start, Count: 3}, ErrInvalidRule},
			{"bad weekday", model.RecurrenceRule{Type: model.RecurrenceWeekly, Weekdays: []time.Weekday{9}, Start: start, Count: 3}, ErrInvalidRule},
			{"until before start", model.RecurrenceRule{Type: model.RecurrenceDaily, Start: start, Until: &before}, ErrInvalidRule},
			{"too many by count", model.RecurrenceRule{Type: model.RecurrenceDaily, Start: start, Count: MaxOccurrences + 1}, ErrTooManyOccurrences},
			{"too many by until", model.RecurrenceRule{Type: model.RecurrenceDaily, Start: start, Until: &farAway}, ErrTooManyOccurrences},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Expand(tt.rule, time.UTC)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})
}
