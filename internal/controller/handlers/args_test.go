package handlers

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLessonArgs(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	t.Run("with student", func(t *testing.T) {
		args, err := parseLessonArgs("/lesson 20.10.2026 14:30 60 7", moscow)
		require.NoError(t, err)
		assert.True(t, args.Start.Equal(time.Date(2026, time.October, 20, 11, 30, 0, 0, time.UTC)))
		assert.Equal(t, 60, args.DurationMinutes)
		require.NotNil(t, args.StudentID)
		assert.Equal(t, int64(7), *args.StudentID)
	})

	t.Run("without student and with bot mention", func(t *testing.T) {
		args, err := parseLessonArgs("/lesson@tutor_bot 01.11.2026 09:00 45", moscow)
		require.NoError(t, err)
		assert.Nil(t, args.StudentID)
		assert.Equal(t, 45, args.DurationMinutes)
	})

	tests := []struct {
		name  string
		input string
		usage bool
	}{
		{"no arguments", "/lesson", true},
		{"too many arguments", "/lesson 20.10.2026 14:30 60 7 8", true},
		{"bad date", "/lesson 2026-10-20 14:30 60", false},
		{"bad duration", "/lesson 20.10.2026 14:30 час", false},
		{"zero duration", "/lesson 20.10.2026 14:30 0", false},
		{"bad student", "/lesson 20.10.2026 14:30 60 ученик", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLessonArgs(tt.input, moscow)
			require.Error(t, err)
			if tt.usage {
				assert.ErrorIs(t, err, errUsage)
			}
		})
	}
}

func TestParseRescheduleArgs(t *testing.T) {
	args, err := parseRescheduleArgs("/reschedule #12 21.10.2026 16:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, int64(12), args.LessonID)
	assert.True(t, args.Start.Equal(time.Date(2026, time.October, 21, 16, 0, 0, 0, time.UTC)))

	_, err = parseRescheduleArgs("/reschedule 12", time.UTC)
	assert.ErrorIs(t, err, errUsage)
}

func TestParseIDArg(t *testing.T) {
	id, err := parseIDArg("/approve 5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = parseIDArg("/approve")
	assert.ErrorIs(t, err, errUsage)

	_, err = parseIDArg("/approve -1")
	assert.Error(t, err)
}
