package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescheduleService(t *testing.T) {
	ctx := context.Background()

	t.Run("submit and approve moves the lesson", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))

		req, err := f.reschedule.SubmitRequest(ctx, f.s1.ID, lesson.ID, tuesday(16, 0))
		require.NoError(t, err)
		assert.Equal(t, model.RescheduleStatusPending, req.Status)

		moved, err := f.reschedule.ApproveRequest(ctx, f.teacher.ID, req.ID)
		require.NoError(t, err)
		assert.True(t, moved.StartTime.Equal(tuesday(16, 0)))

		stored, err := f.requests.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RescheduleStatusApproved, stored.Status)

		_, err = f.reschedule.ApproveRequest(ctx, f.teacher.ID, req.ID)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("submit into a taken slot is rejected", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))
		f.createMath(t, f.s2, tuesday(16, 0))

		_, err := f.reschedule.SubmitRequest(ctx, f.s1.ID, lesson.ID, tuesday(16, 30))
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "❌ Это время занято: «Math» с учеником S2 завтра, 16:00–17:00", conflict.Message)
	})

	t.Run("approve re-checks the schedule", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))

		req, err := f.reschedule.SubmitRequest(ctx, f.s1.ID, lesson.ID, tuesday(16, 0))
		require.NoError(t, err)

		// пока заявка ждала, учитель занял это время
		blocker := f.createMath(t, f.s2, tuesday(16, 30))

		_, err = f.reschedule.ApproveRequest(ctx, f.teacher.ID, req.ID)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, blocker.ID, conflict.Lesson.ID)

		stored, err := f.lessons.GetByID(ctx, lesson.ID)
		require.NoError(t, err)
		assert.True(t, stored.StartTime.Equal(tuesday(10, 0)))
	})

	t.Run("only the lesson's student may submit", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))

		_, err := f.reschedule.SubmitRequest(ctx, f.s2.ID, lesson.ID, tuesday(16, 0))
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.reschedule.SubmitRequest(ctx, f.s1.ID, 999, tuesday(16, 0))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("proposed time in the past", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))

		_, err := f.reschedule.SubmitRequest(ctx, f.s1.ID, lesson.ID, testNow.Add(-1))
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation)
	})

	t.Run("reject keeps the lesson in place", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))
		req, err := f.reschedule.SubmitRequest(ctx, f.s1.ID, lesson.ID, tuesday(16, 0))
		require.NoError(t, err)

		require.NoError(t, f.reschedule.RejectRequest(ctx, f.teacher.ID, req.ID))

		stored, err := f.lessons.GetByID(ctx, lesson.ID)
		require.NoError(t, err)
		assert.True(t, stored.StartTime.Equal(tuesday(10, 0)))
	})

	t.Run("stale requests expire", func(t *testing.T) {
		f := newFixture(t)
		lesson := f.createMath(t, f.s1, tuesday(10, 0))
		req, err := f.reschedule.SubmitRequest(ctx, f.s1.ID, lesson.ID, tuesday(16, 0))
		require.NoError(t, err)

		count, err := f.reschedule.ExpireStaleRequests(ctx, tuesday(17, 0))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		stored, err := f.requests.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RescheduleStatusExpired, stored.Status)
	})
}
