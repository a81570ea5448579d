package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/formatting"
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/tutor_scheduler/internal/schedule"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	e       *httpexpect.Expect
	teacher *model.User
	s1      *model.User
	s2      *model.User
	math    *model.Subject
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	db := memory.Open()
	users := memory.NewUserRepository(db)
	lessons := memory.NewLessonRepository(db)
	requests := memory.NewRescheduleRequestRepository(db)

	checker := schedule.NewChecker(lessons)
	messages := &formatting.ConflictFormatter{
		Now:             func() time.Time { return time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC) },
		DefaultTimezone: "UTC",
	}
	logger := zap.NewNop()

	lessonService := service.NewLessonService(lessons, users, memory.NewSubjectRepository(db), memory.NewGroupRepository(db), checker, messages, logger)
	rescheduleService := service.NewRescheduleService(lessons, requests, users, checker, messages, logger)

	env := &testEnv{
		teacher: &model.User{TelegramID: 1, FirstName: "T1", IsTeacher: true, Timezone: "UTC"},
		s1:      &model.User{TelegramID: 2, FirstName: "S1"},
		s2:      &model.User{TelegramID: 3, FirstName: "S2"},
	}
	for _, u := range []*model.User{env.teacher, env.s1, env.s2} {
		require.NoError(t, users.Create(context.Background(), u))
	}
	env.math = db.AddSubject(&model.Subject{TeacherID: env.teacher.ID, Name: "Math", Duration: 60, IsActive: true})

	handler, err := NewServer(lessonService, rescheduleService, opts, logger)
	require.NoError(t, err)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	env.e = httpexpect.Default(t, server.URL)
	return env
}

func tuesday(hour, minute int) time.Time {
	return time.Date(2030, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func TestLessonsAPI(t *testing.T) {
	env := newTestEnv(t, Options{})
	e := env.e
	lessonsPath := "/api/teachers/{teacher}/lessons"

	e.GET("/healthz").Expect().Status(http.StatusOK).JSON().Object().Value("status").IsEqual("ok")

	existing := e.POST(lessonsPath, env.teacher.ID).
		WithJSON(map[string]any{
			"student_id": env.s1.ID,
			"subject_id": env.math.ID,
			"start_time": tuesday(14, 0),
		}).
		Expect().
		Status(http.StatusCreated).JSON().Object()
	existing.Value("duration_minutes").IsEqual(60)
	existingID := int64(existing.Value("id").Number().Raw())

	// Пересечение с занятием S1
	e.POST(lessonsPath, env.teacher.ID).
		WithJSON(map[string]any{
			"student_id":       env.s2.ID,
			"start_time":       tuesday(14, 30),
			"duration_minutes": 60,
		}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().
		Value("error").IsEqual("❌ Это время занято: «Math» с учеником S1 12 марта, 14:00–15:00")

	// Сразу после - свободно
	e.POST(lessonsPath, env.teacher.ID).
		WithJSON(map[string]any{
			"student_id":       env.s2.ID,
			"start_time":       tuesday(15, 0),
			"duration_minutes": 60,
		}).
		Expect().
		Status(http.StatusCreated)

	list := e.GET(lessonsPath, env.teacher.ID).
		WithQuery("from", tuesday(0, 0).Format(time.RFC3339)).
		WithQuery("to", tuesday(23, 0).Format(time.RFC3339)).
		Expect().
		Status(http.StatusOK).JSON().Object().Value("lessons").Array()
	list.Length().IsEqual(2)
	list.Value(0).Object().Value("subject_name").IsEqual("Math")

	// Перенос поверх собственного времени
	e.PATCH("/api/teachers/{teacher}/lessons/{lesson}", env.teacher.ID, existingID).
		WithJSON(map[string]any{"start_time": tuesday(13, 30)}).
		Expect().
		Status(http.StatusOK).JSON().Object().Value("id").IsEqual(existingID)

	e.POST("/api/teachers/{teacher}/lessons/{lesson}/cancel", env.teacher.ID, existingID).
		Expect().
		Status(http.StatusOK)

	// Чужой учитель
	e.POST("/api/teachers/{teacher}/lessons/{lesson}/cancel", env.s1.ID, existingID).
		Expect().
		Status(http.StatusForbidden)

	e.POST(lessonsPath, 999).
		WithJSON(map[string]any{"start_time": tuesday(9, 0), "duration_minutes": 60}).
		Expect().
		Status(http.StatusNotFound)
}

func TestLessonsAPI_BadRequests(t *testing.T) {
	env := newTestEnv(t, Options{})
	e := env.e

	e.POST("/api/teachers/{teacher}/lessons", env.teacher.ID).
		WithBytes([]byte("{not json")).
		WithHeader("Content-Type", "application/json").
		Expect().
		Status(http.StatusBadRequest).JSON().Object().ContainsKey("error")

	e.POST("/api/teachers/{teacher}/lessons", env.teacher.ID).
		WithJSON(map[string]any{"duration_minutes": 60}).
		Expect().
		Status(http.StatusBadRequest).JSON().Object().Value("error").String().Contains("start_time")

	e.POST("/api/teachers/abc/lessons").
		WithJSON(map[string]any{"start_time": tuesday(9, 0)}).
		Expect().
		Status(http.StatusBadRequest)

	e.GET("/api/teachers/{teacher}/availability", env.teacher.ID).
		WithQuery("start", "yesterday").
		Expect().
		Status(http.StatusBadRequest)
}

func TestRecurringLessonsAPI(t *testing.T) {
	env := newTestEnv(t, Options{})
	e := env.e

	// Третье занятие серии пересекается с этим
	e.POST("/api/teachers/{teacher}/lessons", env.teacher.ID).
		WithJSON(map[string]any{
			"student_id":       env.s2.ID,
			"start_time":       tuesday(18, 30).AddDate(0, 0, 14),
			"duration_minutes": 60,
		}).
		Expect().
		Status(http.StatusCreated)

	series := map[string]any{
		"student_id":       env.s1.ID,
		"type":             "weekly",
		"start_time":       tuesday(18, 0),
		"count":            5,
		"duration_minutes": 60,
	}

	e.POST("/api/teachers/{teacher}/recurring-lessons", env.teacher.ID).
		WithJSON(series).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().
		Value("error").IsEqual("❌ Это время занято: «Занятие» с учеником S2 26 марта, 18:30–19:30")

	series["start_time"] = tuesday(8, 0)
	e.POST("/api/teachers/{teacher}/recurring-lessons", env.teacher.ID).
		WithJSON(series).
		Expect().
		Status(http.StatusCreated).
		JSON().Object().Value("lessons").Array().Length().IsEqual(5)

	series["type"] = "monthly"
	e.POST("/api/teachers/{teacher}/recurring-lessons", env.teacher.ID).
		WithJSON(series).
		Expect().
		Status(http.StatusBadRequest)
}

func TestAvailabilityAPI(t *testing.T) {
	env := newTestEnv(t, Options{})
	e := env.e

	lesson := e.POST("/api/teachers/{teacher}/lessons", env.teacher.ID).
		WithJSON(map[string]any{
			"student_id":       env.s1.ID,
			"start_time":       tuesday(14, 0),
			"duration_minutes": 60,
		}).
		Expect().
		Status(http.StatusCreated).JSON().Object()
	lessonID := int64(lesson.Value("id").Number().Raw())

	busy := e.GET("/api/teachers/{teacher}/availability", env.teacher.ID).
		WithQuery("start", tuesday(14, 30).Format(time.RFC3339)).
		WithQuery("duration_minutes", 30).
		WithQuery("student_id", env.s1.ID).
		Expect().
		Status(http.StatusOK).JSON().Object()
	busy.Value("available").IsEqual(false)
	busy.Value("message").IsEqual("❌ У этого ученика уже есть занятие «Занятие» 12 марта, 14:00–15:00")
	busy.Value("conflict").Object().Value("id").IsEqual(lessonID)

	e.GET("/api/teachers/{teacher}/availability", env.teacher.ID).
		WithQuery("start", tuesday(15, 0).Format(time.RFC3339)).
		WithQuery("duration_minutes", 60).
		Expect().
		Status(http.StatusOK).JSON().Object().Value("available").IsEqual(true)

	e.GET("/api/teachers/{teacher}/availability", env.teacher.ID).
		WithQuery("start", tuesday(14, 30).Format(time.RFC3339)).
		WithQuery("duration_minutes", 30).
		WithQuery("exclude_lesson_id", lessonID).
		Expect().
		Status(http.StatusOK).JSON().Object().Value("available").IsEqual(true)

	e.GET("/api/teachers/{teacher}/availability", env.teacher.ID).
		WithQuery("start", tuesday(14, 30).Format(time.RFC3339)).
		Expect().
		Status(http.StatusBadRequest)
}

func TestRescheduleRequestsAPI(t *testing.T) {
	env := newTestEnv(t, Options{})
	e := env.e

	lesson := e.POST("/api/teachers/{teacher}/lessons", env.teacher.ID).
		WithJSON(map[string]any{
			"student_id":       env.s1.ID,
			"start_time":       tuesday(10, 0),
			"duration_minutes": 60,
		}).
		Expect().
		Status(http.StatusCreated).JSON().Object()
	lessonID := int64(lesson.Value("id").Number().Raw())

	req := e.POST("/api/students/{student}/reschedule-requests", env.s1.ID).
		WithJSON(map[string]any{"lesson_id": lessonID, "proposed_start": tuesday(16, 0)}).
		Expect().
		Status(http.StatusCreated).JSON().Object()
	req.Value("status").IsEqual("pending")
	requestID := int64(req.Value("id").Number().Raw())

	e.POST("/api/students/{student}/reschedule-requests", env.s2.ID).
		WithJSON(map[string]any{"lesson_id": lessonID, "proposed_start": tuesday(17, 0)}).
		Expect().
		Status(http.StatusForbidden)

	e.POST("/api/teachers/{teacher}/reschedule-requests/{request}/approve", env.teacher.ID, requestID).
		Expect().
		Status(http.StatusOK).JSON().Object().Value("start_time").IsEqual(tuesday(16, 0).Format(time.RFC3339))

	e.POST("/api/teachers/{teacher}/reschedule-requests/{request}/reject", env.teacher.ID, requestID).
		Expect().
		Status(http.StatusBadRequest)

	e.POST("/api/teachers/{teacher}/reschedule-requests/{request}/approve", env.teacher.ID, 999).
		Expect().
		Status(http.StatusNotFound)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 2})
	e := env.e

	e.GET("/healthz").Expect().Status(http.StatusOK)
	e.GET("/healthz").Expect().Status(http.StatusOK)
	e.GET("/healthz").Expect().Status(http.StatusTooManyRequests)
}
