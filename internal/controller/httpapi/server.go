// Package httpapi отдаёт расписание учителя по JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type LessonService interface {
	CreateLesson(ctx context.Context, in service.CreateLessonInput) (*model.Lesson, error)
	CreateRecurringLessons(ctx context.Context, in service.CreateRecurringInput) ([]*model.Lesson, error)
	RescheduleLesson(ctx context.Context, teacherID, lessonID int64, start time.Time, durationMinutes int) (*model.Lesson, error)
	CancelLesson(ctx context.Context, teacherID, lessonID int64) error
	GetTeacherSchedule(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error)
	CheckAvailability(ctx context.Context, in service.AvailabilityInput) (*service.ConflictError, error)
}

type RescheduleService interface {
	SubmitRequest(ctx context.Context, studentID, lessonID int64, proposedStart time.Time) (*model.RescheduleRequest, error)
	ApproveRequest(ctx context.Context, teacherID, requestID int64) (*model.Lesson, error)
	RejectRequest(ctx context.Context, teacherID, requestID int64) error
}

// Options настраивает ограничение частоты запросов с одного адреса
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	router     *httprouter.Router
	handler    http.Handler
	lessons    LessonService
	reschedule RescheduleService
	validator  *requestValidator
	logger     *zap.Logger
	now        func() time.Time
}

// handler возвращает тело ответа или ошибку; статус успеха задаётся при регистрации маршрута
type handler func(r *http.Request, ps httprouter.Params) (any, error)

func NewServer(lessons LessonService, reschedule RescheduleService, opts Options, logger *zap.Logger) (*Server, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("create request validator: %w", err)
	}

	s := &Server{
		router:     httprouter.New(),
		lessons:    lessons,
		reschedule: reschedule,
		validator:  v,
		logger:     logger,
		now:        time.Now,
	}

	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.logger.Error("Panic in handler", zap.Any("panic", v), zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Не найдено"})
	})

	s.routes()

	limiter := newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	s.handler = s.withLogging(limiter.middleware(s.router))

	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.handle(http.StatusOK, s.handleHealth))

	s.router.GET("/api/teachers/:teacherID/lessons", s.handle(http.StatusOK, s.handleListLessons))
	s.router.POST("/api/teachers/:teacherID/lessons", s.handle(http.StatusCreated, s.handleCreateLesson))
	s.router.POST("/api/teachers/:teacherID/lessons/:lessonID/cancel", s.handle(http.StatusOK, s.handleCancelLesson))
	s.router.PATCH("/api/teachers/:teacherID/lessons/:lessonID", s.handle(http.StatusOK, s.handleRescheduleLesson))
	s.router.POST("/api/teachers/:teacherID/recurring-lessons", s.handle(http.StatusCreated, s.handleCreateRecurring))
	s.router.GET("/api/teachers/:teacherID/availability", s.handle(http.StatusOK, s.handleAvailability))

	s.router.POST("/api/students/:studentID/reschedule-requests", s.handle(http.StatusCreated, s.handleSubmitReschedule))
	s.router.POST("/api/teachers/:teacherID/reschedule-requests/:requestID/approve", s.handle(http.StatusOK, s.handleApproveReschedule))
	s.router.POST("/api/teachers/:teacherID/reschedule-requests/:requestID/reject", s.handle(http.StatusOK, s.handleRejectReschedule))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run слушает addr до отмены ctx, затем плавно останавливает сервер
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP server started", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handle(status int, h handler) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		body, err := h(r, ps)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
