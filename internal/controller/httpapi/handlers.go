package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"github.com/julienschmidt/httprouter"
)

// период расписания по умолчанию
const defaultSchedulePeriod = 7 * 24 * time.Hour

func (s *Server) handleHealth(r *http.Request, ps httprouter.Params) (any, error) {
	return map[string]string{"status": "ok"}, nil
}

func (s *Server) handleListLessons(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	from, err := optionalTime(q, "from", s.now())
	if err != nil {
		return nil, err
	}
	to, err := optionalTime(q, "to", from.Add(defaultSchedulePeriod))
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessons.GetTeacherSchedule(r.Context(), teacherID, from, to)
	if err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []*model.Lesson{}
	}
	return lessonsResponse{Lessons: lessons}, nil
}

func (s *Server) handleCreateLesson(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}

	var req createLessonRequest
	if err := s.validator.decode(r, &req); err != nil {
		return nil, err
	}

	return s.lessons.CreateLesson(r.Context(), service.CreateLessonInput{
		TeacherID:       teacherID,
		StudentID:       req.StudentID,
		GroupID:         req.GroupID,
		SubjectID:       req.SubjectID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
}

func (s *Server) handleCreateRecurring(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}

	var req createRecurringRequest
	if err := s.validator.decode(r, &req); err != nil {
		return nil, err
	}

	lessons, err := s.lessons.CreateRecurringLessons(r.Context(), service.CreateRecurringInput{
		TeacherID:       teacherID,
		StudentID:       req.StudentID,
		GroupID:         req.GroupID,
		SubjectID:       req.SubjectID,
		Rule:            req.rule(),
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	return lessonsResponse{Lessons: lessons}, nil
}

func (s *Server) handleRescheduleLesson(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}
	lessonID, err := pathID(ps, "lessonID")
	if err != nil {
		return nil, err
	}

	var req rescheduleLessonRequest
	if err := s.validator.decode(r, &req); err != nil {
		return nil, err
	}

	return s.lessons.RescheduleLesson(r.Context(), teacherID, lessonID, req.StartTime, req.DurationMinutes)
}

func (s *Server) handleCancelLesson(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}
	lessonID, err := pathID(ps, "lessonID")
	if err != nil {
		return nil, err
	}

	if err := s.lessons.CancelLesson(r.Context(), teacherID, lessonID); err != nil {
		return nil, err
	}
	return map[string]bool{"canceled": true}, nil
}

func (s *Server) handleAvailability(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}

	q, err := parseAvailabilityQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(&q); err != nil {
		return nil, err
	}

	conflict, err := s.lessons.CheckAvailability(r.Context(), service.AvailabilityInput{
		TeacherID:       teacherID,
		StartTime:       q.Start,
		DurationMinutes: q.DurationMinutes,
		StudentID:       q.StudentID,
		ExcludeLessonID: q.ExcludeLessonID,
	})
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return availabilityResponse{Message: conflict.Message, Conflict: conflict.Lesson}, nil
	}
	return availabilityResponse{Available: true}, nil
}

func (s *Server) handleSubmitReschedule(r *http.Request, ps httprouter.Params) (any, error) {
	studentID, err := pathID(ps, "studentID")
	if err != nil {
		return nil, err
	}

	var req submitRescheduleRequest
	if err := s.validator.decode(r, &req); err != nil {
		return nil, err
	}

	return s.reschedule.SubmitRequest(r.Context(), studentID, req.LessonID, req.ProposedStart)
}

func (s *Server) handleApproveReschedule(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}
	requestID, err := pathID(ps, "requestID")
	if err != nil {
		return nil, err
	}

	return s.reschedule.ApproveRequest(r.Context(), teacherID, requestID)
}

func (s *Server) handleRejectReschedule(r *http.Request, ps httprouter.Params) (any, error) {
	teacherID, err := pathID(ps, "teacherID")
	if err != nil {
		return nil, err
	}
	requestID, err := pathID(ps, "requestID")
	if err != nil {
		return nil, err
	}

	if err := s.reschedule.RejectRequest(r.Context(), teacherID, requestID); err != nil {
		return nil, err
	}
	return map[string]bool{"rejected": true}, nil
}

func pathID(ps httprouter.Params, name string) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Некорректный идентификатор " + name)
	}
	return id, nil
}

func optionalTime(q url.Values, name string, fallback time.Time) (time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, badRequest("Параметр " + name + " должен быть в формате RFC 3339")
	}
	return t, nil
}

func optionalInt64(q url.Values, name string) (*int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, badRequest("Параметр " + name + " должен быть числом")
	}
	return &v, nil
}

func parseAvailabilityQuery(q url.Values) (availabilityQuery, error) {
	var out availabilityQuery

	start, err := optionalTime(q, "start", time.Time{})
	if err != nil {
		return out, err
	}
	out.Start = start

	duration, err := optionalInt64(q, "duration_minutes")
	if err != nil {
		return out, err
	}
	if duration != nil {
		out.DurationMinutes = int(*duration)
	}

	if out.StudentID, err = optionalInt64(q, "student_id"); err != nil {
		return out, err
	}

	exclude, err := optionalInt64(q, "exclude_lesson_id")
	if err != nil {
		return out, err
	}
	if exclude != nil {
		out.ExcludeLessonID = *exclude
	}

	return out, nil
}
