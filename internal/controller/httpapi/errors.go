package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/service"
	"go.uber.org/zap"
)

const msgInternal = "Что-то пошло не так..."

type errorResponse struct {
	Error string `json:"error"`
}

// requestError - ошибка разбора запроса, текст показывается клиенту
type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &requestError{message: message}
}

// writeError переводит ошибку сервиса в HTTP-ответ. Клиент видит только текст конфликта
// и ошибок валидации, остальное пишется в лог.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflict   *service.ConflictError
		validation *service.ValidationError
		reqErr     *requestError
	)

	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: conflict.Message})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Message})
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.message})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Не найдено"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Доступ запрещён"})
	default:
		s.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}
