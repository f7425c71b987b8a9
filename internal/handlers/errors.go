package handlers

import (
	"net/http"

	"calendarApp/internal/logger"
	"calendarApp/internal/service"

	"go.uber.org/zap"
)

// base общая часть обработчиков: отображение ошибок сервиса в HTTP
type base struct {
	development bool
}

func handleBusinessError(w http.ResponseWriter, err error) bool {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	if businessErr.Code == service.CodeValidation {
		responseWithErrors(w, statusCode, businessErr.Messages)
		return true
	}
	responseWithError(w, statusCode, businessErr.Message)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

// fail бизнес-ошибки отдаются как есть, остальное - 500 без деталей вне development
func (b base) fail(w http.ResponseWriter, err error, message string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err)
	if b.development {
		responseWithError(w, http.StatusInternalServerError, message+": "+err.Error())
		return
	}
	responseWithError(w, http.StatusInternalServerError, message)
}
