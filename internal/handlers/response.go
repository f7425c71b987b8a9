package handlers

import (
	"encoding/json"
	"net/http"

	"calendarApp/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	if err := json.NewEncoder(w).Encode(storage); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

// responseWithData успешный конверт {success: true, data}
func responseWithData(w http.ResponseWriter, code int, data any) {
	responseWithJSON(w, code,
		toPayload("success", true),
		toPayload("data", data),
	)
}

func responseWithList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	responseWithJSON(w, http.StatusOK,
		toPayload("success", true),
		toPayload("count", len(items)),
		toPayload("data", items),
	)
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code,
		toPayload("success", false),
		toPayload("error", message),
	)
}

// responseWithErrors ошибки валидации всегда списком
func responseWithErrors(w http.ResponseWriter, code int, messages []string) {
	responseWithJSON(w, code,
		toPayload("success", false),
		toPayload("error", messages),
	)
}
