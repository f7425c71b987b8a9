package service

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
)

type BusinessError struct {
	Code     string
	Message  string
	Messages []string
	Details  map[string]any
	Err      error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

// NewNotFound сообщение клиенту вида "Event not found"
func NewNotFound(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeNotFound, fmt.Sprintf("%s not found", resource),
		ToDetail("resource", string(resource)),
		ToDetail("id", id),
	)
}

func NewValidationError(messages []string) *BusinessError {
	busErr := NewBusinessError(CodeValidation, "validation failed",
		ToDetail("count", len(messages)),
	)
	busErr.Messages = messages
	return busErr
}

// AsBusinessError достаёт BusinessError из цепочки ошибок
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

type Resource string

const (
	ResourceEvent Resource = "Event"
	ResourceGoal  Resource = "Goal"
	ResourceTask  Resource = "Task"
)
