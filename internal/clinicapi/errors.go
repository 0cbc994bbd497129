package clinicapi

import (
	"errors"
	"fmt"
)

// ErrAvailabilityUnavailable сервис доступности не ответил корректно.
// Вызывающий код должен считать что ни один слот не доступен.
var ErrAvailabilityUnavailable = errors.New("availability unavailable")

// APIError ответ бэкенда с ошибкой: не-2xx статус или ok=false
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("clinic API returned %d", e.Status)
	}
	return fmt.Sprintf("clinic API returned %d: %s", e.Status, e.Message)
}

// AvailabilityUnavailableError оборачивает причину сбоя загрузки слотов
type AvailabilityUnavailableError struct {
	DoctorID int64
	Date     string
	Cause    error
}

func (e *AvailabilityUnavailableError) Error() string {
	return fmt.Sprintf("availability for doctor %d on %s: %v", e.DoctorID, e.Date, e.Cause)
}

func (e *AvailabilityUnavailableError) Unwrap() error {
	return e.Cause
}

func (e *AvailabilityUnavailableError) Is(target error) bool {
	return target == ErrAvailabilityUnavailable
}

// ServerMessage сообщение сервера, если оно было в ответе
func (e *AvailabilityUnavailableError) ServerMessage() string {
	var apiErr *APIError
	if errors.As(e.Cause, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// UserMessage текст ошибки для показа пользователю
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
