package common

import (
	"errors"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage        = errors.New("no message in callback")
	ErrInvalidFormat    = errors.New("invalid callback format")
	ErrFlowExpired      = errors.New("booking flow expired")
	ErrNoDoctorSelected = errors.New("no doctor selected")
)

// fieldLabels отображаемые имена обязательных полей формы
var fieldLabels = map[string]string{
	service.FieldDate:         "date",
	service.FieldTime:         "time",
	service.FieldPatientName:  "full name",
	service.FieldPatientPhone: "phone number",
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var missing *service.MissingRequiredFieldError
	switch {
	case errors.As(err, &missing):
		labels := make([]string, 0, len(missing.Fields))
		for _, f := range missing.Fields {
			labels = append(labels, fieldLabels[f])
		}
		return "⚠️ Please fill in: " + strings.Join(labels, ", ")
	case errors.Is(err, clinicapi.ErrAvailabilityUnavailable):
		return "⚠️ Could not load available times. Nothing can be booked right now, please retry."
	case errors.Is(err, service.ErrSlotNotSelectable):
		return "❌ This time is no longer available. Please pick another one."
	case errors.Is(err, history.ErrDuplicateAppointment):
		return "ℹ️ This appointment is already saved in your history."
	case errors.Is(err, service.ErrBookingInProgress):
		return "⏳ This appointment is already being confirmed, please wait."
	case errors.Is(err, service.ErrInvalidCredentials):
		return "❌ Email and password are required"
	case errors.Is(err, service.ErrIncompleteRegistration):
		return "❌ Some registration details are missing"
	case errors.Is(err, ErrFlowExpired):
		return "⌛ This booking session has expired. Start again with /book"
	case errors.Is(err, ErrNoDoctorSelected):
		return "❌ Please choose a doctor first"
	case errors.Is(err, ErrNoMessage):
		return "❌ Message processing error"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data format"
	default:
		if msg := clinicapi.UserMessage(err, ""); msg != "" {
			return "❌ " + msg
		}
		return "❌ Something went wrong. Please try again later."
	}
}
