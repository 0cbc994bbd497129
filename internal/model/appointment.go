package model

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"   // Ожидает подтверждения
	AppointmentStatusConfirmed AppointmentStatus = "confirmed" // Подтверждено
	AppointmentStatusCancelled AppointmentStatus = "cancelled" // Отменено
)

// NotSpecified подставляется вместо отсутствующих полей, чтобы в интерфейсе не было пустых значений
const NotSpecified = "Not specified"

// DoctorRef краткие данные врача для истории
type DoctorRef struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// NameRef именованная сущность (отделение, симптом)
type NameRef struct {
	Name string `json:"name"`
}

// Appointment запись в локальной истории пациента.
// JSON-ключи совпадают с форматом локального хранилища веб-клиента.
type Appointment struct {
	ID              string            `json:"id"`
	AppointmentDate string            `json:"appointment_date"` // yyyy-mm-dd
	AppointmentTime string            `json:"appointment_time"` // "09:00 AM"
	Status          AppointmentStatus `json:"status"`
	Doctor          DoctorRef         `json:"doctors"`
	Department      NameRef           `json:"departments"`
	Symptom         NameRef           `json:"symptoms"`
	BookingKey      string            `json:"booking_key,omitempty"` // ключ идемпотентности
}

// IsValid проверяет что статус входит в допустимый набор
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}
