package clinicapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
)

// GetSlotsByDate возвращает слоты врача, сгруппированные по дням, за диапазон [from, to].
// Любой сбой оборачивается в AvailabilityUnavailableError.
func (c *Client) GetSlotsByDate(ctx context.Context, doctorID int64, from, to string) ([]model.DaySlots, error) {
	path := fmt.Sprintf("/api/doctors/%d/open-slots-by-date", doctorID)
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	var days []model.DaySlots
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &days); err != nil {
		return nil, &AvailabilityUnavailableError{DoctorID: doctorID, Date: from, Cause: err}
	}
	return days, nil
}

// GetSymptoms возвращает справочник симптомов
func (c *Client) GetSymptoms(ctx context.Context) ([]model.Symptom, error) {
	var symptoms []model.Symptom
	if err := c.doJSON(ctx, http.MethodGet, "/api/symptoms", nil, nil, &symptoms); err != nil {
		return nil, fmt.Errorf("get symptoms: %w", err)
	}
	return symptoms, nil
}

// MatchDepartments подбирает отделения по выбранным симптомам
func (c *Client) MatchDepartments(ctx context.Context, symptomIDs []int64) ([]model.DepartmentMatch, error) {
	body := struct {
		SymptomIDs []int64 `json:"symptomIds"`
	}{SymptomIDs: symptomIDs}

	var matches []model.DepartmentMatch
	if err := c.doJSON(ctx, http.MethodPost, "/api/symptoms/match-departments", nil, body, &matches); err != nil {
		return nil, fmt.Errorf("match departments: %w", err)
	}
	return matches, nil
}

// GetDoctorsByDepartment возвращает врачей отделения
func (c *Client) GetDoctorsByDepartment(ctx context.Context, deptID int64) ([]model.Doctor, error) {
	path := fmt.Sprintf("/api/departments/%d/doctors", deptID)

	var doctors []model.Doctor
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &doctors); err != nil {
		return nil, fmt.Errorf("get doctors by department: %w", err)
	}
	return doctors, nil
}

// GetDoctorProfile возвращает профиль врача
func (c *Client) GetDoctorProfile(ctx context.Context, doctorID int64) (*model.Doctor, error) {
	path := fmt.Sprintf("/api/doctors/%d", doctorID)

	var doctor model.Doctor
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &doctor); err != nil {
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	return &doctor, nil
}

// CreateAppointmentRequest тело запроса создания записи на сервере
type CreateAppointmentRequest struct {
	ScheduleID   int64  `json:"scheduleId"`
	PatientName  string `json:"patientName"`
	PatientPhone string `json:"patientPhone"`
	Reason       string `json:"reason,omitempty"`
}

// CreatedAppointment ответ сервера на создание записи
type CreatedAppointment struct {
	AppointmentID int64  `json:"appointmentId"`
	Status        string `json:"status"`
}

// CreateAppointment создаёт запись на сервере по scheduleId
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*CreatedAppointment, error) {
	var created CreatedAppointment
	if err := c.doJSON(ctx, http.MethodPost, "/api/appointments", nil, req, &created); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &created, nil
}

// Login авторизует пациента по email и паролю
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var user model.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/simple/login", nil, body, &user); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &user, nil
}

// Register создаёт аккаунт пациента. Бэкенд может не вернуть пользователя: тогда результат пустой.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/simple/register", nil, reg, &user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &user, nil
}
