package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmationMode где фиксируется подтверждённая запись
type ConfirmationMode string

const (
	// ConfirmationLocal запись сохраняется только в локальную историю
	ConfirmationLocal ConfirmationMode = "local"
	// ConfirmationServer запись сначала создаётся на сервере по scheduleId
	ConfirmationServer ConfirmationMode = "server"
)

// ParseConfirmationMode разбирает режим из конфигурации
func ParseConfirmationMode(s string) (ConfirmationMode, error) {
	switch ConfirmationMode(s) {
	case ConfirmationLocal, ConfirmationServer:
		return ConfirmationMode(s), nil
	case "":
		return ConfirmationLocal, nil
	}
	return "", fmt.Errorf("unknown confirmation mode %q", s)
}

// Имена обязательных полей формы в порядке проверки
const (
	FieldDate         = "date"
	FieldTime         = "time"
	FieldPatientName  = "patientName"
	FieldPatientPhone = "patientPhone"
)

var (
	// ErrMissingRequiredField в форме не заполнено обязательное поле
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrSlotNotSelectable выбранное время недоступно в текущем снимке
	ErrSlotNotSelectable = errors.New("selected time is not available")
	// ErrBookingInProgress такая же запись уже подтверждается
	ErrBookingInProgress = errors.New("booking already in progress")
)

// MissingRequiredFieldError перечисляет все незаполненные поля
type MissingRequiredFieldError struct {
	Fields []string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, strings.Join(e.Fields, ", "))
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// AppointmentAPI создание записи на сервере
type AppointmentAPI interface {
	CreateAppointment(ctx context.Context, req clinicapi.CreateAppointmentRequest) (*clinicapi.CreatedAppointment, error)
}

// AppointmentStore приёмник подтверждённых записей
type AppointmentStore interface {
	Contains(ctx context.Context, bookingKey string) (bool, error)
	Append(ctx context.Context, appt model.Appointment) error
}

// BookingObserver метрики подтверждений
type BookingObserver interface {
	ObserveBooking(mode, outcome string)
}

type BookingService struct {
	api      AppointmentAPI
	mode     ConfirmationMode
	logger   *zap.Logger
	observer BookingObserver
	newID    func() (uuid.UUID, error)

	mu       sync.Mutex
	inFlight map[string]struct{}
	// onServer ключи записей, созданных на сервере, но ещё не сохранённых локально
	onServer map[string]struct{}
}

func NewBookingService(api AppointmentAPI, mode ConfirmationMode, logger *zap.Logger, observer BookingObserver) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == "" {
		mode = ConfirmationLocal
	}
	return &BookingService{
		api:      api,
		mode:     mode,
		logger:   logger,
		observer: observer,
		newID:    uuid.NewV7,
		inFlight: make(map[string]struct{}),
		onServer: make(map[string]struct{}),
	}
}

// Mode режим подтверждения
func (s *BookingService) Mode() ConfirmationMode {
	return s.mode
}

// Validate проверяет обязательные поля формы. Строка из пробелов считается пустой.
func Validate(form model.BookingDraft) error {
	var missing []string
	if isBlank(form.Date) {
		missing = append(missing, FieldDate)
	}
	if isBlank(form.TimeLabel) {
		missing = append(missing, FieldTime)
	}
	if isBlank(form.PatientName) {
		missing = append(missing, FieldPatientName)
	}
	if isBlank(form.PatientPhone) {
		missing = append(missing, FieldPatientPhone)
	}
	if len(missing) > 0 {
		return &MissingRequiredFieldError{Fields: missing}
	}
	return nil
}

// BuildAppointment собирает запись истории из формы и контекста выбора.
// Отсутствующие отображаемые поля заменяются на model.NotSpecified.
func (s *BookingService) BuildAppointment(form model.BookingDraft, bctx model.BookingContext) (model.Appointment, error) {
	id, err := s.newID()
	if err != nil {
		return model.Appointment{}, fmt.Errorf("generate appointment id: %w", err)
	}

	symptom := strings.TrimSpace(strings.Join(nonBlank(bctx.SymptomNames), ", "))
	if symptom == "" {
		symptom = strings.TrimSpace(form.Reason)
	}

	return model.Appointment{
		ID:              id.String(),
		AppointmentDate: form.Date,
		AppointmentTime: form.TimeLabel,
		Status:          model.AppointmentStatusConfirmed,
		Doctor: model.DoctorRef{
			Name:           orNotSpecified(bctx.DoctorName),
			Specialization: orNotSpecified(bctx.Specialization),
		},
		Department: model.NameRef{Name: orNotSpecified(bctx.DepartmentName)},
		Symptom:    model.NameRef{Name: orNotSpecified(symptom)},
		BookingKey: BookingKey(form),
	}, nil
}

// BookingKey ключ идемпотентности: одинаковая форма даёт одинаковый ключ
func BookingKey(form model.BookingDraft) string {
	parts := []string{
		strconv.FormatInt(form.DoctorID, 10),
		strings.TrimSpace(form.Date),
		strings.TrimSpace(form.TimeLabel),
		strings.ToLower(strings.TrimSpace(form.PatientName)),
		strings.TrimSpace(form.PatientPhone),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Confirm проверяет форму и выбранное время, в режиме server создаёт запись на сервере
// и дописывает её в историю.
// Ключ бронирования проверяется до обращения к серверу: повтор формы не создаёт вторую запись.
func (s *BookingService) Confirm(
	ctx context.Context,
	store AppointmentStore,
	form model.BookingDraft,
	bctx model.BookingContext,
	snap slots.Snapshot,
) (model.Appointment, error) {
	if err := Validate(form); err != nil {
		s.observe("invalid")
		return model.Appointment{}, err
	}

	label := slots.TimeLabel(strings.TrimSpace(form.TimeLabel))
	if snap.DoctorID != form.DoctorID || snap.Date != form.Date || !slots.IsSelectable(snap, label) {
		s.observe("not_selectable")
		return model.Appointment{}, ErrSlotNotSelectable
	}

	key := BookingKey(form)
	if !s.begin(key) {
		s.observe("in_progress")
		return model.Appointment{}, ErrBookingInProgress
	}
	defer s.finish(key)

	saved, err := store.Contains(ctx, key)
	if err != nil {
		s.observe("store_error")
		return model.Appointment{}, fmt.Errorf("check history: %w", err)
	}
	if saved {
		s.forgetServer(key)
		s.observe("duplicate")
		return model.Appointment{}, history.ErrDuplicateAppointment
	}

	if s.mode == ConfirmationServer && !s.createdOnServer(key) {
		if err := s.createOnServer(ctx, form, snap, label); err != nil {
			s.observe("server_error")
			return model.Appointment{}, err
		}
		s.markServer(key)
	}

	appt, err := s.BuildAppointment(form, bctx)
	if err != nil {
		s.observe("failed")
		return model.Appointment{}, err
	}

	if err := store.Append(ctx, appt); err != nil {
		if errors.Is(err, history.ErrDuplicateAppointment) {
			s.forgetServer(key)
		}
		s.observe("store_error")
		return model.Appointment{}, fmt.Errorf("save appointment: %w", err)
	}
	s.forgetServer(key)

	s.observe("confirmed")
	s.logger.Info("Appointment confirmed",
		zap.String("appointment_id", appt.ID),
		zap.Int64("doctor_id", form.DoctorID),
		zap.String("date", appt.AppointmentDate),
		zap.String("time", appt.AppointmentTime),
		zap.String("mode", string(s.mode)),
	)

	return appt, nil
}

func (s *BookingService) createOnServer(ctx context.Context, form model.BookingDraft, snap slots.Snapshot, label slots.TimeLabel) error {
	if s.api == nil {
		return errors.New("server confirmation is not configured")
	}
	scheduleID, ok := snap.ScheduleID(label)
	if !ok {
		return ErrSlotNotSelectable
	}

	created, err := s.api.CreateAppointment(ctx, clinicapi.CreateAppointmentRequest{
		ScheduleID:   scheduleID,
		PatientName:  strings.TrimSpace(form.PatientName),
		PatientPhone: strings.TrimSpace(form.PatientPhone),
		Reason:       strings.TrimSpace(form.Reason),
	})
	if err != nil {
		return err
	}

	s.logger.Info("Appointment created on server",
		zap.Int64("schedule_id", scheduleID),
		zap.Int64("server_appointment_id", created.AppointmentID),
	)
	return nil
}

// begin помечает ключ как подтверждаемый; false если он уже в работе
func (s *BookingService) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *BookingService) finish(key string) {
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

func (s *BookingService) createdOnServer(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.onServer[key]
	return ok
}

func (s *BookingService) markServer(key string) {
	s.mu.Lock()
	s.onServer[key] = struct{}{}
	s.mu.Unlock()
}

func (s *BookingService) forgetServer(key string) {
	s.mu.Lock()
	delete(s.onServer, key)
	s.mu.Unlock()
}

func (s *BookingService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveBooking(string(s.mode), outcome)
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func orNotSpecified(s string) string {
	if isBlank(s) {
		return model.NotSpecified
	}
	return strings.TrimSpace(s)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !isBlank(v) {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
