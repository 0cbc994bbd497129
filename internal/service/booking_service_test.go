package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/repository"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() model.BookingDraft {
	return model.BookingDraft{
		DoctorID:     7,
		Date:         "2026-10-20",
		TimeLabel:    "09:00 AM",
		PatientName:  "Ann Lee",
		PatientPhone: "0900123456",
	}
}

func openSnapshot() slots.Snapshot {
	snap := slots.NewSnapshot(7, "2026-10-20", slots.ModeOpen)
	snap.Put("09:00 AM", 101)
	snap.Put("02:00 PM", 205)
	return snap
}

func TestValidate_AcceptsEmptyReason(t *testing.T) {
	assert.NoError(t, Validate(validForm()))
}

func TestValidate_MissingPhone(t *testing.T) {
	form := validForm()
	form.PatientPhone = ""

	err := Validate(form)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	var missing *MissingRequiredFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{FieldPatientPhone}, missing.Fields)
}

func TestValidate_ReportsAllMissingInOrder(t *testing.T) {
	err := Validate(model.BookingDraft{PatientName: "   ", Reason: "cough"})

	var missing *MissingRequiredFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{FieldDate, FieldTime, FieldPatientName, FieldPatientPhone}, missing.Fields)
	assert.Equal(t, "missing required field: date, time, patientName, patientPhone", err.Error())
}

func TestBuildAppointment(t *testing.T) {
	svc := NewBookingService(nil, ConfirmationLocal, nil, nil)

	appt, err := svc.BuildAppointment(validForm(), model.BookingContext{
		DoctorName:     "Dr. Lan",
		Specialization: "MD",
		DepartmentName: "Cardiology",
		SymptomNames:   []string{"Chest pain", " ", "Fatigue"},
	})
	require.NoError(t, err)

	id, err := uuid.Parse(appt.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	assert.Equal(t, "2026-10-20", appt.AppointmentDate)
	assert.Equal(t, "09:00 AM", appt.AppointmentTime)
	assert.Equal(t, model.AppointmentStatusConfirmed, appt.Status)
	assert.Equal(t, model.DoctorRef{Name: "Dr. Lan", Specialization: "MD"}, appt.Doctor)
	assert.Equal(t, "Cardiology", appt.Department.Name)
	assert.Equal(t, "Chest pain, Fatigue", appt.Symptom.Name)
	assert.Equal(t, BookingKey(validForm()), appt.BookingKey)
}

func TestBuildAppointment_Fallbacks(t *testing.T) {
	svc := NewBookingService(nil, ConfirmationLocal, nil, nil)

	appt, err := svc.BuildAppointment(validForm(), model.BookingContext{})
	require.NoError(t, err)
	assert.Equal(t, model.NotSpecified, appt.Doctor.Name)
	assert.Equal(t, model.NotSpecified, appt.Doctor.Specialization)
	assert.Equal(t, model.NotSpecified, appt.Department.Name)
	assert.Equal(t, model.NotSpecified, appt.Symptom.Name)

	form := validForm()
	form.Reason = "  Persistent cough "
	appt, err = svc.BuildAppointment(form, model.BookingContext{})
	require.NoError(t, err)
	assert.Equal(t, "Persistent cough", appt.Symptom.Name)
}

func TestBuildAppointment_FreshIDs(t *testing.T) {
	svc := NewBookingService(nil, ConfirmationLocal, nil, nil)
	a, err := svc.BuildAppointment(validForm(), model.BookingContext{})
	require.NoError(t, err)
	b, err := svc.BuildAppointment(validForm(), model.BookingContext{})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBookingKey(t *testing.T) {
	form := validForm()
	key := BookingKey(form)
	assert.Len(t, key, 64)

	same := form
	same.PatientName = "  ann lee "
	same.Reason = "different reason"
	assert.Equal(t, key, BookingKey(same))

	other := form
	other.TimeLabel = "02:00 PM"
	assert.NotEqual(t, key, BookingKey(other))
}

func TestConfirm_LocalMode(t *testing.T) {
	observer := &recordingObserver{}
	api := &fakeAppointmentAPI{}
	svc := NewBookingService(api, ConfirmationLocal, nil, observer)
	store := &fakeStore{}

	appt, err := svc.Confirm(context.Background(), store, validForm(), model.BookingContext{DoctorName: "Dr. Lan"}, openSnapshot())
	require.NoError(t, err)
	require.Len(t, store.items, 1)
	assert.Equal(t, appt, store.items[0])
	assert.Empty(t, api.requests, "local mode never calls the server")
	assert.Equal(t, []string{"local:confirmed"}, observer.bookings)
}

func TestConfirm_ServerMode(t *testing.T) {
	api := &fakeAppointmentAPI{}
	svc := NewBookingService(api, ConfirmationServer, nil, nil)
	store := &fakeStore{}

	form := validForm()
	form.TimeLabel = "02:00 PM"
	form.Reason = "checkup"

	_, err := svc.Confirm(context.Background(), store, form, model.BookingContext{}, openSnapshot())
	require.NoError(t, err)
	require.Len(t, api.requests, 1)
	assert.Equal(t, clinicapi.CreateAppointmentRequest{
		ScheduleID:   205,
		PatientName:  "Ann Lee",
		PatientPhone: "0900123456",
		Reason:       "checkup",
	}, api.requests[0])
	assert.Len(t, store.items, 1)
}

func TestConfirm_ServerErrorSavesNothing(t *testing.T) {
	api := &fakeAppointmentAPI{err: &clinicapi.APIError{Status: 409, Message: "Slot already booked"}}
	svc := NewBookingService(api, ConfirmationServer, nil, nil)
	store := &fakeStore{}

	_, err := svc.Confirm(context.Background(), store, validForm(), model.BookingContext{}, openSnapshot())
	require.Error(t, err)
	assert.Equal(t, "Slot already booked", clinicapi.UserMessage(err, ""))
	assert.Empty(t, store.items)
}

func TestConfirm_RejectsInvalidForm(t *testing.T) {
	svc := NewBookingService(nil, ConfirmationLocal, nil, nil)
	store := &fakeStore{}

	form := validForm()
	form.PatientName = ""
	_, err := svc.Confirm(context.Background(), store, form, model.BookingContext{}, openSnapshot())
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Empty(t, store.items)
}

func TestConfirm_RejectsUnselectableTime(t *testing.T) {
	svc := NewBookingService(nil, ConfirmationLocal, nil, nil)
	store := &fakeStore{}

	form := validForm()
	form.TimeLabel = "10:00 AM"
	_, err := svc.Confirm(context.Background(), store, form, model.BookingContext{}, openSnapshot())
	assert.ErrorIs(t, err, ErrSlotNotSelectable)

	// снимок другой даты
	form = validForm()
	form.Date = "2026-10-21"
	_, err = svc.Confirm(context.Background(), store, form, model.BookingContext{}, openSnapshot())
	assert.ErrorIs(t, err, ErrSlotNotSelectable)

	_, err = svc.Confirm(context.Background(), store, validForm(), model.BookingContext{}, slots.Unavailable(7, "2026-10-20"))
	assert.ErrorIs(t, err, ErrSlotNotSelectable)
	assert.Empty(t, store.items)
}

func TestConfirm_DuplicateIsRejectedByHistory(t *testing.T) {
	svc := NewBookingService(nil, ConfirmationLocal, nil, nil)
	store := history.NewStore(repository.NewMemoryStorage(), history.UserKey(1), nil, nil)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	assert.ErrorIs(t, err, history.ErrDuplicateAppointment)
	assert.Len(t, store.List(ctx), 1)
}

func TestConfirm_ServerModeDuplicateNeverReachesServer(t *testing.T) {
	api := &fakeAppointmentAPI{}
	svc := NewBookingService(api, ConfirmationServer, nil, nil)
	store := history.NewStore(repository.NewMemoryStorage(), history.UserKey(2), nil, nil)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	assert.ErrorIs(t, err, history.ErrDuplicateAppointment)
	assert.Len(t, api.requests, 1)
	assert.Len(t, store.List(ctx), 1)
}

func TestConfirm_ServerModeRetryAfterStoreFailure(t *testing.T) {
	api := &fakeAppointmentAPI{}
	svc := NewBookingService(api, ConfirmationServer, nil, nil)
	store := &fakeStore{err: errors.New("disk full")}
	ctx := context.Background()

	_, err := svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	require.Error(t, err)
	require.Len(t, api.requests, 1)

	// повтор после сбоя сохранения не создаёт вторую запись на сервере
	store.err = nil
	_, err = svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	require.NoError(t, err)
	assert.Len(t, api.requests, 1)
	assert.Len(t, store.items, 1)

	// другая форма снова идёт на сервер
	form := validForm()
	form.TimeLabel = "02:00 PM"
	_, err = svc.Confirm(ctx, store, form, model.BookingContext{}, openSnapshot())
	require.NoError(t, err)
	assert.Len(t, api.requests, 2)
}

func TestConfirm_SameFormInFlight(t *testing.T) {
	api := &fakeAppointmentAPI{}
	svc := NewBookingService(api, ConfirmationServer, nil, nil)
	store := &fakeStore{block: make(chan struct{})}
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
		done <- err
	}()

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.requests) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Confirm(ctx, store, validForm(), model.BookingContext{}, openSnapshot())
	assert.ErrorIs(t, err, ErrBookingInProgress)

	close(store.block)
	require.NoError(t, <-done)
	assert.Len(t, api.requests, 1)
	assert.Len(t, store.items, 1)
}

func TestParseConfirmationMode(t *testing.T) {
	m, err := ParseConfirmationMode("")
	require.NoError(t, err)
	assert.Equal(t, ConfirmationLocal, m)

	m, err = ParseConfirmationMode("server")
	require.NoError(t, err)
	assert.Equal(t, ConfirmationServer, m)

	_, err = ParseConfirmationMode("remote")
	assert.Error(t, err)
}
