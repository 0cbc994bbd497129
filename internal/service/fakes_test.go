package service

import (
	"context"
	"sync"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
)

type fakeSlotsAPI struct {
	days  []model.DaySlots
	err   error
	calls int
	from  string
	to    string
}

func (f *fakeSlotsAPI) GetSlotsByDate(ctx context.Context, doctorID int64, from, to string) ([]model.DaySlots, error) {
	f.calls++
	f.from, f.to = from, to
	return f.days, f.err
}

type fakeAppointmentAPI struct {
	mu       sync.Mutex
	requests []clinicapi.CreateAppointmentRequest
	err      error
}

func (f *fakeAppointmentAPI) CreateAppointment(ctx context.Context, req clinicapi.CreateAppointmentRequest) (*clinicapi.CreatedAppointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &clinicapi.CreatedAppointment{AppointmentID: 900, Status: "confirmed"}, nil
}

type fakeStore struct {
	mu    sync.Mutex
	items []model.Appointment
	err   error
	// block держит Append до закрытия канала
	block chan struct{}
}

func (f *fakeStore) Contains(ctx context.Context, bookingKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.BookingKey == bookingKey {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Append(ctx context.Context, appt model.Appointment) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, appt)
	return nil
}

type recordingObserver struct {
	availability []string
	bookings     []string
}

func (o *recordingObserver) ObserveAvailability(outcome string, seconds float64) {
	o.availability = append(o.availability, outcome)
}

func (o *recordingObserver) ObserveBooking(mode, outcome string) {
	o.bookings = append(o.bookings, mode+":"+outcome)
}

type fakeCatalogAPI struct {
	symptoms      []model.Symptom
	symptomsCalls int
	matches       []model.DepartmentMatch
	doctors       []model.Doctor
	err           error
}

func (f *fakeCatalogAPI) GetSymptoms(ctx context.Context) ([]model.Symptom, error) {
	f.symptomsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Symptom(nil), f.symptoms...), nil
}

func (f *fakeCatalogAPI) MatchDepartments(ctx context.Context, ids []int64) ([]model.DepartmentMatch, error) {
	return append([]model.DepartmentMatch(nil), f.matches...), f.err
}

func (f *fakeCatalogAPI) GetDoctorsByDepartment(ctx context.Context, deptID int64) ([]model.Doctor, error) {
	return append([]model.Doctor(nil), f.doctors...), f.err
}

func (f *fakeCatalogAPI) GetDoctorProfile(ctx context.Context, doctorID int64) (*model.Doctor, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Doctor{DoctorID: doctorID, FullName: "Dr. Lan"}, nil
}

type fakeAuthAPI struct {
	user       *model.User
	err        error
	registered []model.Registration
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	f.registered = append(f.registered, reg)
	return f.user, f.err
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*model.User, error) {
	return f.user, f.err
}
