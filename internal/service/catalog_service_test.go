package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestCatalogService_SymptomsCached(t *testing.T) {
	api := &fakeCatalogAPI{symptoms: []model.Symptom{{ID: 2, Name: "Fever"}, {ID: 1, Name: "Cough"}}}
	svc := NewCatalogService(api, nil)
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	symptoms, err := svc.Symptoms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cough", symptoms[0].Name)

	_, err = svc.Symptoms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.symptomsCalls)

	now = now.Add(11 * time.Minute)
	_, err = svc.Symptoms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.symptomsCalls)
}

func TestCatalogService_SymptomNames(t *testing.T) {
	api := &fakeCatalogAPI{symptoms: []model.Symptom{{ID: 2, Name: "Fever"}, {ID: 1, Name: "Cough"}}}
	svc := NewCatalogService(api, nil)

	names, err := svc.SymptomNames(context.Background(), []int64{2, 99, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fever", "Cough"}, names)
}

func TestCatalogService_MatchDepartmentsSorted(t *testing.T) {
	api := &fakeCatalogAPI{matches: []model.DepartmentMatch{
		{DeptID: 1, DeptName: "General", MatchedDiseases: 1},
		{DeptID: 2, DeptName: "Cardiology", MatchedDiseases: 4},
	}}
	svc := NewCatalogService(api, nil)

	matches, err := svc.MatchDepartments(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", matches[0].DeptName)

	_, err = svc.MatchDepartments(context.Background(), nil)
	assert.Error(t, err)
}

func TestCatalogService_DoctorsAvailableFirst(t *testing.T) {
	api := &fakeCatalogAPI{doctors: []model.Doctor{
		{DoctorID: 1, FullName: "Busy", Available: boolPtr(false)},
		{DoctorID: 2, FullName: "Unknown"},
		{DoctorID: 3, FullName: "Free", Available: boolPtr(true)},
	}}
	svc := NewCatalogService(api, nil)

	doctors, err := svc.Doctors(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), doctors[0].DoctorID)
	assert.Equal(t, int64(1), doctors[1].DoctorID)
	assert.Equal(t, int64(2), doctors[2].DoctorID)
}

func TestUserService_Login(t *testing.T) {
	sessions := session.NewManager()
	api := &fakeAuthAPI{user: &model.User{UserID: 4, FullName: "Ann"}}
	svc := NewUserService(api, sessions, nil)

	_, err := svc.Login(context.Background(), 1, " ", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.Login(context.Background(), 1, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.FullName)
	require.NotNil(t, svc.Current(1))

	assert.True(t, svc.Logout(1))
	assert.Nil(t, svc.Current(1))
	assert.False(t, svc.Logout(1))
}

func TestUserService_LoginFailureKeepsLoggedOut(t *testing.T) {
	sessions := session.NewManager()
	svc := NewUserService(&fakeAuthAPI{err: errors.New("invalid credentials")}, sessions, nil)

	_, err := svc.Login(context.Background(), 1, "ann@example.com", "bad")
	require.Error(t, err)
	assert.Nil(t, svc.Current(1))
}

func TestUserService_Register(t *testing.T) {
	sessions := session.NewManager()
	api := &fakeAuthAPI{}
	svc := NewUserService(api, sessions, nil)

	_, err := svc.Register(context.Background(), 1, model.Registration{Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrIncompleteRegistration)
	assert.Empty(t, api.registered)

	user, err := svc.Register(context.Background(), 1, model.Registration{
		Email:    " ann@example.com ",
		Password: "secret1",
		FullName: " Ann Lee",
		CCCD:     "012345678901",
		Phone:    "0900123456",
	})
	require.NoError(t, err)
	require.Len(t, api.registered, 1)
	assert.Equal(t, model.RolePatient, api.registered[0].Role)
	assert.Equal(t, "ann@example.com", api.registered[0].Email)
	assert.Equal(t, "Ann Lee", user.FullName)
	assert.Nil(t, svc.Current(1), "registration does not sign in")
}

func TestUserService_RegisterFailure(t *testing.T) {
	api := &fakeAuthAPI{err: &clinicapi.APIError{Status: 409, Message: "Email already exists"}}
	svc := NewUserService(api, session.NewManager(), nil)

	_, err := svc.Register(context.Background(), 1, model.Registration{
		Email: "ann@example.com", Password: "secret1", FullName: "Ann", CCCD: "012345678901", Phone: "0900123456",
	})
	require.Error(t, err)
	assert.Equal(t, "Email already exists", clinicapi.UserMessage(err, ""))
}
