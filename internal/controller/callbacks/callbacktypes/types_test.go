package callbacktypes

import (
	"testing"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingFlow_ToggleSymptom(t *testing.T) {
	var f BookingFlow
	f.ToggleSymptom(1)
	f.ToggleSymptom(2)
	f.ToggleSymptom(3)
	assert.True(t, f.HasSymptom(2))

	f.ToggleSymptom(2)
	assert.False(t, f.HasSymptom(2))
	assert.Equal(t, []int64{1, 3}, f.SymptomIDs)
}

func TestBookingFlow_ToggleDoesNotAliasCopies(t *testing.T) {
	var f BookingFlow
	f.ToggleSymptom(1)
	f.ToggleSymptom(2)
	f.ToggleSymptom(3)

	saved := f
	f.ToggleSymptom(1)
	assert.Equal(t, []int64{1, 2, 3}, saved.SymptomIDs)
}

func TestBookingFlow_SelectDoctorAndDate(t *testing.T) {
	var f BookingFlow
	f.Draft.TimeLabel = "09:00 AM"
	f.SelectDoctor(model.Doctor{DoctorID: 7, FullName: "Dr. Lan", DepartmentName: "Cardiology"})

	require.NotNil(t, f.Selection)
	assert.Equal(t, int64(7), f.Draft.DoctorID)
	assert.Empty(t, f.Draft.TimeLabel)

	f.Draft.TimeLabel = "10:00 AM"
	f.SelectDate("2026-10-20")
	assert.Empty(t, f.Draft.TimeLabel)

	doctorID, date := f.Selection.Selected()
	assert.Equal(t, int64(7), doctorID)
	assert.Equal(t, "2026-10-20", date)

	bctx := f.Context([]string{"Cough"})
	assert.Equal(t, "Dr. Lan", bctx.DoctorName)
	assert.Equal(t, "Cardiology", bctx.DepartmentName)
	assert.Equal(t, []string{"Cough"}, bctx.SymptomNames)
}

func TestHandler_Clock(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	h := &Handler{Now: func() time.Time { return fixed }}
	assert.Equal(t, fixed, h.Clock())

	assert.False(t, (&Handler{}).Clock().IsZero())
}
