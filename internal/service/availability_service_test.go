package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAvailability_OpenMode(t *testing.T) {
	api := &fakeSlotsAPI{days: []model.DaySlots{
		{WorkDate: "2026-10-19", Slots: []model.ScheduleSlot{{ScheduleID: 1, StartTime: "10:00:00"}}},
		{WorkDate: "2026-10-20", Slots: []model.ScheduleSlot{
			{ScheduleID: 101, StartTime: "09:00:00"},
			{ScheduleID: 205, StartTime: "14:00:00"},
		}},
	}}
	observer := &recordingObserver{}
	svc := NewAvailabilityService(api, slots.ModeOpen, nil, observer)

	snap, err := svc.ComputeAvailability(context.Background(), 7, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", api.from)
	assert.Equal(t, "2026-10-20", api.to)

	assert.True(t, slots.IsSelectable(snap, "09:00 AM"))
	assert.True(t, slots.IsSelectable(snap, "02:00 PM"))
	assert.False(t, slots.IsSelectable(snap, "10:00 AM"), "slots of other dates are ignored")
	assert.Equal(t, []string{"ok"}, observer.availability)
}

func TestComputeAvailability_NoGroupForDate(t *testing.T) {
	api := &fakeSlotsAPI{days: []model.DaySlots{
		{WorkDate: "2026-10-21", Slots: []model.ScheduleSlot{{ScheduleID: 1, StartTime: "09:00:00"}}},
	}}
	observer := &recordingObserver{}
	svc := NewAvailabilityService(api, slots.ModeOpen, nil, observer)

	snap, err := svc.ComputeAvailability(context.Background(), 7, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 0, slots.SelectableCount(snap))
	assert.Equal(t, []string{"empty"}, observer.availability)
}

func TestComputeAvailability_ServiceFailure(t *testing.T) {
	cause := &clinicapi.AvailabilityUnavailableError{
		DoctorID: 7,
		Date:     "2026-10-20",
		Cause:    &clinicapi.APIError{Status: 500, Message: "boom"},
	}
	svc := NewAvailabilityService(&fakeSlotsAPI{err: cause}, slots.ModeOpen, nil, nil)

	snap, err := svc.ComputeAvailability(context.Background(), 7, "2026-10-20")
	require.Error(t, err)
	assert.True(t, errors.Is(err, clinicapi.ErrAvailabilityUnavailable))
	assert.Equal(t, 0, slots.SelectableCount(snap), "failure never means all slots are open")

	var unavailable *clinicapi.AvailabilityUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "boom", unavailable.ServerMessage())
}

func TestComputeAvailability_PlainErrorIsWrapped(t *testing.T) {
	svc := NewAvailabilityService(&fakeSlotsAPI{err: errors.New("dial tcp")}, slots.ModeOpen, nil, nil)

	_, err := svc.ComputeAvailability(context.Background(), 7, "2026-10-20")
	assert.True(t, errors.Is(err, clinicapi.ErrAvailabilityUnavailable))
}

func TestComputeAvailability_InvalidStartTime(t *testing.T) {
	api := &fakeSlotsAPI{days: []model.DaySlots{
		{WorkDate: "2026-10-20", Slots: []model.ScheduleSlot{{ScheduleID: 1, StartTime: "9am"}}},
	}}
	svc := NewAvailabilityService(api, slots.ModeOpen, nil, nil)

	_, err := svc.ComputeAvailability(context.Background(), 7, "2026-10-20")
	assert.True(t, errors.Is(err, clinicapi.ErrAvailabilityUnavailable))
}

func TestComputeAvailability_ValidatesInput(t *testing.T) {
	api := &fakeSlotsAPI{}
	svc := NewAvailabilityService(api, "", nil, nil)
	assert.Equal(t, slots.ModeOpen, svc.Mode())

	_, err := svc.ComputeAvailability(context.Background(), 0, "2026-10-20")
	assert.ErrorIs(t, err, ErrInvalidDoctorID)

	_, err = svc.ComputeAvailability(context.Background(), 7, "2026-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.ComputeAvailability(context.Background(), 7, "20/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Equal(t, 0, api.calls)
}

func TestComputeAvailability_BookedMode(t *testing.T) {
	api := &fakeSlotsAPI{days: []model.DaySlots{
		{WorkDate: "2026-10-20", Slots: []model.ScheduleSlot{{ScheduleID: 1, StartTime: "09:00:00"}}},
	}}
	svc := NewAvailabilityService(api, slots.ModeBooked, nil, nil)

	snap, err := svc.ComputeAvailability(context.Background(), 7, "2026-10-20")
	require.NoError(t, err)
	assert.False(t, slots.IsSelectable(snap, "09:00 AM"))
	assert.True(t, slots.IsSelectable(snap, "09:30 AM"))
}

func TestSlotSelection_DropsStaleResults(t *testing.T) {
	var sel SlotSelection

	sel.Select(7, "2026-10-20")
	sel.Select(7, "2026-10-21")

	stale := slots.NewSnapshot(7, "2026-10-20", slots.ModeOpen)
	stale.Put("09:00 AM", 1)
	assert.False(t, sel.Apply(7, "2026-10-20", stale, nil))

	_, loaded, _ := sel.Current()
	assert.False(t, loaded)

	fresh := slots.NewSnapshot(7, "2026-10-21", slots.ModeOpen)
	fresh.Put("10:00 AM", 2)
	assert.True(t, sel.Apply(7, "2026-10-21", fresh, nil))

	snap, loaded, err := sel.Current()
	require.True(t, loaded)
	require.NoError(t, err)
	assert.True(t, slots.IsSelectable(snap, "10:00 AM"))

	doctorID, date := sel.Selected()
	assert.Equal(t, int64(7), doctorID)
	assert.Equal(t, "2026-10-21", date)
}

func TestSlotSelection_ErrorResultIsUnavailable(t *testing.T) {
	var sel SlotSelection
	sel.Select(3, "2026-10-20")

	open := slots.NewSnapshot(3, "2026-10-20", slots.ModeBooked)
	assert.True(t, sel.Apply(3, "2026-10-20", open, clinicapi.ErrAvailabilityUnavailable))

	snap, loaded, err := sel.Current()
	require.True(t, loaded)
	assert.Error(t, err)
	assert.Equal(t, 0, slots.SelectableCount(snap))
}
