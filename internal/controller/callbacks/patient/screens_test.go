package patient

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

func texts(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.Text)
		}
	}
	return out
}

func testSymptoms(n int) []model.Symptom {
	out := make([]model.Symptom, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Symptom{ID: int64(i), Name: fmt.Sprintf("Symptom %d", i)})
	}
	return out
}

func TestSymptomsScreen_Paging(t *testing.T) {
	_, kb := SymptomsScreen(testSymptoms(10), nil, 1)
	data := callbacks(kb)

	assert.Contains(t, data, "sym:9")
	assert.Contains(t, data, "sym:10")
	assert.NotContains(t, data, "sym:1")
	assert.Contains(t, data, "sym_page:0")
	assert.NotContains(t, data, keyboard.CallbackAnalyze, "analyze needs a selection")
}

func TestSymptomsScreen_SelectionMarks(t *testing.T) {
	text, kb := SymptomsScreen(testSymptoms(3), []int64{2}, 0)

	assert.Contains(t, text, "Selected: 1 symptom")
	assert.Contains(t, texts(kb), "✅ Symptom 2")
	assert.Contains(t, texts(kb), "Symptom 1")
	assert.Contains(t, callbacks(kb), keyboard.CallbackAnalyze)
}

func TestDoctorsScreen_Empty(t *testing.T) {
	text, kb := DoctorsScreen("Cardiology", nil)
	assert.Contains(t, text, "no doctors")
	assert.Equal(t, []string{keyboard.CallbackBackToDepts}, callbacks(kb))
}

func TestDatesScreen_FourteenDaysFromToday(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	_, kb := DatesScreen(model.Doctor{DoctorID: 5, FullName: "Dr. Lan"}, now)

	data := callbacks(kb)
	require.Len(t, data, BookingDays+1)
	assert.Equal(t, "date:2026-10-18", data[0])
	assert.Equal(t, "date:2026-10-31", data[BookingDays-1])
}

func TestSlotsScreen_OnlySelectableAreClickable(t *testing.T) {
	snap := slots.NewSnapshot(5, "2026-10-20", slots.ModeOpen)
	snap.Put("09:00 AM", 11)
	snap.Put("03:30 PM", 12)

	text, kb := SlotsScreen(model.Doctor{DoctorID: 5}, snap, nil, false)
	assert.Contains(t, text, "Available: 2 slots")

	data := callbacks(kb)
	assert.Contains(t, data, "time:09:00 AM")
	assert.Contains(t, data, "time:03:30 PM")
	assert.NotContains(t, data, "time:10:00 AM")
	assert.NotContains(t, data, keyboard.CallbackRetrySlots)
	assert.NotContains(t, data, keyboard.CallbackGridImage)
}

func TestSlotsScreen_UnavailableOffersRetry(t *testing.T) {
	snap := slots.Unavailable(5, "2026-10-20")

	text, kb := SlotsScreen(model.Doctor{DoctorID: 5}, snap, errors.New("timeout"), true)
	assert.Contains(t, text, "Could not load")

	data := callbacks(kb)
	for _, d := range data {
		assert.NotContains(t, d, keyboard.PrefixTime)
	}
	assert.Contains(t, data, keyboard.CallbackRetrySlots)
	assert.Contains(t, data, keyboard.CallbackGridImage)
}

func TestSlotsScreen_NoFreeTime(t *testing.T) {
	snap := slots.NewSnapshot(5, "2026-10-20", slots.ModeOpen)
	text, _ := SlotsScreen(model.Doctor{DoctorID: 5}, snap, nil, false)
	assert.Contains(t, text, "No free time")
}

func TestNextFormStep(t *testing.T) {
	state, prompt, _ := NextFormStep(model.BookingDraft{})
	assert.Equal(t, callbacktypes.StateEnterPatientName, state)
	assert.Equal(t, PromptPatientName, prompt)

	state, _, _ = NextFormStep(model.BookingDraft{PatientName: "Ann"})
	assert.Equal(t, callbacktypes.StateEnterPatientPhone, state)

	state, _, kb := NextFormStep(model.BookingDraft{PatientName: "Ann", PatientPhone: "0900"})
	assert.Equal(t, callbacktypes.StateEnterReason, state)
	assert.Contains(t, callbacks(kb), keyboard.CallbackSkipReason)
}

func TestPrefillFromSession(t *testing.T) {
	draft := model.BookingDraft{PatientName: "Typed Name"}
	prefillFromSession(&draft, &model.User{FullName: "Session Name", Phone: "0900"})
	assert.Equal(t, "Typed Name", draft.PatientName)
	assert.Equal(t, "0900", draft.PatientPhone)

	empty := model.BookingDraft{}
	prefillFromSession(&empty, nil)
	assert.Equal(t, model.BookingDraft{}, empty)
}

func TestHistoryScreen(t *testing.T) {
	text, kb := HistoryScreen(nil)
	assert.Contains(t, text, "no appointments")
	assert.Contains(t, callbacks(kb), keyboard.CallbackBookStart)

	list := []model.Appointment{
		{ID: "a", AppointmentDate: "2026-10-20", AppointmentTime: "09:00 AM", Status: model.AppointmentStatusConfirmed},
		{ID: "b", AppointmentDate: "2026-11-02", AppointmentTime: "10:00 AM", Status: model.AppointmentStatusConfirmed},
	}
	text, kb = HistoryScreen(list)
	assert.Contains(t, text, "(2)")
	assert.Less(t, strings.Index(text, "02 Nov 2026"), strings.Index(text, "20 Oct 2026"), "newest first")
	assert.Contains(t, callbacks(kb), keyboard.CallbackClearAsk)
}

func TestSummaryScreen(t *testing.T) {
	text, kb := SummaryScreen(
		model.BookingDraft{DoctorID: 5, Date: "2026-10-20", TimeLabel: "09:00 AM", PatientName: "Ann", PatientPhone: "0900"},
		model.BookingContext{DoctorName: "Dr. Lan", DepartmentName: "Cardiology"},
	)
	assert.Contains(t, text, "Dr. Lan")
	assert.Equal(t, []string{keyboard.CallbackConfirm, keyboard.CallbackBackToSlots, keyboard.CallbackBackToMain}, callbacks(kb))
}
