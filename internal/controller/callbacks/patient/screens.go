package patient

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/go-telegram/bot/models"
)

const (
	symptomsPerPage = 8
	// BookingDays сколько дней вперёд можно выбрать
	BookingDays = 14
)

// Подсказки шагов формы
const (
	PromptPatientName  = "👤 Please enter the patient's <b>full name</b>:"
	PromptPatientPhone = "📞 Please enter a <b>phone number</b> we can reach you at:"
	PromptReason       = "📝 Briefly describe the <b>reason</b> for the visit, or skip this step:"
)

// SymptomsScreen экран выбора симптомов с пагинацией
func SymptomsScreen(symptoms []model.Symptom, selected []int64, page int) (string, *models.InlineKeyboardMarkup) {
	start, end, pages := keyboard.PageBounds(len(symptoms), page, symptomsPerPage)
	if page >= pages {
		page = pages - 1
	}
	if page < 0 {
		page = 0
	}

	text := "🩺 <b>What is bothering you?</b>\n\n" +
		"Select one or more symptoms, then tap <b>Find department</b>."
	if n := len(selected); n > 0 {
		text += fmt.Sprintf("\n\nSelected: %s", formatting.Pluralize(n, "symptom", "symptoms"))
	}

	isSelected := make(map[int64]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}

	buttons := make([]models.InlineKeyboardButton, 0, end-start)
	for _, s := range symptoms[start:end] {
		label := s.Name
		if isSelected[s.ID] {
			label = "✅ " + label
		}
		buttons = append(buttons, keyboard.Button(label, fmt.Sprintf("%s%d", keyboard.PrefixSymptom, s.ID)))
	}

	kb := keyboard.NewBuilder().
		Grid(2, buttons...).
		AddPagination(keyboard.PrefixSymptomPage, page, pages)
	if len(selected) > 0 {
		kb.Row(keyboard.Button("🔍 Find department", keyboard.CallbackAnalyze))
	}
	kb.AddBackToMainButton()

	return text, kb.Build()
}

// DepartmentsScreen экран подобранных отделений
func DepartmentsScreen(matches []model.DepartmentMatch) (string, *models.InlineKeyboardMarkup) {
	text := "🏥 <b>Suggested departments</b>\n\n" +
		"Based on your symptoms these departments fit best:"

	kb := keyboard.NewBuilder()
	for _, m := range matches {
		label := fmt.Sprintf("%s (%s)", m.DeptName, formatting.Pluralize(m.MatchedDiseases, "match", "matches"))
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", keyboard.PrefixDepartment, m.DeptID)))
	}
	kb.Row(keyboard.BackButton(keyboard.CallbackBookStart))

	return text, kb.Build()
}

// DoctorsScreen экран врачей отделения
func DoctorsScreen(deptName string, doctors []model.Doctor) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👨‍⚕️ <b>%s</b>\n\n", html.EscapeString(deptName)))

	kb := keyboard.NewBuilder()
	if len(doctors) == 0 {
		sb.WriteString("There are no doctors in this department yet.")
	} else {
		sb.WriteString("Choose a doctor:")
		for _, d := range doctors {
			icon := "🟢"
			if !d.IsAvailable() {
				icon = "⚪"
			}
			kb.Row(keyboard.Button(
				fmt.Sprintf("%s %s", icon, formatting.FormatDoctorShort(d)),
				fmt.Sprintf("%s%d", keyboard.PrefixDoctor, d.DoctorID),
			))
		}
	}
	kb.AddBackButton(keyboard.CallbackBackToDepts)

	return sb.String(), kb.Build()
}

// DatesScreen экран выбора даты на BookingDays дней начиная с сегодняшнего
func DatesScreen(doctor model.Doctor, now time.Time) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("📅 <b>%s</b>\n\nChoose a date:", html.EscapeString(doctor.DisplayName()))

	dates := formatting.UpcomingDates(now, BookingDays)
	buttons := make([]models.InlineKeyboardButton, 0, len(dates))
	for _, d := range dates {
		buttons = append(buttons, keyboard.Button(
			formatting.FormatDateButton(d),
			keyboard.PrefixDate+formatting.ISODate(d),
		))
	}

	kb := keyboard.NewBuilder().
		Grid(3, buttons...).
		AddBackButton(keyboard.CallbackBackToDocs)

	return text, kb.Build()
}

// SlotsScreen сетка времени врача на дату.
// Доступные метки кликабельны, остальные отображаются неактивными.
func SlotsScreen(doctor model.Doctor, snap slots.Snapshot, loadErr error, gridImages bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🕐 <b>%s</b>\n%s\n\n",
		html.EscapeString(doctor.DisplayName()),
		formatting.FormatDisplayDate(snap.Date)))

	free := slots.SelectableCount(snap)
	switch {
	case loadErr != nil:
		sb.WriteString("⚠️ Could not load available times. Nothing can be booked right now, please retry.")
	case free == 0:
		sb.WriteString("No free time on this date. Please choose another date.")
	default:
		sb.WriteString(fmt.Sprintf("Available: %s. Choose a time:", formatting.Pluralize(free, "slot", "slots")))
	}

	cells := slots.Grid(snap)
	buttons := make([]models.InlineKeyboardButton, 0, len(cells))
	for _, c := range cells {
		if c.Selectable {
			buttons = append(buttons, keyboard.Button("🟢 "+string(c.Label), keyboard.PrefixTime+string(c.Label)))
		} else {
			buttons = append(buttons, keyboard.DisabledButton("⛔ "+string(c.Label)))
		}
	}

	kb := keyboard.NewBuilder().Grid(3, buttons...)
	if loadErr != nil {
		kb.Row(keyboard.Button("🔄 Retry", keyboard.CallbackRetrySlots))
	}
	if gridImages {
		kb.Row(keyboard.Button("🖼 Show as image", keyboard.CallbackGridImage))
	}
	kb.AddBackButton(keyboard.CallbackBackToDates)

	return sb.String(), kb.Build()
}

// ReasonKeyboard клавиатура шага причины визита
func ReasonKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("⏭ Skip", keyboard.CallbackSkipReason)).
		Row(keyboard.CancelButton(keyboard.CallbackBackToMain)).
		Build()
}

// FormKeyboard клавиатура шагов имени и телефона
func FormKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.CancelButton(keyboard.CallbackBackToMain)).
		Build()
}

// SummaryScreen экран проверки формы перед подтверждением
func SummaryScreen(draft model.BookingDraft, bctx model.BookingContext) (string, *models.InlineKeyboardMarkup) {
	text := "📋 <b>Please check your appointment</b>\n\n" + formatting.FormatDraft(draft, bctx)

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmButton(keyboard.CallbackConfirm)).
		Row(keyboard.BackButton(keyboard.CallbackBackToSlots)).
		Row(keyboard.CancelButton(keyboard.CallbackBackToMain)).
		Build()

	return text, kb
}

// ConfirmedScreen карточка подтверждённой записи
func ConfirmedScreen(appt model.Appointment) (string, *models.InlineKeyboardMarkup) {
	text := "🎉 <b>Your appointment is booked!</b>\n\n" + formatting.FormatAppointment(appt)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📋 My appointments", keyboard.CallbackHistory)).
		AddBackToMainButton().
		Build()

	return text, kb
}

// HistoryScreen список записей, новые сверху
func HistoryScreen(list []model.Appointment) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	if len(list) == 0 {
		kb.Row(keyboard.Button("🩺 Book an appointment", keyboard.CallbackBookStart)).AddBackToMainButton()
		return "📋 <b>My appointments</b>\n\nYou have no appointments yet.", kb.Build()
	}

	text := fmt.Sprintf("📋 <b>My appointments</b> (%d)\n\n", len(list)) +
		formatting.FormatAppointmentList(history.SortByDateDesc(list))

	kb.Row(keyboard.Button("🗑 Clear history", keyboard.CallbackClearAsk)).AddBackToMainButton()
	return text, kb.Build()
}

// ClearHistoryPromptScreen запрос подтверждения очистки истории
func ClearHistoryPromptScreen() (string, *models.InlineKeyboardMarkup) {
	text := "🗑 <b>Clear appointment history?</b>\n\n" +
		"All saved appointments will be removed from this chat. This cannot be undone."

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("✅ Yes, clear", keyboard.CallbackClearHistory),
			keyboard.Button("❌ No", keyboard.CallbackKeepHistory),
		).
		Build()

	return text, kb
}
