package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
)

// FormatAppointment форматирует запись истории (HTML)
func FormatAppointment(appt model.Appointment) string {
	display := GetAppointmentStatusDisplay(appt.Status)

	return fmt.Sprintf(
		"%s <b>%s</b> at <b>%s</b>\n"+
			"👨‍⚕️ %s (%s)\n"+
			"🏥 %s\n"+
			"🩺 %s\n"+
			"📊 %s",
		display.Emoji,
		FormatDisplayDate(appt.AppointmentDate),
		html.EscapeString(appt.AppointmentTime),
		html.EscapeString(appt.Doctor.Name),
		html.EscapeString(appt.Doctor.Specialization),
		html.EscapeString(appt.Department.Name),
		html.EscapeString(appt.Symptom.Name),
		display.Text,
	)
}

// FormatAppointmentList форматирует список записей через пустую строку
func FormatAppointmentList(list []model.Appointment) string {
	parts := make([]string, 0, len(list))
	for i, appt := range list {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, FormatAppointment(appt)))
	}
	return strings.Join(parts, "\n\n")
}

// FormatDoctorShort краткая строка о враче для списков
func FormatDoctorShort(d model.Doctor) string {
	var parts []string
	if s := d.Specialization(); s != "" {
		parts = append(parts, s)
	}
	if d.ExperienceYears != nil {
		parts = append(parts, Pluralize(*d.ExperienceYears, "year", "years"))
	}
	if len(parts) == 0 {
		return d.DisplayName()
	}
	return fmt.Sprintf("%s · %s", d.DisplayName(), strings.Join(parts, " · "))
}

// FormatDraft форматирует форму записи для экрана подтверждения (HTML)
func FormatDraft(draft model.BookingDraft, bctx model.BookingContext) string {
	reason := strings.TrimSpace(draft.Reason)
	if reason == "" {
		reason = "—"
	}
	symptoms := strings.Join(bctx.SymptomNames, ", ")
	if symptoms == "" {
		symptoms = model.NotSpecified
	}

	return fmt.Sprintf(
		"👨‍⚕️ Doctor: <b>%s</b>\n"+
			"🏥 Department: %s\n"+
			"🩺 Symptoms: %s\n"+
			"📅 Date: <b>%s</b>\n"+
			"🕐 Time: <b>%s</b>\n"+
			"👤 Patient: %s\n"+
			"📞 Phone: %s\n"+
			"📝 Reason: %s",
		html.EscapeString(orDefault(bctx.DoctorName)),
		html.EscapeString(orDefault(bctx.DepartmentName)),
		html.EscapeString(symptoms),
		FormatDisplayDate(draft.Date),
		html.EscapeString(draft.TimeLabel),
		html.EscapeString(draft.PatientName),
		html.EscapeString(draft.PatientPhone),
		html.EscapeString(reason),
	)
}

func orDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return model.NotSpecified
	}
	return s
}
