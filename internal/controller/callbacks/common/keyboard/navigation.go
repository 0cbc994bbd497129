package keyboard

import "github.com/go-telegram/bot/models"

// ========================
// Callback Data Patterns
// ========================

// Навигация
const (
	CallbackBackToMain = "back_to_main"
	CallbackNoop       = "noop"
	CallbackBookStart  = "book_start"
	CallbackHistory    = "history"
)

// Поток записи
const (
	PrefixSymptom        = "sym:"      // sym:12
	PrefixSymptomPage    = "sym_page:" // sym_page:1
	CallbackAnalyze      = "sym_analyze"
	PrefixDepartment     = "dept:" // dept:3
	PrefixDoctor         = "doc:"  // doc:7
	PrefixDate           = "date:" // date:2026-10-20
	PrefixTime           = "time:" // time:09:00 AM
	CallbackRetrySlots   = "retry_slots"
	CallbackGridImage    = "grid_image"
	CallbackSkipReason   = "skip_reason"
	CallbackConfirm      = "confirm_booking"
	CallbackBackToDepts  = "back_to_depts"
	CallbackBackToDocs   = "back_to_doctors"
	CallbackBackToDates  = "back_to_dates"
	CallbackBackToSlots  = "back_to_slots"
	CallbackClearAsk     = "clear_history"
	CallbackClearHistory = "clear_history_yes"
	CallbackKeepHistory  = "clear_history_no"
)

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Back", callbackData)
}

// BackToMainButton создаёт кнопку "В главное меню"
func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 Main menu", CallbackBackToMain)
}

// CancelButton создаёт кнопку "Отмена"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Cancel", callbackData)
}

// ConfirmButton создаёт кнопку "Подтвердить"
func ConfirmButton(callbackData string) models.InlineKeyboardButton {
	return Button("✅ Confirm", callbackData)
}

// DisabledButton кнопка без действия, для занятых и недоступных вариантов
func DisabledButton(text string) models.InlineKeyboardButton {
	return Button(text, CallbackNoop)
}

// AddBackButton добавляет кнопку "Назад" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// AddBackToMainButton добавляет кнопку "В главное меню" к builder
func (b *Builder) AddBackToMainButton() *Builder {
	return b.Row(BackToMainButton())
}
