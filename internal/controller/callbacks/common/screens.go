package common

import (
	"fmt"
	"html"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// MainMenuScreen формирует главное меню
func MainMenuScreen(user *model.User) (string, *models.InlineKeyboardMarkup) {
	greeting := "👋 Welcome to Health Connect!"
	if name := user.DisplayName(); name != "" {
		greeting = fmt.Sprintf("👋 Welcome back, <b>%s</b>!", html.EscapeString(name))
	}

	text := greeting + "\n\n" +
		"Tell us your symptoms and we will match you with a department and a doctor.\n\n" +
		"/book - Book an appointment\n" +
		"/history - My appointments\n" +
		"/help - Help"

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🩺 Book an appointment", keyboard.CallbackBookStart)).
		Row(keyboard.Button("📋 My appointments", keyboard.CallbackHistory)).
		Build()

	return text, kb
}
