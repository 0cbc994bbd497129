package common

import (
	"context"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Common Navigation Handlers
// ========================

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	if hc.Message == nil {
		hc.Answer("❌ Error")
		return
	}

	// Выход в меню прерывает текущий поток записи
	hc.ClearState()

	text, keyboard := MainMenuScreen(hc.SessionUser())
	if err := hc.EditMessage(text, keyboard); err != nil {
		h.Logger.Warn("Failed to show main menu", zap.Error(err))
		_ = hc.SendMessage(text, keyboard)
	}
	hc.Answer("")
}

// HandleNoop подтверждает нажатие на неактивную кнопку
func HandleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	AnswerCallback(ctx, b, callback.ID, "")
}
