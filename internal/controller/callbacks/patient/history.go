package patient

import (
	"context"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleHistory показывает историю записей пользователя
func HandleHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	list := h.History(hc.TelegramID).List(ctx)
	text, kb := HistoryScreen(list)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Warn("Failed to edit history screen", zap.Error(err))
		_ = hc.SendMessage(text, kb)
	}
	hc.Answer("")
}

// HandleClearAsk спрашивает подтверждение очистки истории
func HandleClearAsk(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	text, kb := ClearHistoryPromptScreen()
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to show clear prompt", zap.Error(err))
	}
	hc.Answer("")
}

// HandleClearHistory очищает историю после подтверждения
func HandleClearHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := h.History(hc.TelegramID).ReplaceAll(ctx, nil); err != nil {
		common.HandleError(hc, err, "clear history")
		return
	}

	h.Logger.Info("History cleared", zap.Int64("telegram_id", hc.TelegramID))

	text, kb := HistoryScreen(nil)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to show history", zap.Error(err))
	}
	hc.Answer("🗑 History cleared")
}

// HandleKeepHistory отменяет очистку и возвращает к истории
func HandleKeepHistory(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	HandleHistory(ctx, b, callback, h)
}
