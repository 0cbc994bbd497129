package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/patient"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route маршрутизирует callback query к нужному обработчику
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ========================
	// Навигация
	// ========================
	case data == keyboard.CallbackBackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == keyboard.CallbackNoop:
		common.HandleNoop(ctx, b, callback, h)

	// ========================
	// Симптомы и отделения
	// ========================
	case data == keyboard.CallbackBookStart:
		patient.HandleBookStart(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixSymptomPage):
		patient.HandleSymptomPage(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixSymptom):
		patient.HandleToggleSymptom(ctx, b, callback, h)
	case data == keyboard.CallbackAnalyze:
		patient.HandleAnalyze(ctx, b, callback, h)
	case data == keyboard.CallbackBackToDepts:
		patient.HandleBackToDepartments(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixDepartment):
		patient.HandleDepartment(ctx, b, callback, h)

	// ========================
	// Врач, дата и время
	// ========================
	case data == keyboard.CallbackBackToDocs:
		patient.HandleBackToDoctors(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixDoctor):
		patient.HandleDoctor(ctx, b, callback, h)
	case data == keyboard.CallbackBackToDates:
		patient.HandleBackToDates(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixDate):
		patient.HandleDate(ctx, b, callback, h)
	case data == keyboard.CallbackRetrySlots:
		patient.HandleRetrySlots(ctx, b, callback, h)
	case data == keyboard.CallbackBackToSlots:
		patient.HandleBackToSlots(ctx, b, callback, h)
	case data == keyboard.CallbackGridImage:
		patient.HandleGridImage(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixTime):
		patient.HandleTime(ctx, b, callback, h)

	// ========================
	// Форма и подтверждение
	// ========================
	case data == keyboard.CallbackSkipReason:
		patient.HandleSkipReason(ctx, b, callback, h)
	case data == keyboard.CallbackConfirm:
		patient.HandleConfirm(ctx, b, callback, h)

	// ========================
	// История
	// ========================
	case data == keyboard.CallbackHistory:
		patient.HandleHistory(ctx, b, callback, h)
	case data == keyboard.CallbackClearAsk:
		patient.HandleClearAsk(ctx, b, callback, h)
	case data == keyboard.CallbackClearHistory:
		patient.HandleClearHistory(ctx, b, callback, h)
	case data == keyboard.CallbackKeepHistory:
		patient.HandleKeepHistory(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Unknown command")
	}
}
