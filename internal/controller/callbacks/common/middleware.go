package common

import (
	"context"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithFlow создаёт HandlerContext и загружает поток записи
// Если потока нет (истёк или очищен), отвечает пользователю и не вызывает handler
func WithFlow(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext, callbacktypes.BookingFlow),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	flow, ok := hc.Flow()
	if !ok {
		h.Logger.Info("Booking flow not found",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("data", callback.Data))
		hc.AnswerAlert(ErrorMessage(ErrFlowExpired))
		return
	}

	handler(hc, flow)
}

// WithDoctor как WithFlow, но дополнительно требует выбранного врача
func WithDoctor(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext, callbacktypes.BookingFlow),
) {
	WithFlow(ctx, b, callback, h, func(hc *HandlerContext, flow callbacktypes.BookingFlow) {
		if flow.Doctor == nil || flow.Selection == nil {
			hc.AnswerAlert(ErrorMessage(ErrNoDoctorSelected))
			return
		}
		handler(hc, flow)
	})
}

// HandleError обрабатывает ошибку и отправляет ответ пользователю
func HandleError(hc *HandlerContext, err error, operation string) {
	hc.Handler.Logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err))
	hc.AnswerAlert(ErrorMessage(err))
}
