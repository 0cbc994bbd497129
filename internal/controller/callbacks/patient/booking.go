package patient

import (
	"context"
	"errors"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSkipReason пропускает шаг причины визита и показывает сводку
func HandleSkipReason(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		flow.Draft.Reason = ""
		hc.SaveFlow(flow)
		hc.SetState(callbacktypes.StateNone)

		text, kb := SummaryScreen(flow.Draft, BookingContext(ctx, h, flow))
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show summary", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleConfirm подтверждает запись и сохраняет её в истории
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		snap, loaded, loadErr := flow.Selection.Current()
		if !loaded || loadErr != nil {
			snap = slots.Unavailable(flow.Draft.DoctorID, flow.Draft.Date)
		}

		appt, err := h.Booking.Confirm(ctx, h.History(hc.TelegramID), flow.Draft, BookingContext(ctx, h, flow), snap)
		if err != nil {
			handleConfirmError(hc, err)
			return
		}

		hc.ClearState()

		text, kb := ConfirmedScreen(appt)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show confirmation", zap.Error(err))
			_ = hc.SendMessage(text, kb)
		}
		hc.Answer("✅ Booked")
	})
}

// BookingContext собирает отображаемые данные потока: врача, отделение и имена симптомов.
// Справочник симптомов недоступен - запись сохраняется без них.
func BookingContext(ctx context.Context, h *callbacktypes.Handler, flow callbacktypes.BookingFlow) model.BookingContext {
	names, err := h.Catalog.SymptomNames(ctx, flow.SymptomIDs)
	if err != nil {
		h.Logger.Warn("Failed to resolve symptom names", zap.Error(err))
		names = nil
	}
	return flow.Context(names)
}

func handleConfirmError(hc *common.HandlerContext, err error) {
	var missing *service.MissingRequiredFieldError
	switch {
	case errors.As(err, &missing),
		errors.Is(err, service.ErrSlotNotSelectable),
		errors.Is(err, service.ErrBookingInProgress),
		errors.Is(err, history.ErrDuplicateAppointment):
		hc.Handler.Logger.Info("Booking rejected",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		hc.AnswerAlert(common.ErrorMessage(err))
	default:
		common.HandleError(hc, err, "confirm booking")
	}
}
