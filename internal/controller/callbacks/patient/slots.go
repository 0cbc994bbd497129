package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleDate выбирает дату и загружает доступность врача
func HandleDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		date, err := common.ParseSuffix(callback.Data, keyboard.PrefixDate)
		if err != nil {
			common.HandleError(hc, err, "parse date")
			return
		}
		if formatting.IsPastDate(date, h.Clock()) {
			hc.AnswerAlert("❌ Please choose today or a later date")
			return
		}

		flow.SelectDate(date)
		hc.SaveFlow(flow)

		loadSlots(hc, flow)
	})
}

// HandleRetrySlots повторяет загрузку доступности для текущей даты
func HandleRetrySlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		if flow.Draft.Date == "" {
			showDates(hc, flow)
			return
		}

		flow.SelectDate(flow.Draft.Date)
		hc.SaveFlow(flow)

		loadSlots(hc, flow)
	})
}

// HandleBackToSlots возвращает к сетке времени без повторной загрузки
func HandleBackToSlots(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		// Возврат к сетке прерывает ввод формы
		hc.SetState(callbacktypes.StateNone)

		snap, loaded, loadErr := flow.Selection.Current()
		if !loaded {
			if flow.Draft.Date == "" {
				showDates(hc, flow)
				return
			}
			loadSlots(hc, flow)
			return
		}
		showSlots(hc, flow, snap, loadErr)
	})
}

// HandleTime выбирает время и переходит к форме
func HandleTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		raw, err := common.ParseSuffix(callback.Data, keyboard.PrefixTime)
		if err != nil {
			common.HandleError(hc, err, "parse time")
			return
		}
		label := slots.TimeLabel(raw)

		snap, loaded, loadErr := flow.Selection.Current()
		if !loaded || loadErr != nil || !slots.IsSelectable(snap, label) {
			hc.AnswerAlert(common.ErrorMessage(service.ErrSlotNotSelectable))
			return
		}

		flow.Draft.TimeLabel = string(label)
		prefillFromSession(&flow.Draft, hc.SessionUser())
		hc.SaveFlow(flow)

		h.Logger.Info("Time selected",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("doctor_id", flow.Draft.DoctorID),
			zap.String("date", flow.Draft.Date),
			zap.String("time", flow.Draft.TimeLabel))

		state, prompt, kb := NextFormStep(flow.Draft)
		hc.SetState(state)

		header := fmt.Sprintf("🕐 <b>%s</b> at <b>%s</b>\n\n", formatting.FormatDisplayDate(flow.Draft.Date), flow.Draft.TimeLabel)
		if err := hc.EditMessage(header+prompt, kb); err != nil {
			h.Logger.Error("Failed to show form step", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleGridImage отправляет сетку времени картинкой
func HandleGridImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		snap, loaded, loadErr := flow.Selection.Current()
		if !loaded {
			hc.AnswerAlert("⌛ Times are still loading, please try again")
			return
		}

		data, err := common.GenerateSlotGridImage(common.SlotGridImage{
			Title:       flow.Doctor.DisplayName(),
			Date:        formatting.FormatDisplayDate(snap.Date),
			Cells:       slots.Grid(snap),
			Unavailable: loadErr != nil,
		})
		if err != nil {
			common.HandleError(hc, err, "render slot grid")
			return
		}

		caption := fmt.Sprintf("🕐 %s, %s", flow.Doctor.DisplayName(), formatting.FormatDisplayDate(snap.Date))
		if err := hc.SendPhoto("slots.png", data, caption); err != nil {
			common.HandleError(hc, err, "send slot grid")
			return
		}
		hc.Answer("")
	})
}

// NextFormStep возвращает первый незаполненный шаг формы: имя, телефон или причину визита
func NextFormStep(draft model.BookingDraft) (callbacktypes.UserState, string, *models.InlineKeyboardMarkup) {
	switch {
	case strings.TrimSpace(draft.PatientName) == "":
		return callbacktypes.StateEnterPatientName, PromptPatientName, FormKeyboard()
	case strings.TrimSpace(draft.PatientPhone) == "":
		return callbacktypes.StateEnterPatientPhone, PromptPatientPhone, FormKeyboard()
	default:
		return callbacktypes.StateEnterReason, PromptReason, ReasonKeyboard()
	}
}

// prefillFromSession подставляет имя и телефон авторизованного пациента в пустые поля
func prefillFromSession(draft *model.BookingDraft, user *model.User) {
	if user == nil {
		return
	}
	if strings.TrimSpace(draft.PatientName) == "" {
		draft.PatientName = user.FullName
	}
	if strings.TrimSpace(draft.PatientPhone) == "" {
		draft.PatientPhone = user.Phone
	}
}

// loadSlots загружает снимок для текущего выбора и показывает сетку.
// Ответ для устаревшего выбора отбрасывается.
func loadSlots(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
	doctorID, date := flow.Selection.Selected()

	snap, err := hc.Handler.Availability.ComputeAvailability(hc.Ctx, doctorID, date)
	if !flow.Selection.Apply(doctorID, date, snap, err) {
		hc.Handler.Logger.Info("Discarded stale availability",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("doctor_id", doctorID),
			zap.String("date", date))
		hc.Answer("")
		return
	}

	snap, _, loadErr := flow.Selection.Current()
	if loadErr != nil {
		hc.Handler.Logger.Warn("Availability unavailable",
			zap.Int64("doctor_id", doctorID),
			zap.String("date", date),
			zap.Error(loadErr))
	}
	showSlots(hc, flow, snap, loadErr)
}

func showSlots(hc *common.HandlerContext, flow callbacktypes.BookingFlow, snap slots.Snapshot, loadErr error) {
	text, kb := SlotsScreen(*flow.Doctor, snap, loadErr, hc.Handler.GridImages)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show slots", zap.Error(err))
	}
	hc.Answer("")
}
