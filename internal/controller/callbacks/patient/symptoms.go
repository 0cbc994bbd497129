package patient

import (
	"context"
	"strconv"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBookStart начинает новый поток записи с выбора симптомов
func HandleBookStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	symptoms, err := h.Catalog.Symptoms(ctx)
	if err != nil {
		common.HandleError(hc, err, "load symptoms")
		return
	}

	// Новый поток вытесняет незавершённый
	hc.ClearState()
	hc.SaveFlow(callbacktypes.BookingFlow{})

	text, kb := SymptomsScreen(symptoms, nil, 0)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Warn("Failed to edit symptoms screen", zap.Error(err))
		_ = hc.SendMessage(text, kb)
	}
	hc.Answer("")
}

// HandleToggleSymptom отмечает или снимает симптом
func HandleToggleSymptom(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		id, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse symptom")
			return
		}

		flow.ToggleSymptom(id)
		hc.SaveFlow(flow)
		showSymptoms(hc, flow)
	})
}

// HandleSymptomPage листает список симптомов
func HandleSymptomPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		raw, err := common.ParseSuffix(callback.Data, keyboard.PrefixSymptomPage)
		if err != nil {
			common.HandleError(hc, err, "parse symptom page")
			return
		}
		page, err := strconv.Atoi(raw)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "parse symptom page")
			return
		}

		flow.SymptomPage = page
		hc.SaveFlow(flow)
		showSymptoms(hc, flow)
	})
}

// HandleAnalyze подбирает отделения по выбранным симптомам
func HandleAnalyze(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		if len(flow.SymptomIDs) == 0 {
			hc.AnswerAlert("⚠️ Please select at least one symptom")
			return
		}

		matches, err := h.Catalog.MatchDepartments(ctx, flow.SymptomIDs)
		if err != nil {
			common.HandleError(hc, err, "match departments")
			return
		}

		flow.Departments = matches
		hc.SaveFlow(flow)

		h.Logger.Info("Departments matched",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int("symptoms", len(flow.SymptomIDs)),
			zap.Int("departments", len(matches)))

		text, kb := DepartmentsScreen(matches)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show departments", zap.Error(err))
		}
		hc.Answer("")
	})
}

// HandleBackToDepartments возвращает к списку подобранных отделений
func HandleBackToDepartments(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		if len(flow.Departments) == 0 {
			showSymptoms(hc, flow)
			return
		}
		text, kb := DepartmentsScreen(flow.Departments)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to show departments", zap.Error(err))
		}
		hc.Answer("")
	})
}

func showSymptoms(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
	symptoms, err := hc.Handler.Catalog.Symptoms(hc.Ctx)
	if err != nil {
		common.HandleError(hc, err, "load symptoms")
		return
	}

	text, kb := SymptomsScreen(symptoms, flow.SymptomIDs, flow.SymptomPage)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show symptoms", zap.Error(err))
	}
	hc.Answer("")
}
