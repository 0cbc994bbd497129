package patient

import (
	"context"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleDepartment показывает врачей выбранного отделения
func HandleDepartment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		deptID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse department")
			return
		}

		doctors, err := h.Catalog.Doctors(ctx, deptID)
		if err != nil {
			common.HandleError(hc, err, "load doctors")
			return
		}

		flow.DepartmentID = deptID
		flow.DepartmentName = ""
		if dept, ok := flow.Department(deptID); ok {
			flow.DepartmentName = dept.DeptName
		} else if len(doctors) > 0 {
			flow.DepartmentName = doctors[0].DepartmentName
		}
		flow.Doctors = doctors
		flow.Doctor = nil
		hc.SaveFlow(flow)

		showDoctors(hc, flow)
	})
}

// HandleBackToDoctors возвращает к списку врачей отделения
func HandleBackToDoctors(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		showDoctors(hc, flow)
	})
}

// HandleDoctor запоминает врача и предлагает выбрать дату
func HandleDoctor(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithFlow(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		doctorID, err := common.ParseIDFromCallback(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "parse doctor")
			return
		}

		doctor, ok := flow.FindDoctor(doctorID)
		if !ok {
			// Врача нет в списке отделения (например, поток после /book с другой страницы)
			profile, err := h.Catalog.Doctor(ctx, doctorID)
			if err != nil {
				common.HandleError(hc, err, "load doctor")
				return
			}
			doctor = *profile
		}

		flow.SelectDoctor(doctor)
		hc.SaveFlow(flow)

		h.Logger.Info("Doctor selected",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Int64("doctor_id", doctorID))

		showDates(hc, flow)
	})
}

// HandleBackToDates возвращает к выбору даты
func HandleBackToDates(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithDoctor(ctx, b, callback, h, func(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
		showDates(hc, flow)
	})
}

func showDoctors(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
	text, kb := DoctorsScreen(flow.DepartmentName, flow.Doctors)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show doctors", zap.Error(err))
	}
	hc.Answer("")
}

func showDates(hc *common.HandlerContext, flow callbacktypes.BookingFlow) {
	text, kb := DatesScreen(*flow.Doctor, hc.Handler.Clock())
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show dates", zap.Error(err))
	}
	hc.Answer("")
}
