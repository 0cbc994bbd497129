package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/patient"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Форма записи
// ========================

// handlePatientNameStep обрабатывает ввод имени пациента
func (h *Handlers) handlePatientNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.withFlow(ctx, b, update, func(flow callbacktypes.BookingFlow) {
		name, err := validatePatientName(update.Message.Text)
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ "+err.Error()+"\n\nPlease try again:")
			return
		}

		flow.Draft.PatientName = name
		h.nextFormStep(ctx, b, update, flow)
	})
}

// handlePatientPhoneStep обрабатывает ввод телефона
func (h *Handlers) handlePatientPhoneStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.withFlow(ctx, b, update, func(flow callbacktypes.BookingFlow) {
		phone, err := validatePatientPhone(update.Message.Text)
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ "+err.Error()+"\n\nPlease try again:")
			return
		}

		flow.Draft.PatientPhone = phone
		h.nextFormStep(ctx, b, update, flow)
	})
}

// handleReasonStep обрабатывает ввод причины визита и показывает сводку
func (h *Handlers) handleReasonStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.withFlow(ctx, b, update, func(flow callbacktypes.BookingFlow) {
		reason, err := validateReason(update.Message.Text)
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ "+err.Error()+"\n\nPlease try again:")
			return
		}

		telegramID := update.Message.From.ID
		flow.Draft.Reason = reason
		common.SaveFlow(h.deps.StateManager, telegramID, flow)
		h.stateManager.SetState(telegramID, state.StateNone)

		text, kb := patient.SummaryScreen(flow.Draft, patient.BookingContext(ctx, h.deps, flow))
		h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
	})
}

// nextFormStep сохраняет форму и переходит к первому незаполненному шагу
func (h *Handlers) nextFormStep(ctx context.Context, b *bot.Bot, update *models.Update, flow callbacktypes.BookingFlow) {
	telegramID := update.Message.From.ID
	common.SaveFlow(h.deps.StateManager, telegramID, flow)

	next, prompt, kb := patient.NextFormStep(flow.Draft)
	h.stateManager.SetState(telegramID, state.UserState(next))

	h.logger.Info("Form step saved",
		zap.Int64("telegram_id", telegramID),
		zap.String("next", string(next)))

	h.sendMessage(ctx, b, update.Message.Chat.ID, prompt, kb)
}

// withFlow загружает поток записи; если его нет, сбрасывает диалог
func (h *Handlers) withFlow(ctx context.Context, b *bot.Bot, update *models.Update, fn func(callbacktypes.BookingFlow)) {
	telegramID := update.Message.From.ID

	flow, ok := common.LoadFlow(h.deps.StateManager, telegramID)
	if !ok || flow.Doctor == nil {
		h.logger.Warn("Form input without booking flow", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrFlowExpired))
		return
	}

	fn(flow)
}

// ========================
// Вход
// ========================

// handleLoginEmailStep обрабатывает ввод email
func (h *Handlers) handleLoginEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	email, err := validateEmail(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ "+err.Error()+"\n\nPlease try again:")
		return
	}

	h.stateManager.SetData(telegramID, dataLoginEmail, email)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔑 Enter your password:\n\n<i>The message with the password will be deleted.</i>", nil)
}

// handleLoginPasswordStep обрабатывает ввод пароля и выполняет вход
func (h *Handlers) handleLoginPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	// Пароль не должен оставаться в истории чата
	h.deleteMessage(ctx, b, chatID, update.Message.ID)

	emailData, _ := h.stateManager.GetData(telegramID, dataLoginEmail)
	email, _ := emailData.(string)

	// Шаги входа не затрагивают поток записи
	h.stateManager.DeleteData(telegramID, dataLoginEmail)
	h.stateManager.SetState(telegramID, state.StateNone)

	user, err := h.deps.Users.Login(ctx, telegramID, email, password)
	if err != nil {
		h.logger.Info("Login failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nUse /login to try again.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Signed in as <b>%s</b>.\n\nYour name and phone will be filled in when you /book.",
			html.EscapeString(user.DisplayName())),
		nil)
}

// ========================
// Валидация
// ========================

func validatePatientName(text string) (string, error) {
	name := strings.Join(strings.Fields(text), " ")
	n := utf8.RuneCountInString(name)
	if n < PatientNameMinLength {
		return "", fmt.Errorf("name is too short, at least %d characters", PatientNameMinLength)
	}
	if n > PatientNameMaxLength {
		return "", fmt.Errorf("name is too long, at most %d characters", PatientNameMaxLength)
	}
	return name, nil
}

func validatePatientPhone(text string) (string, error) {
	phone := strings.TrimSpace(text)
	if utf8.RuneCountInString(phone) > PatientPhoneMaxLength {
		return "", errors.New("phone number is too long")
	}

	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", errors.New("phone number may contain only digits, spaces, dashes, brackets and a leading +")
		}
	}
	if digits < PatientPhoneMinDigits {
		return "", fmt.Errorf("phone number must contain at least %d digits", PatientPhoneMinDigits)
	}
	return phone, nil
}

func validateReason(text string) (string, error) {
	reason := strings.TrimSpace(text)
	if utf8.RuneCountInString(reason) > ReasonMaxLength {
		return "", fmt.Errorf("reason is too long, at most %d characters", ReasonMaxLength)
	}
	return reason, nil
}

func validateEmail(text string) (string, error) {
	email := strings.TrimSpace(text)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.New("this does not look like an email")
	}
	return email, nil
}
