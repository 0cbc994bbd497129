package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/state"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Подсказки шагов регистрации
const (
	promptRegisterEmail    = "📝 <b>Create an account</b>\n\nEnter your email:\n\nUse /cancel to stop."
	promptRegisterPassword = "🔑 Choose a password, at least 6 characters:\n\n<i>The message with the password will be deleted.</i>"
	promptRegisterConfirm  = "🔑 Repeat the password:"
	promptRegisterFullName = "👤 Enter your full name:"
	promptRegisterCCCD     = "🪪 Enter your CCCD (12-digit citizen ID):"
	promptRegisterPhone    = "📞 Enter your phone number:"
)

// isRegistrationState состояние относится к диалогу регистрации
func isRegistrationState(s state.UserState) bool {
	switch s {
	case state.StateRegisterEmail, state.StateRegisterPassword, state.StateRegisterConfirm,
		state.StateRegisterFullName, state.StateRegisterCCCD, state.StateRegisterPhone:
		return true
	}
	return false
}

// registrationStep применяет ввод к текущему шагу и возвращает следующий шаг с подсказкой.
// При ошибке шаг не меняется, кроме несовпадения паролей: тогда пароль вводится заново.
// StateNone означает что все данные собраны.
func registrationStep(current state.UserState, reg model.Registration, text string) (state.UserState, model.Registration, string, error) {
	switch current {
	case state.StateRegisterEmail:
		email, err := validateRegisterEmail(text)
		if err != nil {
			return current, reg, promptRegisterEmail, err
		}
		reg.Email = email
		return state.StateRegisterPassword, reg, promptRegisterPassword, nil

	case state.StateRegisterPassword:
		if err := validatePassword(text); err != nil {
			return current, reg, promptRegisterPassword, err
		}
		reg.Password = text
		return state.StateRegisterConfirm, reg, promptRegisterConfirm, nil

	case state.StateRegisterConfirm:
		if text != reg.Password {
			reg.Password = ""
			return state.StateRegisterPassword, reg, promptRegisterPassword, errors.New("passwords don't match")
		}
		return state.StateRegisterFullName, reg, promptRegisterFullName, nil

	case state.StateRegisterFullName:
		name, err := validateFullName(text)
		if err != nil {
			return current, reg, promptRegisterFullName, err
		}
		reg.FullName = name
		return state.StateRegisterCCCD, reg, promptRegisterCCCD, nil

	case state.StateRegisterCCCD:
		cccd, err := validateCCCD(text)
		if err != nil {
			return current, reg, promptRegisterCCCD, err
		}
		reg.CCCD = cccd
		return state.StateRegisterPhone, reg, promptRegisterPhone, nil

	case state.StateRegisterPhone:
		phone, err := validateRegisterPhone(text)
		if err != nil {
			return current, reg, promptRegisterPhone, err
		}
		reg.Phone = phone
		return state.StateNone, reg, "", nil
	}

	return state.StateNone, reg, "", fmt.Errorf("not a registration step: %q", current)
}

// handleRegisterStep обрабатывает очередной ввод диалога регистрации
func (h *Handlers) handleRegisterStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	current := h.stateManager.GetState(telegramID)

	// Пароли не остаются в истории чата
	if current == state.StateRegisterPassword || current == state.StateRegisterConfirm {
		h.deleteMessage(ctx, b, chatID, update.Message.ID)
	}

	var reg model.Registration
	if data, ok := h.stateManager.GetData(telegramID, dataRegistration); ok {
		reg, _ = data.(model.Registration)
	}

	next, reg, prompt, err := registrationStep(current, reg, update.Message.Text)
	if err != nil {
		h.stateManager.SetData(telegramID, dataRegistration, reg)
		h.stateManager.SetState(telegramID, next)
		h.sendError(ctx, b, chatID, "❌ "+err.Error()+"\n\n"+prompt)
		return
	}

	if next != state.StateNone {
		h.stateManager.SetData(telegramID, dataRegistration, reg)
		h.stateManager.SetState(telegramID, next)
		h.sendMessage(ctx, b, chatID, prompt, nil)
		return
	}

	h.stateManager.DeleteData(telegramID, dataRegistration)
	h.stateManager.SetState(telegramID, state.StateNone)

	user, err := h.deps.Users.Register(ctx, telegramID, reg)
	if err != nil {
		h.logger.Info("Registration failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nUse /register to try again.")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Account created for <b>%s</b>.\n\nUse /login to sign in.", html.EscapeString(user.DisplayName())),
		nil)
}

func validateRegisterEmail(text string) (string, error) {
	email, err := validateEmail(text)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(email) > EmailMaxLength {
		return "", errors.New("email is too long")
	}
	return email, nil
}

func validatePassword(text string) error {
	if utf8.RuneCountInString(text) < PasswordMinLength {
		return fmt.Errorf("password must be at least %d characters", PasswordMinLength)
	}
	return nil
}

func validateFullName(text string) (string, error) {
	name := strings.Join(strings.Fields(text), " ")
	if name == "" {
		return "", errors.New("full name is required")
	}
	if utf8.RuneCountInString(name) > FullNameMaxLength {
		return "", fmt.Errorf("full name is too long, at most %d characters", FullNameMaxLength)
	}
	return name, nil
}

func validateCCCD(text string) (string, error) {
	cccd := strings.TrimSpace(text)
	if len(cccd) != CCCDLength {
		return "", fmt.Errorf("CCCD must be exactly %d digits", CCCDLength)
	}
	for _, r := range cccd {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("CCCD must be exactly %d digits", CCCDLength)
		}
	}
	return cccd, nil
}

func validateRegisterPhone(text string) (string, error) {
	phone, err := validatePatientPhone(text)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(phone) < RegisterPhoneMinLength {
		return "", fmt.Errorf("phone number must be at least %d characters", RegisterPhoneMinLength)
	}
	return phone, nil
}
