package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/patient"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/state"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.logger.Info("Start command",
		zap.Int64("telegram_id", telegramID),
		zap.String("username", update.Message.From.Username))

	text, kb := common.MainMenuScreen(h.deps.Users.Current(telegramID))
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Commands</b>\n\n" +
		"/book - Book an appointment\n" +
		"/history - My appointments\n" +
		"/clearhistory - Clear appointment history\n" +
		"/register - Create a clinic account\n" +
		"/login - Sign in to the clinic account\n" +
		"/logout - Sign out\n" +
		"/cancel - Cancel the current step\n" +
		"/help - Show this help\n\n" +
		"To book, pick your symptoms and we will suggest a department and a doctor. " +
		"Signed-in patients get their name and phone filled in automatically."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleBook обрабатывает команду /book - начинает новый поток записи
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	symptoms, err := h.deps.Catalog.Symptoms(ctx)
	if err != nil {
		h.logger.Error("Failed to load symptoms", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return
	}

	// Новый поток вытесняет незавершённый
	h.stateManager.ClearState(telegramID)
	common.SaveFlow(h.deps.StateManager, telegramID, callbacktypes.BookingFlow{})

	text, kb := patient.SymptomsScreen(symptoms, nil, 0)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleHistory обрабатывает команду /history
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	list := h.deps.History(update.Message.From.ID).List(ctx)
	text, kb := patient.HistoryScreen(list)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleClearHistory обрабатывает команду /clearhistory - спрашивает подтверждение
func (h *Handlers) HandleClearHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text, kb := patient.ClearHistoryPromptScreen()
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleLogin обрабатывает команду /login - начинает диалог входа
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if user := h.deps.Users.Current(telegramID); user != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("✅ You are already signed in as <b>%s</b>.\n\nUse /logout to sign out.", html.EscapeString(user.DisplayName())),
			nil)
		return
	}

	h.stateManager.SetState(telegramID, state.StateLoginEmail)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🔐 <b>Sign in</b>\n\nEnter your email:\n\nUse /cancel to stop.", nil)
}

// HandleRegister обрабатывает команду /register - начинает диалог регистрации
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if user := h.deps.Users.Current(telegramID); user != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("✅ You are already signed in as <b>%s</b>.\n\nUse /logout to sign out.", html.EscapeString(user.DisplayName())),
			nil)
		return
	}

	h.stateManager.SetData(telegramID, dataRegistration, model.Registration{})
	h.stateManager.SetState(telegramID, state.StateRegisterEmail)
	h.sendMessage(ctx, b, update.Message.Chat.ID, promptRegisterEmail, nil)
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if !h.deps.Users.Logout(update.Message.From.ID) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "ℹ️ You are not signed in.", nil)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 You have been signed out.", nil)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	_, hasFlow := common.LoadFlow(h.deps.StateManager, telegramID)

	if h.stateManager.GetState(telegramID) == state.StateNone && !hasFlow {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.", nil)
		return
	}

	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Cancelled.\n\nUse /help to see available commands.", nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("Text message",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		// Вне диалога текст не обрабатывается
		return
	case state.StateEnterPatientName:
		h.handlePatientNameStep(ctx, b, update)
	case state.StateEnterPatientPhone:
		h.handlePatientPhoneStep(ctx, b, update)
	case state.StateEnterReason:
		h.handleReasonStep(ctx, b, update)
	case state.StateLoginEmail:
		h.handleLoginEmailStep(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPasswordStep(ctx, b, update)
	default:
		if isRegistrationState(currentState) {
			h.handleRegisterStep(ctx, b, update)
			return
		}
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}
