package controller

import (
	"context"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/handlers"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/state"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"github.com/Freeeeeet/healthconnect_bot/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которыми пользуются обработчики
type Services struct {
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
	Booking      *service.BookingService
	Users        *service.UserService
	History      callbacktypes.HistoryFactory
	Sessions     *session.Manager
	GridImages   bool
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	stateManager    *state.Manager
	unsubscribe     func()
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	stateManager *state.Manager,
	logger *zap.Logger,
) *BotController {
	// Создаём адаптер для callback handlers
	stateAdapter := state.NewAdapter(stateManager)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(callbacks.Deps{
		Catalog:      services.Catalog,
		Availability: services.Availability,
		Booking:      services.Booking,
		Users:        services.Users,
		History:      services.History,
		StateManager: stateAdapter,
		Logger:       logger,
		GridImages:   services.GridImages,
	})

	// Обработчики команд используют те же зависимости
	cmdHandlers := handlers.NewHandlers(callbackHandler.Handler, stateManager, logger)

	c := &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		stateManager:    stateManager,
		logger:          logger,
	}

	if services.Sessions != nil {
		c.unsubscribe = services.Sessions.Subscribe(c.onSessionEvent)
	}

	return c
}

// onSessionEvent при выходе прерывает незавершённый диалог пользователя
func (c *BotController) onSessionEvent(ev session.Event) {
	if ev.Kind != session.EventLogout {
		return
	}
	c.stateManager.ClearState(ev.TelegramID)
	c.logger.Info("Dialog state cleared on logout", zap.Int64("telegram_id", ev.TelegramID))
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypeExact, c.handlers.HandleHistory)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clearhistory", bot.MatchTypeExact, c.handlers.HandleClearHistory)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypeExact, c.handlers.HandleRegister)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Main menu"},
		{Command: "book", Description: "🩺 Book an appointment"},
		{Command: "history", Description: "📋 My appointments"},
		{Command: "clearhistory", Description: "🗑 Clear appointment history"},
		{Command: "register", Description: "📝 Create an account"},
		{Command: "login", Description: "🔐 Sign in"},
		{Command: "logout", Description: "👋 Sign out"},
		{Command: "cancel", Description: "❌ Cancel the current step"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	return nil
}
