package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Handler with Dependencies
// ========================

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// Deps зависимости обработчика callbacks
type Deps struct {
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
	Booking      *service.BookingService
	Users        *service.UserService
	History      callbacktypes.HistoryFactory
	StateManager callbacktypes.StateManager
	Logger       *zap.Logger
	GridImages   bool
	Now          func() time.Time
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inner := &callbacktypes.Handler{
		Catalog:      deps.Catalog,
		Availability: deps.Availability,
		Booking:      deps.Booking,
		Users:        deps.Users,
		History:      deps.History,
		StateManager: deps.StateManager,
		Logger:       logger,
		GridImages:   deps.GridImages,
		Now:          deps.Now,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
