package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitObserver получает уведомление об отброшенном обновлении
type RateLimitObserver interface {
	ObserveRateLimited()
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserLimiter ограничивает частоту обновлений от одного пользователя
type UserLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*limiterEntry
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
	observer RateLimitObserver
	now      func() time.Time
}

// NewUserLimiter создаёт ограничитель: perSecond обновлений в секунду с запасом burst
func NewUserLimiter(perSecond float64, burst int, logger *zap.Logger, observer RateLimitObserver) *UserLimiter {
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserLimiter{
		limiters: make(map[int64]*limiterEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// Allow сообщает можно ли обработать ещё одно обновление пользователя
func (l *UserLimiter) Allow(telegramID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.limiters[telegramID]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[telegramID] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// EvictIdle удаляет ограничители пользователей, неактивных с before. Возвращает число удалённых.
func (l *UserLimiter) EvictIdle(before time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for id, entry := range l.limiters {
		if entry.lastSeen.Before(before) {
			delete(l.limiters, id)
			n++
		}
	}
	return n
}

// Len количество отслеживаемых пользователей
func (l *UserLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware отбрасывает обновления сверх лимита.
// На отброшенный callback отвечаем, чтобы у пользователя не висел индикатор загрузки.
func (l *UserLimiter) Middleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		telegramID, ok := updateSender(update)
		if !ok || l.Allow(telegramID) {
			next(ctx, b, update)
			return
		}

		l.logger.Warn("Update rate limited", zap.Int64("telegram_id", telegramID))
		if l.observer != nil {
			l.observer.ObserveRateLimited()
		}

		if update.CallbackQuery != nil {
			_, _ = b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
				CallbackQueryID: update.CallbackQuery.ID,
				Text:            "⏳ Too many requests, please slow down",
			})
		}
	}
}

// updateSender возвращает ID отправителя обновления
func updateSender(update *models.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}
