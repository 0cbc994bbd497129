package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/app"
	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/config"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/handlers"
	"github.com/Freeeeeet/healthconnect_bot/internal/controller/state"
	"github.com/Freeeeeet/healthconnect_bot/internal/history"
	"github.com/Freeeeeet/healthconnect_bot/internal/observability/metrics"
	"github.com/Freeeeeet/healthconnect_bot/internal/service"
	"github.com/Freeeeeet/healthconnect_bot/internal/session"
	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.IsProduction())
	defer logger.Sync()

	logger.Sugar().Infow("Starting healthconnect bot",
		"environment", cfg.Environment,
		"api_base_url", cfg.APIBaseURL,
		"slot_mode", cfg.SlotMode,
		"confirmation_mode", cfg.ConfirmationMode,
		"history_backend", cfg.HistoryBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	botMetrics := metrics.NewBotMetrics(registry)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = startMetricsServer(cfg.MetricsAddr, registry, logger)
	}

	// Хранилище истории
	storage, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open history storage", zap.Error(err))
	}
	defer closeStorage()

	// Клиент бэкенда клиники
	api := clinicapi.NewClient(clinicapi.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
	}, logger.Named("clinicapi"))

	// Сессии и сервисы
	sessions := session.NewManager()
	unsubscribeMetrics := sessions.Subscribe(func(ev session.Event) {
		botMetrics.ObserveSessionEvent(string(ev.Kind))
	})
	defer unsubscribeMetrics()

	services := controller.Services{
		Catalog:      service.NewCatalogService(api, logger),
		Availability: service.NewAvailabilityService(api, cfg.SlotMode, logger, botMetrics),
		Booking:      service.NewBookingService(api, cfg.ConfirmationMode, logger, botMetrics),
		Users:        service.NewUserService(api, sessions, logger),
		History: func(telegramID int64) *history.Store {
			return history.NewStore(storage, history.UserKey(telegramID), logger, botMetrics)
		},
		Sessions:   sessions,
		GridImages: cfg.SlotGridImages,
	}

	// Ограничение частоты обновлений от одного пользователя
	limiter := handlers.NewUserLimiter(cfg.UserRateLimit, 5, logger, botMetrics)

	var opts []bot.Option
	if cfg.UserRateLimit > 0 {
		opts = append(opts, bot.WithMiddlewares(limiter.Middleware))
	}

	b, err := bot.New(cfg.TelegramToken, opts...)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	stateManager := state.NewManager()
	botController := controller.NewBotController(b, services, stateManager, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	// Фоновая очистка брошенных диалогов и ограничителей
	scheduler := app.NewScheduler(cfg.StateIdleTTL, time.Minute, logger)
	scheduler.Register("dialog_state", stateManager)
	scheduler.Register("rate_limiters", limiter)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("✅ Bot started")
	_ = botController.Start(ctx)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Bot stopped")
}

// startMetricsServer отдаёт /metrics на отдельном адресе
func startMetricsServer(addr string, registry *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return srv
}
