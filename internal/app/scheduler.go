package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// IdleEvictor хранит данные по пользователям и умеет удалять неактивных
type IdleEvictor interface {
	EvictIdle(before time.Time) int
}

// Scheduler управляет фоновыми задачами: периодически удаляет
// брошенные диалоги и ограничители неактивных пользователей
type Scheduler struct {
	evictors map[string]IdleEvictor
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик.
// Данные старше ttl удаляются при каждом проходе раз в interval.
func NewScheduler(ttl, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		evictors: make(map[string]IdleEvictor),
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Register добавляет хранилище под именем для логов. Вызывается до Start.
func (s *Scheduler) Register(name string, evictor IdleEvictor) {
	s.evictors[name] = evictor
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("ttl", s.ttl),
		zap.Duration("interval", s.interval),
		zap.Int("stores", len(s.evictors)))

	s.started.Store(true)
	go s.runEvictionTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	if s.started.Load() {
		<-s.done
	}
}

// runEvictionTask периодически удаляет неактивные данные
func (s *Scheduler) runEvictionTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopChan:
			s.logger.Info("Idle eviction task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Idle eviction task cancelled")
			return
		}
	}
}

// Sweep выполняет один проход и возвращает сколько записей удалено
func (s *Scheduler) Sweep() int {
	before := s.now().Add(-s.ttl)

	total := 0
	for name, evictor := range s.evictors {
		n := evictor.EvictIdle(before)
		if n > 0 {
			s.logger.Info("Evicted idle entries",
				zap.String("store", name),
				zap.Int("count", n))
		}
		total += n
	}
	return total
}
