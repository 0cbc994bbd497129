package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/healthconnect_bot/internal/clinicapi"
	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

var (
	// ErrInvalidDoctorID идентификатор врача должен быть положительным
	ErrInvalidDoctorID = errors.New("doctor id must be positive")
	// ErrInvalidDate дата должна быть в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// SlotsAPI источник слотов врача
type SlotsAPI interface {
	GetSlotsByDate(ctx context.Context, doctorID int64, from, to string) ([]model.DaySlots, error)
}

// AvailabilityObserver метрики загрузки доступности
type AvailabilityObserver interface {
	ObserveAvailability(outcome string, seconds float64)
}

type AvailabilityService struct {
	api      SlotsAPI
	mode     slots.Mode
	logger   *zap.Logger
	observer AvailabilityObserver
}

func NewAvailabilityService(api SlotsAPI, mode slots.Mode, logger *zap.Logger, observer AvailabilityObserver) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode == "" {
		mode = slots.ModeOpen
	}
	return &AvailabilityService{
		api:      api,
		mode:     mode,
		logger:   logger,
		observer: observer,
	}
}

// Mode режим трактовки ответа сервиса
func (s *AvailabilityService) Mode() slots.Mode {
	return s.mode
}

// ComputeAvailability строит снимок доступности врача на дату.
// Отсутствие группы для даты даёт пустой снимок. Любой сбой сервиса или
// некорректный startTime возвращается как AvailabilityUnavailableError.
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, doctorID int64, date string) (slots.Snapshot, error) {
	if doctorID <= 0 {
		return slots.Snapshot{}, ErrInvalidDoctorID
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return slots.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	started := time.Now()
	snap, err := s.compute(ctx, doctorID, date)
	elapsed := time.Since(started).Seconds()

	if err != nil {
		s.observe("unavailable", elapsed)
		s.logger.Warn("Availability unavailable",
			zap.Int64("doctor_id", doctorID),
			zap.String("date", date),
			zap.Error(err),
		)
		return slots.Unavailable(doctorID, date), err
	}

	outcome := "ok"
	if snap.Len() == 0 {
		outcome = "empty"
	}
	s.observe(outcome, elapsed)
	s.logger.Debug("Availability computed",
		zap.Int64("doctor_id", doctorID),
		zap.String("date", date),
		zap.String("mode", string(s.mode)),
		zap.Int("slots", snap.Len()),
	)

	return snap, nil
}

func (s *AvailabilityService) compute(ctx context.Context, doctorID int64, date string) (slots.Snapshot, error) {
	days, err := s.api.GetSlotsByDate(ctx, doctorID, date, date)
	if err != nil {
		var unavailable *clinicapi.AvailabilityUnavailableError
		if errors.As(err, &unavailable) {
			return slots.Snapshot{}, err
		}
		return slots.Snapshot{}, &clinicapi.AvailabilityUnavailableError{DoctorID: doctorID, Date: date, Cause: err}
	}

	var day *model.DaySlots
	for i := range days {
		if days[i].WorkDate == date {
			day = &days[i]
			break
		}
	}

	snap, err := slots.FromDay(doctorID, date, s.mode, day)
	if err != nil {
		return slots.Snapshot{}, &clinicapi.AvailabilityUnavailableError{DoctorID: doctorID, Date: date, Cause: err}
	}
	return snap, nil
}

func (s *AvailabilityService) observe(outcome string, seconds float64) {
	if s.observer != nil {
		s.observer.ObserveAvailability(outcome, seconds)
	}
}
