package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/repository"
	"go.uber.org/zap"
)

// Key фиксированный ключ истории в локальном хранилище
const Key = "appointments"

var (
	// ErrStorageCorrupt сохранённое значение не разбирается как список записей
	ErrStorageCorrupt = errors.New("history storage corrupt")
	// ErrDuplicateAppointment запись с таким же ключом бронирования уже есть
	ErrDuplicateAppointment = errors.New("appointment already saved")
)

// UserKey ключ истории конкретного пользователя бота
func UserKey(telegramID int64) string {
	return Key + ":" + strconv.FormatInt(telegramID, 10)
}

// DegradeObserver получает уведомление когда чтение истории деградировало до пустого списка
type DegradeObserver interface {
	ObserveHistoryDegraded(reason string)
}

// keyLocks сериализует чтение-изменение-запись одного ключа внутри процесса.
// Store создаётся на каждый запрос, поэтому блокировки живут на уровне пакета.
var keyLocks sync.Map

func lockKey(key string) func() {
	v, _ := keyLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Store список подтверждённых записей пациента, только дописывание
type Store struct {
	storage  repository.Storage
	key      string
	logger   *zap.Logger
	observer DegradeObserver
}

// NewStore создаёт хранилище истории под ключом key
func NewStore(storage repository.Storage, key string, logger *zap.Logger, observer DegradeObserver) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage:  storage,
		key:      key,
		logger:   logger,
		observer: observer,
	}
}

// Load читает список строго: ошибки хранилища и разбора возвращаются вызывающему
func (s *Store) Load(ctx context.Context) ([]model.Appointment, error) {
	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if !found || raw == "" {
		return []model.Appointment{}, nil
	}

	var list []model.Appointment
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	if list == nil {
		list = []model.Appointment{}
	}
	return list, nil
}

// List возвращает все записи в порядке добавления.
// Повреждённое или недоступное хранилище даёт пустой список.
func (s *Store) List(ctx context.Context) []model.Appointment {
	list, err := s.Load(ctx)
	if err != nil {
		s.degrade(err)
		return []model.Appointment{}
	}
	return list
}

// Contains сообщает есть ли в истории запись с данным ключом бронирования.
// Повреждённая история считается пустой: Append всё равно её перезапишет.
func (s *Store) Contains(ctx context.Context, bookingKey string) (bool, error) {
	if bookingKey == "" {
		return false, nil
	}
	list, err := s.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrStorageCorrupt) {
			return false, nil
		}
		return false, err
	}
	for _, existing := range list {
		if existing.BookingKey == bookingKey {
			return true, nil
		}
	}
	return false, nil
}

// Append дописывает запись в конец списка.
// Запись с уже сохранённым BookingKey не добавляется: возвращается ErrDuplicateAppointment.
func (s *Store) Append(ctx context.Context, appt model.Appointment) error {
	defer lockKey(s.key)()

	list, err := s.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrStorageCorrupt) {
			return err
		}
		// Повреждённое значение перезаписывается новым списком
		s.degrade(err)
		list = []model.Appointment{}
	}

	if appt.BookingKey != "" {
		for _, existing := range list {
			if existing.BookingKey == appt.BookingKey {
				return ErrDuplicateAppointment
			}
		}
	}

	list = append(list, appt)
	return s.write(ctx, list)
}

// ReplaceAll полностью перезаписывает список
func (s *Store) ReplaceAll(ctx context.Context, list []model.Appointment) error {
	if list == nil {
		list = []model.Appointment{}
	}
	defer lockKey(s.key)()
	return s.write(ctx, list)
}

func (s *Store) write(ctx context.Context, list []model.Appointment) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func (s *Store) degrade(err error) {
	reason := "unreadable"
	if errors.Is(err, ErrStorageCorrupt) {
		reason = "corrupt"
	}
	s.logger.Warn("History unavailable, treating as empty",
		zap.String("key", s.key),
		zap.String("reason", reason),
		zap.Error(err),
	)
	if s.observer != nil {
		s.observer.ObserveHistoryDegraded(reason)
	}
}

// SortByDateDesc возвращает копию списка, отсортированную по дате записи от новых к старым.
// Порядок записей с одинаковой датой сохраняется.
func SortByDateDesc(list []model.Appointment) []model.Appointment {
	out := make([]model.Appointment, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppointmentDate > out[j].AppointmentDate
	})
	return out
}
