package slots

import (
	"fmt"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
)

// Mode определяет как трактуется ответ сервиса доступности
type Mode string

const (
	// ModeOpen ответ содержит свободные слоты со scheduleId
	ModeOpen Mode = "open"
	// ModeBooked ответ содержит уже занятые слоты
	ModeBooked Mode = "booked"
)

// ParseMode разбирает режим из конфигурации
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOpen, ModeBooked:
		return Mode(s), nil
	case "":
		return ModeOpen, nil
	}
	return "", fmt.Errorf("unknown slot mode %q", s)
}

// Snapshot доступность одного врача на одну дату.
// Пересчитывается целиком при смене врача или даты и никогда не сохраняется.
type Snapshot struct {
	DoctorID int64
	Date     string
	Mode     Mode

	open   map[TimeLabel]int64
	booked map[TimeLabel]struct{}
}

// NewSnapshot создаёт пустой снимок: в режиме open ничего не доступно,
// в режиме booked доступна вся сетка
func NewSnapshot(doctorID int64, date string, mode Mode) Snapshot {
	return Snapshot{
		DoctorID: doctorID,
		Date:     date,
		Mode:     mode,
		open:     make(map[TimeLabel]int64),
		booked:   make(map[TimeLabel]struct{}),
	}
}

// Unavailable снимок для случая ошибки загрузки: ни одна метка не доступна в любом режиме
func Unavailable(doctorID int64, date string) Snapshot {
	return NewSnapshot(doctorID, date, ModeOpen)
}

// FromDay строит снимок из группы слотов одного дня.
// Если несколько слотов дают одну метку, побеждает последний.
func FromDay(doctorID int64, date string, mode Mode, day *model.DaySlots) (Snapshot, error) {
	snap := NewSnapshot(doctorID, date, mode)
	if day == nil {
		return snap, nil
	}

	for _, slot := range day.Slots {
		label, err := ToLabel(slot.StartTime)
		if err != nil {
			return Snapshot{}, fmt.Errorf("schedule %d: %w", slot.ScheduleID, err)
		}
		if mode == ModeBooked {
			snap.booked[label] = struct{}{}
		} else {
			snap.open[label] = slot.ScheduleID
		}
	}

	return snap, nil
}

// Put добавляет метку в снимок режима open
func (s *Snapshot) Put(label TimeLabel, scheduleID int64) {
	if s.open == nil {
		s.open = make(map[TimeLabel]int64)
	}
	s.open[label] = scheduleID
}

// ScheduleID возвращает scheduleId для метки (только режим open)
func (s Snapshot) ScheduleID(label TimeLabel) (int64, bool) {
	id, ok := s.open[label]
	return id, ok
}

// Open возвращает копию соответствия метка -> scheduleId
func (s Snapshot) Open() map[TimeLabel]int64 {
	out := make(map[TimeLabel]int64, len(s.open))
	for k, v := range s.open {
		out[k] = v
	}
	return out
}

// Len количество меток, пришедших от сервиса
func (s Snapshot) Len() int {
	if s.Mode == ModeBooked {
		return len(s.booked)
	}
	return len(s.open)
}

// IsSelectable сообщает можно ли выбрать метку в данном снимке
func IsSelectable(s Snapshot, label TimeLabel) bool {
	if s.Mode == ModeBooked {
		if !InCatalog(label) {
			return false
		}
		_, taken := s.booked[label]
		return !taken
	}
	_, ok := s.open[label]
	return ok
}

// Cell ячейка сетки для отображения
type Cell struct {
	Label      TimeLabel
	Selectable bool
	ScheduleID int64
}

// Grid накладывает снимок на фиксированную сетку
func Grid(s Snapshot) []Cell {
	cells := make([]Cell, 0, len(catalog))
	for _, label := range catalog {
		id, _ := s.ScheduleID(label)
		cells = append(cells, Cell{
			Label:      label,
			Selectable: IsSelectable(s, label),
			ScheduleID: id,
		})
	}
	return cells
}

// SelectableCount количество доступных меток сетки
func SelectableCount(s Snapshot) int {
	n := 0
	for _, c := range Grid(s) {
		if c.Selectable {
			n++
		}
	}
	return n
}
