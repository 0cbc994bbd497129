package service

import (
	"sync"

	"github.com/Freeeeeet/healthconnect_bot/internal/slots"
)

// SlotSelection текущий выбор (врач, дата) и последний принятый для него снимок.
// Результат загрузки для устаревшего выбора отбрасывается.
type SlotSelection struct {
	mu       sync.Mutex
	doctorID int64
	date     string
	snapshot *slots.Snapshot
	err      error
}

// Select меняет текущий выбор и сбрасывает снимок
func (s *SlotSelection) Select(doctorID int64, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doctorID = doctorID
	s.date = date
	s.snapshot = nil
	s.err = nil
}

// Apply принимает результат загрузки только если он относится к текущему выбору
func (s *SlotSelection) Apply(doctorID int64, date string, snap slots.Snapshot, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doctorID != s.doctorID || date != s.date {
		return false
	}
	if err != nil {
		unavailable := slots.Unavailable(doctorID, date)
		s.snapshot = &unavailable
	} else {
		s.snapshot = &snap
	}
	s.err = err
	return true
}

// Current возвращает принятый снимок и ошибку его загрузки.
// loaded=false если для текущего выбора результата ещё нет.
func (s *SlotSelection) Current() (snap slots.Snapshot, loaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return slots.Snapshot{}, false, nil
	}
	return *s.snapshot, true, s.err
}

// Selected возвращает текущий выбор
func (s *SlotSelection) Selected() (doctorID int64, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doctorID, s.date
}
