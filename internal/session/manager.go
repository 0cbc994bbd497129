package session

import (
	"sync"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
)

// EventKind тип перехода сессии
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event уведомление подписчику о смене сессии
type Event struct {
	Kind       EventKind
	TelegramID int64
	User       *model.User // для logout содержит пользователя, который вышел
}

// Listener получает события синхронно, в горутине вызвавшей Login/Logout
type Listener func(Event)

// Manager хранит сессии пользователей бота
type Manager struct {
	mu        sync.RWMutex
	sessions  map[int64]model.User
	listeners map[int]Listener
	nextID    int
}

// NewManager создаёт менеджер сессий
func NewManager() *Manager {
	return &Manager{
		sessions:  make(map[int64]model.User),
		listeners: make(map[int]Listener),
	}
}

// Login сохраняет пользователя и уведомляет подписчиков
func (m *Manager) Login(telegramID int64, user model.User) {
	m.mu.Lock()
	m.sessions[telegramID] = user
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	u := user
	notify(listeners, Event{Kind: EventLogin, TelegramID: telegramID, User: &u})
}

// Logout удаляет сессию. Возвращает false если пользователь не был авторизован.
func (m *Manager) Logout(telegramID int64) bool {
	m.mu.Lock()
	user, ok := m.sessions[telegramID]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, telegramID)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, Event{Kind: EventLogout, TelegramID: telegramID, User: &user})
	return true
}

// Current возвращает копию текущего пользователя или nil
func (m *Manager) Current(telegramID int64) *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.sessions[telegramID]
	if !ok {
		return nil
	}
	return &user
}

// IsLoggedIn сообщает есть ли активная сессия
func (m *Manager) IsLoggedIn(telegramID int64) bool {
	return m.Current(telegramID) != nil
}

// Subscribe регистрирует слушателя и возвращает функцию отписки
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// snapshotListeners вызывается под m.mu; порядок вызова соответствует порядку подписки
func (m *Manager) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(listeners []Listener, ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}
