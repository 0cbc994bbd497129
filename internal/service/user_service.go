package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/healthconnect_bot/internal/model"
	"github.com/Freeeeeet/healthconnect_bot/internal/session"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials не заданы email или пароль
	ErrInvalidCredentials = errors.New("email and password are required")
	// ErrIncompleteRegistration в данных регистрации не хватает полей
	ErrIncompleteRegistration = errors.New("registration is incomplete")
)

// AuthAPI вход и регистрация пациента на бэкенде клиники
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
}

type UserService struct {
	api      AuthAPI
	sessions *session.Manager
	logger   *zap.Logger
}

func NewUserService(api AuthAPI, sessions *session.Manager, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		api:      api,
		sessions: sessions,
		logger:   logger,
	}
}

// Login авторизует пациента на бэкенде и открывает сессию для telegramID
func (s *UserService) Login(ctx context.Context, telegramID int64, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Info("Login failed",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("login: empty user in response")
	}

	s.sessions.Login(telegramID, *user)

	s.logger.Info("User logged in",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("user_id", user.UserID),
	)

	return user, nil
}

// Register создаёт аккаунт пациента. Сессия не открывается: после регистрации нужен вход.
func (s *UserService) Register(ctx context.Context, telegramID int64, reg model.Registration) (*model.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.CCCD = strings.TrimSpace(reg.CCCD)
	reg.Phone = strings.TrimSpace(reg.Phone)
	if reg.Email == "" || reg.Password == "" || reg.FullName == "" || reg.CCCD == "" || reg.Phone == "" {
		return nil, ErrIncompleteRegistration
	}
	reg.Role = model.RolePatient

	user, err := s.api.Register(ctx, reg)
	if err != nil {
		s.logger.Info("Registration failed",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
		return nil, err
	}
	if user == nil {
		user = &model.User{}
	}
	if user.Email == "" {
		user.Email = reg.Email
	}
	if user.FullName == "" {
		user.FullName = reg.FullName
	}

	s.logger.Info("User registered",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("user_id", user.UserID),
	)
	return user, nil
}

// Logout закрывает сессию. Возвращает false если сессии не было.
func (s *UserService) Logout(telegramID int64) bool {
	ok := s.sessions.Logout(telegramID)
	if ok {
		s.logger.Info("User logged out", zap.Int64("telegram_id", telegramID))
	}
	return ok
}

// Current текущий пользователь или nil
func (s *UserService) Current(telegramID int64) *model.User {
	return s.sessions.Current(telegramID)
}
