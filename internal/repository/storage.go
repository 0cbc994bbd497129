package repository

import (
	"context"
	"errors"
)

// ErrEmptyKey ключ хранилища не задан
var ErrEmptyKey = errors.New("storage key is empty")

// Storage локальное key-value хранилище строковых значений.
// Get возвращает found=false если ключа нет.
type Storage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
