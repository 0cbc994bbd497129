package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/healthconnect_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage хранит значения в таблице kv_store
type PostgresStorage struct {
	*base.Repository
}

// NewPostgresStorage создаёт хранилище поверх пула соединений
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return newPostgresStorageWithExec(pool)
}

func newPostgresStorageWithExec(db base.Querier) *PostgresStorage {
	return &PostgresStorage{Repository: base.NewRepository(db)}
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	query := `SELECT value FROM kv_store WHERE key = $1`

	var value string
	err := s.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if base.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get kv value: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	affected, err := s.ExecAffected(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("set kv value: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set kv value: no rows written for key %q", key)
	}
	return nil
}
