package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage общий сценарий для всех реализаций Storage
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "appointments:1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "appointments:1", `[{"id":"a"}]`))
	value, found, err := s.Get(ctx, "appointments:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, value)

	require.NoError(t, s.Set(ctx, "appointments:1", `[]`))
	value, _, err = s.Get(ctx, "appointments:1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)

	_, found, err = s.Get(ctx, "appointments:2")
	require.NoError(t, err)
	assert.False(t, found, "keys are independent")

	assert.ErrorIs(t, s.Set(ctx, "", "x"), ErrEmptyKey)
	_, _, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	exerciseStorage(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "appointments:1.json", entries[0].Name())
}

func TestFileStorage_EscapesKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "../escape/key", "v"))
	_, err = os.Stat(filepath.Join(dir, "..%2Fescape%2Fkey.json"))
	assert.NoError(t, err)
}

func TestRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStorage(client, "")
	exerciseStorage(t, s)

	raw, err := mr.Get("healthconnect:appointments:1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
	assert.Equal(t, 0, int(mr.TTL("healthconnect:appointments:1")))
}

func TestRedisStorage_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	s := NewRedisStorage(client, "test:")
	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestPostgresStorage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := newPostgresStorageWithExec(mock)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("appointments:1").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`[]`))
	value, found, err := s.Get(ctx, "appointments:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	_, found, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectQuery("SELECT value FROM kv_store").WithArgs("broken").WillReturnError(errors.New("conn reset"))
	_, _, err = s.Get(ctx, "broken")
	assert.Error(t, err)

	mock.ExpectExec("INSERT INTO kv_store").WithArgs("appointments:1", `[{"id":"a"}]`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, s.Set(ctx, "appointments:1", `[{"id":"a"}]`))

	require.NoError(t, mock.ExpectationsWereMet())
}
