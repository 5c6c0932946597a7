package tokenstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresKV_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM portal_kv").
		WithArgs("ws:oms_token").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("tok"))

	kv := NewPostgresKV(mock, 0)
	val, ok, err := kv.Get(context.Background(), "ws:oms_token")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_Get_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM portal_kv").
		WithArgs("ws:oms_user").
		WillReturnError(pgx.ErrNoRows)

	kv := NewPostgresKV(mock, 0)
	val, ok, err := kv.Get(context.Background(), "ws:oms_user")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_Get_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT value FROM portal_kv").
		WithArgs("ws:oms_token").
		WillReturnError(errors.New("connection reset"))

	kv := NewPostgresKV(mock, 0)
	_, _, err = kv.Get(context.Background(), "ws:oms_token")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_Set(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO portal_kv").
		WithArgs("ws:oms_token", "tok", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	kv := NewPostgresKV(mock, time.Hour)
	require.NoError(t, kv.Set(context.Background(), "ws:oms_token", "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM portal_kv").
		WithArgs([]string{"ws:oms_token", "ws:oms_user"}).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	kv := NewPostgresKV(mock, 0)
	require.NoError(t, kv.Delete(context.Background(), "ws:oms_token", "ws:oms_user"))
	require.NoError(t, kv.Delete(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKV_BacksStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO portal_kv").
		WithArgs("ws:oms_token", "tok", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM portal_kv").
		WithArgs([]string{"ws:oms_token", "ws:oms_user"}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	store := New(NewPostgresKV(mock, 0), "ws")
	require.NoError(t, store.SaveToken(context.Background(), "tok"))
	require.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
