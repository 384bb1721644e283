package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestGormStoreGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"record_key", "value", "updated_at"}).
			AddRow(KeyPosts, `[{"id":"p1"}]`, time.Now())
		mock.ExpectQuery(`SELECT \* FROM "pawsay_records" WHERE record_key = \$1`).WillReturnRows(rows)

		v, err := store.Get(ctx, KeyPosts)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"p1"}]`, string(v))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT \* FROM "pawsay_records"`).
			WillReturnRows(sqlmock.NewRows([]string{"record_key", "value", "updated_at"}))

		_, err := store.Get(ctx, KeyPosts)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStoreSetAndDelete(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "pawsay_records" .* ON CONFLICT \("record_key"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "pawsay_records" WHERE record_key = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Set(ctx, KeyConsent, []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, KeyConsent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Read modify write inside a locked transaction", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "pawsay_records"`).
			WillReturnRows(sqlmock.NewRows([]string{"record_key", "value", "updated_at"}).
				AddRow(KeyReports, `[]`, time.Now()))
		mock.ExpectExec(`INSERT INTO "pawsay_records"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.Update(ctx, KeyReports, func(current []byte, found bool) ([]byte, error) {
			assert.True(t, found)
			assert.Equal(t, `[]`, string(current))
			return []byte(`[{"id":"r1"}]`), nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Callback error rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "pawsay_records"`).
			WillReturnRows(sqlmock.NewRows([]string{"record_key", "value", "updated_at"}))
		mock.ExpectRollback()

		err := store.Update(ctx, KeyReports, func(_ []byte, found bool) ([]byte, error) {
			assert.False(t, found)
			return nil, assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
