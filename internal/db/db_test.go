package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Postgres) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestWithTxCommits(t *testing.T) {
	mock, pg := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE things").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := WithTx(context.Background(), pg.Pool, func(ctx context.Context, tx DBTX) error {
		_, err := tx.Exec(ctx, "UPDATE things SET x = 1")
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	mock, pg := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithTx(context.Background(), pg.Pool, func(ctx context.Context, tx DBTX) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackAndRethrowsPanic(t *testing.T) {
	mock, pg := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTx(context.Background(), pg.Pool, func(ctx context.Context, tx DBTX) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxBeginError(t *testing.T) {
	mock, pg := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	called := false
	err := WithTx(context.Background(), pg.Pool, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	assert.EqualError(t, err, "no connection")
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorClassifiers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("other")))

	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.False(t, IsForeignKeyViolation(nil))
}
