package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeIgnoresDuplicates(t *testing.T) {
	mock, pg := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT DO NOTHING")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, pg.Subscribe(context.Background(), 1, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribeUnknownTarget(t *testing.T) {
	mock, pg := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(int64(1), int64(404)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := pg.Subscribe(context.Background(), 1, 404)
	assert.True(t, IsForeignKeyViolation(err))
}

func TestUnsubscribe(t *testing.T) {
	mock, pg := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscriptions")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, pg.Unsubscribe(context.Background(), 1, 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
