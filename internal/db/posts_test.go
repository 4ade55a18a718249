package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/blogapi/backend/internal/feed"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{"id", "title", "post_content", "date_published", "user_id", "username"}

func TestCreatePostReturnsAuthor(t *testing.T) {
	mock, pg := newMock(t)
	published := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO posts")).
		WithArgs(int64(4), "Hello", "World").
		WillReturnRows(pgxmock.NewRows(postRowColumns).
			AddRow(int64(1), "Hello", "World", published, int64(4), "dave"))

	post, err := pg.CreatePost(context.Background(), 4, "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, "dave", post.Username)
	assert.Equal(t, published, post.DatePublished)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePostScopedToOwner(t *testing.T) {
	mock, pg := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(1), int64(9), "t", "c").
		WillReturnError(pgx.ErrNoRows)

	post, err := pg.UpdatePost(context.Background(), 1, 9, "t", "c")
	assert.Nil(t, post)
	assert.True(t, IsNoRows(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPostsReturnsPageAndTotal(t *testing.T) {
	mock, pg := newMock(t)
	mock.MatchExpectationsInOrder(false)

	q, err := feed.Compile(feed.Request{Mode: feed.ByAuthor, ActorID: 4, Page: 2, PageSize: 2}, 0)
	require.NoError(t, err)

	newer := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*)")).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.date_published DESC, p.id DESC")).
		WithArgs(int64(4), 2, 2).
		WillReturnRows(pgxmock.NewRows(postRowColumns).
			AddRow(int64(3), "third", "c", newer, int64(4), "dave").
			AddRow(int64(2), "second", "b", older, int64(4), "dave"))

	page, err := pg.SearchPosts(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalCount)
	require.Len(t, page.Results, 2)
	assert.Equal(t, int64(3), page.Results[0].ID)
	assert.Equal(t, "dave", page.Results[1].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPostsEmptyPageIsNotNil(t *testing.T) {
	mock, pg := newMock(t)
	mock.MatchExpectationsInOrder(false)

	q, err := feed.Compile(feed.Request{Mode: feed.Subscriptions, ActorID: 8, Page: 1, PageSize: 10}, 0)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*)")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WillReturnRows(pgxmock.NewRows(postRowColumns))

	page, err := pg.SearchPosts(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestSearchPostsPropagatesFailure(t *testing.T) {
	mock, pg := newMock(t)
	mock.MatchExpectationsInOrder(false)

	q, err := feed.Compile(feed.Request{Mode: feed.Global, Page: 1, PageSize: 10}, 0)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*)")).
		WillReturnError(errors.New("timeout"))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WillReturnRows(pgxmock.NewRows(postRowColumns))

	page, err := pg.SearchPosts(context.Background(), q)
	assert.Nil(t, page)
	assert.ErrorContains(t, err, "count posts: timeout")
}
