package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/model"
)

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "alice")
	ctx := context.Background()

	tests := []struct {
		name           string
		title, content string
		ok             bool
	}{
		{name: "valid", title: "Hello", content: "World", ok: true},
		{name: "title at limit", title: strings.Repeat("t", 100), content: "c", ok: true},
		{name: "title too long", title: strings.Repeat("t", 101), content: "c"},
		{name: "content too long", title: "t", content: strings.Repeat("c", 1001)},
		{name: "empty title", title: " ", content: "c"},
		{name: "empty content", title: "t", content: ""},
		{name: "multibyte counts runes", title: strings.Repeat("ж", 100), content: "c", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := f.posts.Create(ctx, alice, tt.title, tt.content)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, post.UserID)
			assert.Equal(t, "alice", post.Username)
		})
	}
}

func TestCreatePostMissingAuthor(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.Create(context.Background(), &model.User{ID: 404, Username: "ghost"}, "title", "content")
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestGetPostNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "alice")
	bob, _ := f.register(t, "bob")
	ctx := context.Background()

	post, err := f.posts.Create(ctx, alice, "draft", "body")
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, bob, post.ID, "hijacked", "body")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Title)

	updated, err := f.posts.Update(ctx, alice, post.ID, "final", "new body")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, post.DatePublished, updated.DatePublished)

	_, err = f.posts.Update(ctx, alice, 999, "x", "y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchGlobalPages(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "alice")
	ctx := context.Background()
	for i := 1; i <= 15; i++ {
		_, err := f.posts.Create(ctx, alice, fmt.Sprintf("post %d", i), "body")
		require.NoError(t, err)
	}

	first, err := f.posts.Search(ctx, feed.Request{Mode: feed.Global, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 15, first.TotalCount)
	require.Len(t, first.Results, 10)
	assert.Equal(t, "post 15", first.Results[0].Title)

	second, err := f.posts.Search(ctx, feed.Request{Mode: feed.Global, Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 15, second.TotalCount)
	require.Len(t, second.Results, 5)
	assert.Equal(t, "post 1", second.Results[4].Title)
}

func TestSearchInvalidWindow(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.Search(context.Background(), feed.Request{Mode: feed.Global, Page: 0, PageSize: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchUnknownAuthorIsEmpty(t *testing.T) {
	f := newFixture(t)
	page, err := f.posts.Search(context.Background(), feed.Request{Mode: feed.ByAuthor, ActorID: 77, Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.NotNil(t, page.Results)
}

func TestLatestReturnsNewestFirst(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.register(t, "alice")
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		_, err := f.posts.Create(ctx, alice, fmt.Sprintf("p%d", i), "body")
		require.NoError(t, err)
	}

	posts, err := f.posts.Latest(ctx, alice.ID, 5)
	require.NoError(t, err)
	require.Len(t, posts, 5)
	assert.Equal(t, "p7", posts[0].Title)
	assert.Equal(t, "p3", posts[4].Title)
}
