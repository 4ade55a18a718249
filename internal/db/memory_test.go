package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/model"
)

func seedUser(t *testing.T, m *Memory, name string) *model.User {
	t.Helper()
	u, err := m.CreateUser(context.Background(), model.NewUser{Username: name, PasswordHash: "x"},
		model.Token{Value: "tok-" + name, Expires: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	return u
}

func TestMemoryUniqueUsername(t *testing.T) {
	m := NewMemory()
	seedUser(t, m, "alice")

	_, err := m.CreateUser(context.Background(), model.NewUser{Username: "alice"}, model.Token{Value: "other"})
	assert.True(t, IsUniqueViolation(err))

	_, err = m.GetUserByUsername(context.Background(), "nobody")
	assert.True(t, IsNoRows(err))
}

func TestMemoryTokenExpiryIsExclusive(t *testing.T) {
	m := NewMemory()
	u := seedUser(t, m, "alice")
	expires := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.InsertToken(context.Background(), model.Token{Value: "t", UserID: u.ID, Expires: expires}))

	got, err := m.GetUserByToken(context.Background(), "t", expires.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = m.GetUserByToken(context.Background(), "t", expires)
	assert.True(t, IsNoRows(err))
}

func TestMemoryInsertTokenUnknownUser(t *testing.T) {
	m := NewMemory()
	err := m.InsertToken(context.Background(), model.Token{Value: "t", UserID: 99})
	assert.True(t, IsForeignKeyViolation(err))
}

func TestMemorySubscriptionFeed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedUser(t, m, "a")
	b := seedUser(t, m, "b")
	c := seedUser(t, m, "c")

	_, err := m.CreatePost(ctx, b.ID, "from b", "body")
	require.NoError(t, err)
	_, err = m.CreatePost(ctx, c.ID, "from c", "body")
	require.NoError(t, err)

	require.NoError(t, m.Subscribe(ctx, a.ID, b.ID))
	require.NoError(t, m.Subscribe(ctx, a.ID, b.ID))
	assert.True(t, IsForeignKeyViolation(m.Subscribe(ctx, a.ID, 404)))

	q, err := feed.Compile(feed.Request{Mode: feed.Subscriptions, ActorID: a.ID, Page: 1, PageSize: 10}, 0)
	require.NoError(t, err)
	page, err := m.SearchPosts(ctx, q)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "b", page.Results[0].Username)

	require.NoError(t, m.Unsubscribe(ctx, a.ID, b.ID))
	page, err = m.SearchPosts(ctx, q)
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.NotNil(t, page.Results)
}

func TestMemoryUpdatePostScopedToOwner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedUser(t, m, "a")
	b := seedUser(t, m, "b")
	post, err := m.CreatePost(ctx, a.ID, "t", "c")
	require.NoError(t, err)

	_, err = m.UpdatePost(ctx, post.ID, b.ID, "x", "y")
	assert.True(t, IsNoRows(err))

	updated, err := m.UpdatePost(ctx, post.ID, a.ID, "x", "y")
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Title)
	assert.Equal(t, post.DatePublished, updated.DatePublished)
}

func TestMemoryProfileCountsAndInterests(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := seedUser(t, m, "a")
	b := seedUser(t, m, "b")
	_, err := m.CreatePost(ctx, a.ID, "t", "c")
	require.NoError(t, err)
	require.NoError(t, m.Subscribe(ctx, b.ID, a.ID))
	require.NoError(t, m.UpdateProfile(ctx, a.ID, model.ProfileUpdate{City: "Oslo", Interests: []string{"go", "chess"}}))

	p, err := m.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oslo", p.City)
	assert.EqualValues(t, 1, p.SubscribersNumber)
	assert.EqualValues(t, 0, p.SubscriptionsNumber)
	assert.EqualValues(t, 1, p.PostsNumber)
	require.Len(t, p.Interests, 2)
	assert.Equal(t, "chess", p.Interests[0].Interest)

	require.NoError(t, m.UpdateProfile(ctx, a.ID, model.ProfileUpdate{City: "Bergen"}))
	p, err = m.GetProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, p.Interests, 2)

	others, err := m.ListOtherUsers(ctx, b.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, a.ID, others[0].ID)
}
