package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/model"
)

func TestSubscriptionFeedFollowsEdges(t *testing.T) {
	f := newFixture(t)
	a, _ := f.register(t, "a")
	b, _ := f.register(t, "b")
	c, _ := f.register(t, "c")
	ctx := context.Background()

	_, err := f.posts.Create(ctx, b, "from b", "body")
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, c, "from c", "body")
	require.NoError(t, err)

	require.NoError(t, f.users.Subscribe(ctx, a.ID, b.ID))
	req := feed.Request{Mode: feed.Subscriptions, ActorID: a.ID, Page: 1, PageSize: 10}

	page, err := f.posts.Search(ctx, req)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "b", page.Results[0].Username)

	require.NoError(t, f.users.Unsubscribe(ctx, a.ID, b.ID))
	page, err = f.posts.Search(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}

func TestSubscribeUnknownTarget(t *testing.T) {
	f := newFixture(t)
	a, _ := f.register(t, "a")
	assert.ErrorIs(t, f.users.Subscribe(context.Background(), a.ID, 404), ErrNotFound)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	a, _ := f.register(t, "a")
	b, _ := f.register(t, "b")
	ctx := context.Background()

	require.NoError(t, f.users.Subscribe(ctx, a.ID, b.ID))
	require.NoError(t, f.users.Subscribe(ctx, a.ID, b.ID))

	p, err := f.users.Profile(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.SubscribersNumber)
}

func TestUpdateProfileInterests(t *testing.T) {
	f := newFixture(t)
	a, _ := f.register(t, "a")
	ctx := context.Background()

	p, err := f.users.UpdateProfile(ctx, a.ID, model.ProfileUpdate{
		Country:   "NO",
		Interests: []string{" go ", "go", "", "chess"},
	})
	require.NoError(t, err)
	assert.Equal(t, "NO", p.Country)
	require.Len(t, p.Interests, 2)
	assert.Equal(t, "chess", p.Interests[0].Interest)
	assert.Equal(t, "go", p.Interests[1].Interest)

	p, err = f.users.UpdateProfile(ctx, a.ID, model.ProfileUpdate{Country: "SE"})
	require.NoError(t, err)
	assert.Len(t, p.Interests, 2)

	p, err = f.users.UpdateProfile(ctx, a.ID, model.ProfileUpdate{Interests: []string{}})
	require.NoError(t, err)
	assert.Empty(t, p.Interests)
}

func TestProfileNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Profile(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.users.UpdateProfile(context.Background(), 9, model.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewAttachesLatestPosts(t *testing.T) {
	f := newFixture(t)
	a, _ := f.register(t, "a")
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three", "four", "five", "six"} {
		_, err := f.posts.Create(ctx, a, title, "body")
		require.NoError(t, err)
	}

	v, err := f.users.View(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", v.Username)
	require.Len(t, v.Posts, 5)
	assert.Equal(t, "six", v.Posts[0].Title)
}

func TestListOthersOrdersBySubscribers(t *testing.T) {
	f := newFixture(t)
	me, _ := f.register(t, "me")
	quiet, _ := f.register(t, "quiet")
	popular, _ := f.register(t, "popular")
	ctx := context.Background()

	require.NoError(t, f.users.Subscribe(ctx, me.ID, popular.ID))
	require.NoError(t, f.users.Subscribe(ctx, quiet.ID, popular.ID))
	_, err := f.posts.Create(ctx, popular, "hi", "there")
	require.NoError(t, err)

	list, err := f.users.ListOthers(ctx, me.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "popular", list[0].Username)
	assert.EqualValues(t, 2, list[0].SubscribersNumber)
	require.Len(t, list[0].Posts, 1)
	assert.Equal(t, "quiet", list[1].Username)
	assert.NotNil(t, list[1].Posts)

	_, err = f.users.ListOthers(ctx, me.ID, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListOthersPageFarPastEnd(t *testing.T) {
	f := newFixture(t)
	me, _ := f.register(t, "me")
	f.register(t, "other")

	for _, page := range []int{math.MaxInt, math.MaxInt/10 + 1} {
		list, err := f.users.ListOthers(context.Background(), me.ID, page, 10)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}
