package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blogapi/backend/internal/db"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/password"
)

const strongPassword = "Str0ng_Passw0rd"

type fixture struct {
	store *db.Memory
	auth  *AuthService
	posts *PostService
	users *UserService
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: db.NewMemory(),
		now:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	tick := f.now
	f.store.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})

	log := logging.Discard()
	f.auth = NewAuthService(f.store, password.NewHasher(1, 2), log).WithClock(clock)
	f.posts = NewPostService(f.store, 0, log)
	f.users = NewUserService(f.store, f.posts, 0, log)
	return f
}

func (f *fixture) register(t *testing.T, username string) (*model.User, *model.Token) {
	t.Helper()
	user, token, err := f.auth.Register(context.Background(), Registration{Username: username, Password: strongPassword})
	require.NoError(t, err)
	return user, token
}
