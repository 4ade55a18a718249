package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Memory is a process-local store with the same method set and error
// shapes as Postgres. Missing rows surface as pgx.ErrNoRows and constraint
// failures as *pgconn.PgError, so IsNoRows and friends work unchanged.
type Memory struct {
	mu  sync.RWMutex
	now func() time.Time

	users     map[int64]*model.User
	posts     map[int64]*model.Post
	tokens    map[string]model.Token
	subs      map[[2]int64]struct{}
	interests map[string]int64
	userInts  map[int64]map[int64]struct{}

	nextUser, nextPost, nextInterest int64
}

func NewMemory() *Memory {
	return &Memory{
		now:       time.Now,
		users:     map[int64]*model.User{},
		posts:     map[int64]*model.Post{},
		tokens:    map[string]model.Token{},
		subs:      map[[2]int64]struct{}{},
		interests: map[string]int64{},
		userInts:  map[int64]map[int64]struct{}{},
	}
}

// WithClock sets the time source stamped on new users and posts.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

func (m *Memory) usernameTaken(username string, except int64) bool {
	for _, u := range m.users {
		if u.Username == username && u.ID != except {
			return true
		}
	}
	return false
}

func (m *Memory) CreateUser(_ context.Context, u model.NewUser, token model.Token) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.usernameTaken(u.Username, 0) {
		return nil, uniqueViolation("users_username_key")
	}
	if _, ok := m.tokens[token.Value]; ok {
		return nil, uniqueViolation("tokens_pkey")
	}

	m.nextUser++
	user := &model.User{
		ID:             m.nextUser,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		IsActive:       true,
		ShortBiography: u.ShortBiography,
		BirthDate:      u.BirthDate,
		Country:        u.Country,
		City:           u.City,
		CreatedAt:      m.now(),
	}
	m.users[user.ID] = user
	token.UserID = user.ID
	m.tokens[token.Value] = token

	out := *user
	return &out, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *Memory) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *u
	return &out, nil
}

// SetActive flips the active flag. There is no Postgres counterpart; the
// flag is managed out of band there.
func (m *Memory) SetActive(userID int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.IsActive = active
	}
}

func (m *Memory) UpdateCredentials(_ context.Context, userID int64, username, passwordHash string, token model.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	if m.usernameTaken(username, userID) {
		return uniqueViolation("users_username_key")
	}
	if _, ok := m.tokens[token.Value]; ok {
		return uniqueViolation("tokens_pkey")
	}
	u.Username = username
	u.PasswordHash = passwordHash
	token.UserID = userID
	m.tokens[token.Value] = token
	for _, p := range m.posts {
		if p.UserID == userID {
			p.Username = username
		}
	}
	return nil
}

func (m *Memory) UpdateProfile(_ context.Context, userID int64, update model.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	u.ShortBiography = update.ShortBiography
	u.BirthDate = update.BirthDate
	u.Country = update.Country
	u.City = update.City

	if update.Interests == nil {
		return nil
	}
	set := map[int64]struct{}{}
	for _, name := range update.Interests {
		id, ok := m.interests[name]
		if !ok {
			m.nextInterest++
			id = m.nextInterest
			m.interests[name] = id
		}
		set[id] = struct{}{}
	}
	m.userInts[userID] = set
	return nil
}

func (m *Memory) GetProfile(_ context.Context, userID int64) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p := &model.Profile{
		User:              *u,
		Interests:         m.interestsOf(userID),
		SubscribersNumber: m.subscribersOf(userID),
	}
	for edge := range m.subs {
		if edge[0] == userID {
			p.SubscriptionsNumber++
		}
	}
	for _, post := range m.posts {
		if post.UserID == userID {
			p.PostsNumber++
		}
	}
	return p, nil
}

func (m *Memory) ListInterests(_ context.Context, userID int64) ([]model.Interest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.interestsOf(userID), nil
}

func (m *Memory) interestsOf(userID int64) []model.Interest {
	list := []model.Interest{}
	for name, id := range m.interests {
		if _, ok := m.userInts[userID][id]; ok {
			list = append(list, model.Interest{ID: id, Interest: name})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Interest < list[j].Interest })
	return list
}

func (m *Memory) subscribersOf(userID int64) int64 {
	var n int64
	for edge := range m.subs {
		if edge[1] == userID {
			n++
		}
	}
	return n
}

func (m *Memory) ListOtherUsers(_ context.Context, excludeID int64, limit, offset int) ([]model.UserView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := []model.UserView{}
	for _, u := range m.users {
		if u.ID == excludeID {
			continue
		}
		list = append(list, model.UserView{User: *u, SubscribersNumber: m.subscribersOf(u.ID)})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].SubscribersNumber != list[j].SubscribersNumber {
			return list[i].SubscribersNumber > list[j].SubscribersNumber
		}
		return list[i].ID < list[j].ID
	})

	if offset >= len(list) {
		return []model.UserView{}, nil
	}
	end := offset + limit
	if end < offset || end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (m *Memory) InsertToken(_ context.Context, token model.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[token.UserID]; !ok {
		return foreignKeyViolation("tokens_user_id_fkey")
	}
	if _, ok := m.tokens[token.Value]; ok {
		return uniqueViolation("tokens_pkey")
	}
	m.tokens[token.Value] = token
	return nil
}

func (m *Memory) GetUserByToken(_ context.Context, value string, now time.Time) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tokens[value]
	if !ok || !t.Expires.After(now) {
		return nil, pgx.ErrNoRows
	}
	u, ok := m.users[t.UserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *u
	return &out, nil
}

func (m *Memory) CreatePost(_ context.Context, userID int64, title, content string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, foreignKeyViolation("posts_user_id_fkey")
	}
	m.nextPost++
	p := &model.Post{
		ID:            m.nextPost,
		Title:         title,
		Content:       content,
		DatePublished: m.now(),
		UserID:        userID,
		Username:      u.Username,
	}
	m.posts[p.ID] = p
	out := *p
	return &out, nil
}

func (m *Memory) GetPost(_ context.Context, postID int64) (*model.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *p
	return &out, nil
}

func (m *Memory) UpdatePost(_ context.Context, postID, ownerID int64, title, content string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok || p.UserID != ownerID {
		return nil, pgx.ErrNoRows
	}
	p.Title = title
	p.Content = content
	out := *p
	return &out, nil
}

func (m *Memory) SearchPosts(_ context.Context, q *feed.Query) (*model.PostPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		all = append(all, *p)
	}
	results, total := q.Apply(all, memEdges{m})
	return &model.PostPage{TotalCount: total, Results: results}, nil
}

// memEdges reads subscriptions while SearchPosts holds the read lock.
type memEdges struct{ m *Memory }

func (e memEdges) Subscribed(subscriberID, authorID int64) bool {
	_, ok := e.m.subs[[2]int64{subscriberID, authorID}]
	return ok
}

func (m *Memory) Subscribe(_ context.Context, subscriberID, targetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[subscriberID]; !ok {
		return foreignKeyViolation("subscriptions_subscriber_id_fkey")
	}
	if _, ok := m.users[targetID]; !ok {
		return foreignKeyViolation("subscriptions_subscription_id_fkey")
	}
	m.subs[[2]int64{subscriberID, targetID}] = struct{}{}
	return nil
}

func (m *Memory) Unsubscribe(_ context.Context, subscriberID, targetID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, [2]int64{subscriberID, targetID})
	return nil
}
