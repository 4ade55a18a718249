package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/blogapi/backend/internal/db"
	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	latestPostsPerUser = 5
	latestPostsWorkers = 4
)

type UserStore interface {
	GetProfile(ctx context.Context, userID int64) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, update model.ProfileUpdate) error
	ListOtherUsers(ctx context.Context, excludeID int64, limit, offset int) ([]model.UserView, error)
	Subscribe(ctx context.Context, subscriberID, targetID int64) error
	Unsubscribe(ctx context.Context, subscriberID, targetID int64) error
}

type UserService struct {
	repo        UserStore
	posts       *PostService
	maxPageSize int
	log         logging.Logger
}

func NewUserService(repo UserStore, posts *PostService, maxPageSize int, log logging.Logger) *UserService {
	return &UserService{repo: repo, posts: posts, maxPageSize: maxPageSize, log: log}
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile applies descriptive fields. A nil Interests keeps the current
// set; an empty slice clears it.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update model.ProfileUpdate) (*model.Profile, error) {
	if update.Interests != nil {
		update.Interests = normalizeInterests(update.Interests)
	}
	if err := s.repo.UpdateProfile(ctx, userID, update); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Profile(ctx, userID)
}

// View is the public profile of userID with its newest posts.
func (s *UserService) View(ctx context.Context, userID int64) (*model.UserView, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Latest(ctx, userID, latestPostsPerUser)
	if err != nil {
		return nil, err
	}
	return &model.UserView{
		User:              p.User,
		Interests:         p.Interests,
		SubscribersNumber: p.SubscribersNumber,
		Posts:             posts,
	}, nil
}

// ListOthers pages through everyone but actorID, most subscribed first,
// each with its newest posts.
func (s *UserService) ListOthers(ctx context.Context, actorID int64, page, count int) ([]model.UserView, error) {
	if page < 1 || count < 1 {
		return nil, fmt.Errorf("%w: page and count must be >= 1", ErrInvalidInput)
	}
	if s.maxPageSize > 0 && count > s.maxPageSize {
		count = s.maxPageSize
	}

	users, err := s.repo.ListOtherUsers(ctx, actorID, count, feed.PageOffset(page, count))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(latestPostsWorkers)
	for i := range users {
		g.Go(func() error {
			posts, err := s.posts.Latest(gctx, users[i].ID, latestPostsPerUser)
			if err != nil {
				return err
			}
			users[i].Posts = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Subscribe(ctx context.Context, subscriberID, targetID int64) error {
	if err := s.repo.Subscribe(ctx, subscriberID, targetID); err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("subscribe: %w", err)
	}
	s.log.Debug(ctx, "subscribed", "subscriber_id", subscriberID, "target_id", targetID)
	return nil
}

func (s *UserService) Unsubscribe(ctx context.Context, subscriberID, targetID int64) error {
	if err := s.repo.Unsubscribe(ctx, subscriberID, targetID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	s.log.Debug(ctx, "unsubscribed", "subscriber_id", subscriberID, "target_id", targetID)
	return nil
}

func normalizeInterests(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, interest := range in {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		out = append(out, interest)
	}
	return out
}
