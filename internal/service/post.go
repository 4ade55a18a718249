package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blogapi/backend/internal/db"
	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
)

const (
	maxTitleLength   = 100
	maxContentLength = 1000
)

// PostStore is the persistence PostService needs.
type PostStore interface {
	CreatePost(ctx context.Context, userID int64, title, content string) (*model.Post, error)
	GetPost(ctx context.Context, postID int64) (*model.Post, error)
	UpdatePost(ctx context.Context, postID, ownerID int64, title, content string) (*model.Post, error)
	SearchPosts(ctx context.Context, q *feed.Query) (*model.PostPage, error)
}

type PostService struct {
	repo        PostStore
	maxPageSize int
	log         logging.Logger
}

func NewPostService(repo PostStore, maxPageSize int, log logging.Logger) *PostService {
	return &PostService{repo: repo, maxPageSize: maxPageSize, log: log}
}

func (s *PostService) Create(ctx context.Context, author *model.User, title, content string) (*model.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	post, err := s.repo.CreatePost(ctx, author.ID, title, content)
	if err != nil {
		if db.IsNoRows(err) || db.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: post %s has no author", ErrIntegrity, title)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// Update lets only the owner rewrite a post.
func (s *PostService) Update(ctx context.Context, actor *model.User, postID int64, title, content string) (*model.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if current.UserID != actor.ID {
		return nil, ErrForbidden
	}

	post, err := s.repo.UpdatePost(ctx, postID, actor.ID, title, content)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Search runs one feed query. Unknown authors, empty subscription sets and
// inverted date ranges produce an empty page.
func (s *PostService) Search(ctx context.Context, req feed.Request) (*model.PostPage, error) {
	q, err := feed.Compile(req, s.maxPageSize)
	if err != nil {
		if errors.Is(err, feed.ErrInvalidRequest) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}

	page, err := s.repo.SearchPosts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search posts (%s): %w", req.Mode, err)
	}
	return page, nil
}

// Latest returns an author's newest posts.
func (s *PostService) Latest(ctx context.Context, authorID int64, count int) ([]model.Post, error) {
	page, err := s.Search(ctx, feed.Request{Mode: feed.ByAuthor, ActorID: authorID, Page: 1, PageSize: count})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func validatePost(title, content string) error {
	switch {
	case strings.TrimSpace(title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case utf8.RuneCountInString(title) > maxTitleLength:
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, maxTitleLength)
	case strings.TrimSpace(content) == "":
		return fmt.Errorf("%w: post_content is required", ErrInvalidInput)
	case utf8.RuneCountInString(content) > maxContentLength:
		return fmt.Errorf("%w: post_content exceeds %d characters", ErrInvalidInput, maxContentLength)
	}
	return nil
}
