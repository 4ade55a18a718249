package db

import (
	"context"
	"fmt"

	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.DatePublished, &p.UserID, &p.Username); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost inserts a post and returns it joined with its author.
func (db *Postgres) CreatePost(ctx context.Context, userID int64, title, content string) (*model.Post, error) {
	return scanPost(db.Pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO posts (user_id, title, post_content, date_published)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, title, post_content, date_published, user_id
		)
		SELECT i.id, i.title, i.post_content, i.date_published, i.user_id, u.username
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`, userID, title, content))
}

func (db *Postgres) GetPost(ctx context.Context, postID int64) (*model.Post, error) {
	return scanPost(db.Pool.QueryRow(ctx, `
		SELECT p.id, p.title, p.post_content, p.date_published, p.user_id, u.username
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`, postID))
}

// UpdatePost rewrites title and body of a post owned by ownerID. The
// publication timestamp is left untouched.
func (db *Postgres) UpdatePost(ctx context.Context, postID, ownerID int64, title, content string) (*model.Post, error) {
	return scanPost(db.Pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE posts
			SET title = $3, post_content = $4
			WHERE id = $1 AND user_id = $2
			RETURNING id, title, post_content, date_published, user_id
		)
		SELECT d.id, d.title, d.post_content, d.date_published, d.user_id, u.username
		FROM updated d
		JOIN users u ON u.id = d.user_id
	`, postID, ownerID, title, content))
}

// SearchPosts runs the page and total count for q concurrently.
func (db *Postgres) SearchPosts(ctx context.Context, q *feed.Query) (*model.PostPage, error) {
	page := &model.PostPage{Results: []model.Post{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sql, args := q.Count()
		if err := db.Pool.QueryRow(gctx, sql, args...).Scan(&page.TotalCount); err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sql, args := q.Select()
		rows, err := db.Pool.Query(gctx, sql, args...)
		if err != nil {
			return fmt.Errorf("select posts: %w", err)
		}
		defer rows.Close()

		var results []model.Post
		for rows.Next() {
			p, err := scanPost(rows)
			if err != nil {
				return err
			}
			results = append(results, *p)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if results != nil {
			page.Results = results
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}
