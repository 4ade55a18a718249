package model

import "time"

type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"post_content"`
	DatePublished time.Time `json:"date_published"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
}

type PostPage struct {
	TotalCount int64  `json:"total_count"`
	Results    []Post `json:"results"`
}
