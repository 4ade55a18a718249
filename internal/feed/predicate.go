package feed

import (
	"strings"
	"time"

	"github.com/blogapi/backend/internal/model"
)

// Edges answers subscription lookups for in-memory evaluation.
type Edges interface {
	Subscribed(subscriberID, authorID int64) bool
}

// predicate is one WHERE term. render compiles it to SQL; bind registers a
// value and returns its placeholder so values never reach the SQL text.
// match evaluates the same term against a loaded post.
type predicate interface {
	render(bind func(any) string) string
	match(p model.Post, edges Edges) bool
}

type authorIs struct {
	id int64
}

func (a authorIs) render(bind func(any) string) string {
	return "p.user_id = " + bind(a.id)
}

func (a authorIs) match(p model.Post, _ Edges) bool {
	return p.UserID == a.id
}

type subscribedBy struct {
	subscriber int64
}

func (s subscribedBy) render(bind func(any) string) string {
	return "EXISTS (SELECT 1 FROM subscriptions s WHERE s.subscriber_id = " + bind(s.subscriber) +
		" AND s.subscription_id = p.user_id)"
}

func (s subscribedBy) match(p model.Post, edges Edges) bool {
	return edges != nil && edges.Subscribed(s.subscriber, p.UserID)
}

type usernameIn struct {
	names []string
}

func (u usernameIn) render(bind func(any) string) string {
	return "u.username = ANY(" + bind(u.names) + ")"
}

func (u usernameIn) match(p model.Post, _ Edges) bool {
	for _, n := range u.names {
		if n == p.Username {
			return true
		}
	}
	return false
}

type textField int

const (
	titleField textField = iota
	contentField
)

func (f textField) column() string {
	if f == titleField {
		return "p.title"
	}
	return "p.post_content"
}

func (f textField) value(p model.Post) string {
	if f == titleField {
		return p.Title
	}
	return p.Content
}

// contains is a literal, case-insensitive substring match. strpos keeps
// % and _ in the needle from acting as wildcards.
type contains struct {
	field textField
	text  string
}

func (c contains) render(bind func(any) string) string {
	return "strpos(lower(" + c.field.column() + "), lower(" + bind(c.text) + ")) > 0"
}

// match folds case with strings.ToLower. Postgres lower() follows the
// database collation, so non-ASCII text may fold differently there.
func (c contains) match(p model.Post, _ Edges) bool {
	return strings.Contains(strings.ToLower(c.field.value(p)), strings.ToLower(c.text))
}

type publishedFrom struct {
	at time.Time
}

func (f publishedFrom) render(bind func(any) string) string {
	return "p.date_published >= " + bind(f.at)
}

func (f publishedFrom) match(p model.Post, _ Edges) bool {
	return !p.DatePublished.Before(f.at)
}

type publishedUntil struct {
	at time.Time
}

func (u publishedUntil) render(bind func(any) string) string {
	return "p.date_published <= " + bind(u.at)
}

func (u publishedUntil) match(p model.Post, _ Edges) bool {
	return !p.DatePublished.After(u.at)
}
