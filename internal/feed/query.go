// Package feed composes the post feed query: one audience mode, optional
// filters and a page window, compiled to PostgreSQL text with bound params.
package feed

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blogapi/backend/internal/model"
)

type Mode int

const (
	Global Mode = iota
	ByAuthor
	Subscriptions
)

func (m Mode) String() string {
	switch m {
	case Global:
		return "global"
	case ByAuthor:
		return "by_author"
	case Subscriptions:
		return "subscriptions"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

const MaxPageSize = 100

var ErrInvalidRequest = errors.New("invalid feed request")

type Filters struct {
	Title   string
	Content string
	Start   *time.Time
	End     *time.Time
	// Usernames narrows a Subscriptions feed. Ignored in other modes.
	Usernames []string
}

type Request struct {
	Mode     Mode
	ActorID  int64
	Filters  Filters
	Page     int
	PageSize int
}

type Query struct {
	where  []predicate
	page   int
	limit  int
	offset int
}

const (
	selectColumns = `SELECT p.id, p.title, p.post_content, p.date_published, p.user_id, u.username`
	fromPosts     = `FROM posts p
JOIN users u ON u.id = p.user_id`
	orderBy = `ORDER BY p.date_published DESC, p.id DESC`
)

// Compile validates req and builds the predicate list. maxPageSize <= 0
// falls back to MaxPageSize; larger page sizes are clamped.
func Compile(req Request, maxPageSize int) (*Query, error) {
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrInvalidRequest)
	}
	if req.PageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be >= 1", ErrInvalidRequest)
	}
	size := req.PageSize
	if size > maxPageSize {
		size = maxPageSize
	}

	b := &builder{}
	switch req.Mode {
	case Global:
	case ByAuthor:
		b.add(authorIs{id: req.ActorID})
	case Subscriptions:
		b.add(subscribedBy{subscriber: req.ActorID})
		if names := nonEmpty(req.Filters.Usernames); len(names) > 0 {
			b.add(usernameIn{names: names})
		}
	default:
		return nil, fmt.Errorf("%w: unknown mode %s", ErrInvalidRequest, req.Mode)
	}

	f := req.Filters
	if f.Title != "" {
		b.add(contains{field: titleField, text: f.Title})
	}
	if f.Content != "" {
		b.add(contains{field: contentField, text: f.Content})
	}
	if f.Start != nil {
		b.add(publishedFrom{at: *f.Start})
	}
	if f.End != nil {
		b.add(publishedUntil{at: *f.End})
	}

	return &Query{
		where:  b.preds,
		page:   req.Page,
		limit:  size,
		offset: PageOffset(req.Page, size),
	}, nil
}

// PageOffset returns the number of rows before the 1-based page. Offsets
// past math.MaxInt saturate, so such a page is simply past the end.
func PageOffset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

func (q *Query) Page() int     { return q.page }
func (q *Query) PageSize() int { return q.limit }
func (q *Query) Offset() int   { return q.offset }

// Select returns the page query and its arguments.
func (q *Query) Select() (string, []any) {
	var args []any
	where := q.whereClause(&args)

	var sb strings.Builder
	sb.WriteString(selectColumns)
	sb.WriteString("\n")
	sb.WriteString(fromPosts)
	sb.WriteString(where)
	sb.WriteString("\n")
	sb.WriteString(orderBy)
	sb.WriteString("\nLIMIT ")
	sb.WriteString(bindArg(&args, q.limit))
	sb.WriteString(" OFFSET ")
	sb.WriteString(bindArg(&args, q.offset))
	return sb.String(), args
}

// Count returns the total-matches query over the same predicates.
func (q *Query) Count() (string, []any) {
	var args []any
	where := q.whereClause(&args)
	return "SELECT count(*)\n" + fromPosts + where, args
}

// Apply evaluates the query over already loaded posts, applying the same
// predicates, ordering and window as the SQL form. It returns the page and
// the total number of matches.
func (q *Query) Apply(posts []model.Post, edges Edges) ([]model.Post, int64) {
	matched := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if q.matches(p, edges) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.DatePublished.Equal(b.DatePublished) {
			return a.DatePublished.After(b.DatePublished)
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	if q.offset >= len(matched) {
		return []model.Post{}, total
	}
	end := q.offset + q.limit
	if end < q.offset || end > len(matched) {
		end = len(matched)
	}
	return matched[q.offset:end], total
}

func (q *Query) matches(p model.Post, edges Edges) bool {
	for _, pred := range q.where {
		if !pred.match(p, edges) {
			return false
		}
	}
	return true
}

func (q *Query) whereClause(args *[]any) string {
	if len(q.where) == 0 {
		return ""
	}
	bind := func(v any) string { return bindArg(args, v) }
	parts := make([]string, 0, len(q.where))
	for _, p := range q.where {
		parts = append(parts, p.render(bind))
	}
	return "\nWHERE " + strings.Join(parts, "\n  AND ")
}

func bindArg(args *[]any, v any) string {
	*args = append(*args, v)
	return "$" + strconv.Itoa(len(*args))
}

type builder struct {
	preds []predicate
}

func (b *builder) add(p predicate) {
	b.preds = append(b.preds, p)
}

func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
