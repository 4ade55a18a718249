package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/service"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// parseBirthDate accepts YYYY-MM-DD; an empty string means unset.
func parseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", service.ErrInvalidInput)
	}
	return &t, nil
}

// parseBound accepts YYYY-MM-DD or RFC3339. A date-only upper bound is
// widened to the last microsecond of that day.
func parseBound(field, raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC3339", service.ErrInvalidInput, field)
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, nil
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", service.ErrInvalidInput, name)
	}
	return id, nil
}

// parsePageQuery reads ?page= and ?count=. Range checks happen in the feed
// compiler; only non-numeric values are rejected here.
func parsePageQuery(c *gin.Context, defaultCount int) (int, int, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	count, err := queryInt(c, "count", defaultCount)
	if err != nil {
		return 0, 0, err
	}
	return page, count, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, key)
	}
	return n, nil
}

func toTokenResponse(t *model.Token) model.TokenResponse {
	return model.TokenResponse{
		AccessToken: t.Value,
		TokenType:   "bearer",
		Expires:     t.Expires.UTC(),
		ExpiresIn:   int64(service.TokenTTL / time.Second),
	}
}

func toProfileResponse(p *model.Profile) model.ProfileResponse {
	return model.ProfileResponse{
		ID:                  p.ID,
		Username:            p.Username,
		IsActive:            p.IsActive,
		ShortBiography:      p.ShortBiography,
		BirthDate:           formatDate(p.BirthDate),
		Country:             p.Country,
		City:                p.City,
		Interests:           nonNilInterests(p.Interests),
		SubscribersNumber:   p.SubscribersNumber,
		SubscriptionsNumber: p.SubscriptionsNumber,
		PostsNumber:         p.PostsNumber,
	}
}

func toUserViewResponse(v *model.UserView) model.UserViewResponse {
	posts := v.Posts
	if posts == nil {
		posts = []model.Post{}
	}
	return model.UserViewResponse{
		ID:                v.ID,
		Username:          v.Username,
		ShortBiography:    v.ShortBiography,
		BirthDate:         formatDate(v.BirthDate),
		Country:           v.Country,
		City:              v.City,
		Interests:         nonNilInterests(v.Interests),
		SubscribersNumber: v.SubscribersNumber,
		Posts:             posts,
	}
}

func nonNilInterests(in []model.Interest) []model.Interest {
	if in == nil {
		return []model.Interest{}
	}
	return in
}
