package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/feed"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/service"
)

type PostHandler struct {
	svc          *service.PostService
	defaultCount int
	log          logging.Logger
}

func NewPostHandler(svc *service.PostService, defaultCount int, log logging.Logger) *PostHandler {
	return &PostHandler{svc: svc, defaultCount: defaultCount, log: log}
}

// CreatePost godoc
// @Summary Publish a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PostRequest true "Title and body"
// @Success 201 {object} model.Post
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /posts [put]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}
	post, err := h.svc.Create(c.Request.Context(), GetAuthUser(c), req.Title, req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Post detail
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} model.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	post, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Edit a post
// @Description Only the author may edit. The publication date does not change.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body model.PostRequest true "Title and body"
// @Success 200 {object} model.Post
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /posts/{id} [post]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	var req model.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}
	post, err := h.svc.Update(c.Request.Context(), GetAuthUser(c), id, req.Title, req.Content)
	if err != nil {
		h.writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary Newest posts from everyone
// @Tags posts
// @Produce json
// @Param page query int false "Page, from 1"
// @Param count query int false "Posts per page"
// @Success 200 {object} model.PostPage
// @Failure 400 {object} model.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	h.serveFeed(c, feed.Global, 0, false)
}

// SearchPosts godoc
// @Summary Search all posts
// @Tags posts
// @Accept json
// @Produce json
// @Param page query int false "Page, from 1"
// @Param count query int false "Posts per page"
// @Param request body model.PostSearchRequest false "Filters"
// @Success 200 {object} model.PostPage
// @Failure 400 {object} model.ErrorResponse
// @Router /posts/search [post]
func (h *PostHandler) SearchPosts(c *gin.Context) {
	h.serveFeed(c, feed.Global, 0, true)
}

// UserPosts godoc
// @Summary Posts by one author
// @Description The POST form accepts the same filters as /posts/search.
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param page query int false "Page, from 1"
// @Param count query int false "Posts per page"
// @Param request body model.PostSearchRequest false "Filters"
// @Success 200 {object} model.PostPage
// @Failure 400 {object} model.ErrorResponse
// @Router /users/{id}/posts [get]
// @Router /users/{id}/posts [post]
func (h *PostHandler) UserPosts(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.serveFeed(c, feed.ByAuthor, id, c.Request.Method == http.MethodPost)
}

// MyPosts godoc
// @Summary The caller's own posts
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1"
// @Param count query int false "Posts per page"
// @Param request body model.PostSearchRequest false "Filters"
// @Success 200 {object} model.PostPage
// @Failure 401 {object} model.ErrorResponse
// @Router /me/posts [get]
// @Router /me/posts [post]
func (h *PostHandler) MyPosts(c *gin.Context) {
	h.serveFeed(c, feed.ByAuthor, GetAuthUser(c).ID, c.Request.Method == http.MethodPost)
}

// SubscriptionPosts godoc
// @Summary Posts from users the caller follows
// @Description usernames_list narrows the feed to the named authors.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1"
// @Param count query int false "Posts per page"
// @Param request body model.PostSearchRequest false "Filters"
// @Success 200 {object} model.PostPage
// @Failure 401 {object} model.ErrorResponse
// @Router /me/subscriptions/posts [post]
func (h *PostHandler) SubscriptionPosts(c *gin.Context) {
	h.serveFeed(c, feed.Subscriptions, GetAuthUser(c).ID, true)
}

func (h *PostHandler) serveFeed(c *gin.Context, mode feed.Mode, actorID int64, withBody bool) {
	page, count, err := parsePageQuery(c, h.defaultCount)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	var filters feed.Filters
	if withBody {
		if filters, err = bindFilters(c); err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	res, err := h.svc.Search(c.Request.Context(), feed.Request{
		Mode:     mode,
		ActorID:  actorID,
		Filters:  filters,
		Page:     page,
		PageSize: count,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindFilters reads an optional JSON body; an empty body means no filters.
func bindFilters(c *gin.Context) (feed.Filters, error) {
	var req model.PostSearchRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return feed.Filters{}, fmt.Errorf("%w: malformed filter body", service.ErrInvalidInput)
		}
	}

	start, err := parseBound("start_date", req.StartDate, false)
	if err != nil {
		return feed.Filters{}, err
	}
	end, err := parseBound("end_date", req.EndDate, true)
	if err != nil {
		return feed.Filters{}, err
	}
	return feed.Filters{
		Title:     req.TitleSearch,
		Content:   req.ContentSearch,
		Start:     start,
		End:       end,
		Usernames: req.UsernamesList,
	}, nil
}

func (h *PostHandler) writePostError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Post not found")
		return
	}
	writeError(c, h.log, err)
}
