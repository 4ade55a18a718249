package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/service"
)

type UserHandler struct {
	svc          *service.UserService
	defaultCount int
	log          logging.Logger
}

func NewUserHandler(svc *service.UserService, defaultCount int, log logging.Logger) *UserHandler {
	return &UserHandler{svc: svc, defaultCount: defaultCount, log: log}
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProfileResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /me/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), GetAuthUser(c).ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Omitting interests keeps them; an empty list clears them.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfileUpdateRequest true "Profile fields"
// @Success 200 {object} model.ProfileResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /me/profile [post]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}
	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), GetAuthUser(c).ID, model.ProfileUpdate{
		ShortBiography: req.ShortBiography,
		BirthDate:      birth,
		Country:        req.Country,
		City:           req.City,
		Interests:      req.Interests,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// ListUsers godoc
// @Summary Other users, most subscribed first
// @Description Each entry carries the user's 5 newest posts.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1"
// @Param count query int false "Users per page"
// @Success 200 {array} model.UserViewResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, count, err := parsePageQuery(c, h.defaultCount)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	views, err := h.svc.ListOthers(c.Request.Context(), GetAuthUser(c).ID, page, count)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	res := make([]model.UserViewResponse, 0, len(views))
	for i := range views {
		res = append(res, toUserViewResponse(&views[i]))
	}
	c.JSON(http.StatusOK, res)
}

// GetUser godoc
// @Summary Public profile of a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.UserViewResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	view, err := h.svc.View(c.Request.Context(), id)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserViewResponse(view))
}

// Subscribe godoc
// @Summary Subscribe to a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.StatusResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /users/{id}/subscribe [get]
func (h *UserHandler) Subscribe(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := h.svc.Subscribe(c.Request.Context(), GetAuthUser(c).ID, id); err != nil {
		h.writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "subscribed"})
}

// Unsubscribe godoc
// @Summary Unsubscribe from a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.StatusResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /users/{id}/unsubscribe [get]
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), GetAuthUser(c).ID, id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "unsubscribed"})
}

func (h *UserHandler) writeUserError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "User not found")
		return
	}
	writeError(c, h.log, err)
}
