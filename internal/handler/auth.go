package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/service"
)

type AuthHandler struct {
	svc   *service.AuthService
	users *service.UserService
	log   logging.Logger
}

func NewAuthHandler(svc *service.AuthService, users *service.UserService, log logging.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, users: users, log: log}
}

// Login godoc
// @Summary Exchange username and password for a bearer token
// @Description OAuth2 password grant. grant_type may be omitted.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param grant_type formData string false "Must be password when present"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if grant := c.PostForm("grant_type"); grant != "" && grant != "password" {
		abortWithError(c, http.StatusBadRequest, "unsupported_grant_type")
		return
	}
	username, pw := c.PostForm("username"), c.PostForm("password")
	if username == "" || pw == "" {
		abortWithError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), username, pw)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			abortWithError(c, http.StatusUnauthorized, msgIncorrectLogin)
			return
		}
		writeError(c, h.log, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, toTokenResponse(token))
}

// SignUp godoc
// @Summary Register a new user
// @Description Passwords need 10+ characters with upper and lower case letters, a digit and one of _@$#%&.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.SignUpRequest true "Account and profile"
// @Success 200 {object} model.SignUpResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req model.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}
	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), service.Registration{
		Username:       req.Username,
		Password:       req.Password,
		ShortBiography: req.ShortBiography,
		BirthDate:      birth,
		Country:        req.Country,
		City:           req.City,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, model.SignUpResponse{
		ID:       user.ID,
		Username: user.Username,
		Token:    toTokenResponse(token),
	})
}

// UpdateCredentials godoc
// @Summary Change username and password
// @Description Issues a new token; tokens issued earlier stay valid until they expire.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CredentialsRequest true "New credentials"
// @Success 200 {object} model.CredentialsResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /update-credentials [post]
func (h *AuthHandler) UpdateCredentials(c *gin.Context) {
	user := GetAuthUser(c)
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request")
		return
	}

	token, err := h.svc.UpdateCredentials(c.Request.Context(), user, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			abortWithError(c, http.StatusBadRequest, msgUsernameInUse)
			return
		}
		writeError(c, h.log, err)
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.CredentialsResponse{
		ProfileResponse: toProfileResponse(profile),
		Token:           toTokenResponse(token),
	})
}
