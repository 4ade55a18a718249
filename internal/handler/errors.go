package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/service"
)

const (
	msgInvalidCredentials = "Invalid authentication credentials"
	msgIncorrectLogin     = "Incorrect username or password"
	msgInactiveUser       = "Inactive user"
	msgUsernameTaken      = "Username already registered"
	msgUsernameInUse      = "That username is used by another user"
	msgWeakPassword       = "Password is not strong enough"
	msgPostForbidden      = "You don't have access to modify this post"
	msgServerError        = "server error"
)

func abortWithError(c *gin.Context, status int, msg string) {
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: msg})
}

// writeError maps service errors to a status and message. Anything it does
// not recognise is logged and reported as a bare 500.
func writeError(c *gin.Context, log logging.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrWeakPassword):
		abortWithError(c, http.StatusBadRequest, msgWeakPassword)
	case errors.Is(err, service.ErrUsernameTaken):
		abortWithError(c, http.StatusBadRequest, msgUsernameTaken)
	case errors.Is(err, service.ErrInactiveUser):
		abortWithError(c, http.StatusBadRequest, msgInactiveUser)
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		abortWithError(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, msgPostForbidden)
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "not found")
	default:
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
		abortWithError(c, http.StatusInternalServerError, msgServerError)
	}
}
