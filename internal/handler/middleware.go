package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/model"
	"github.com/blogapi/backend/internal/service"
)

const (
	authUserKey     = "auth_user"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware resolves the bearer token to its user. Inactive users are
// rejected with 400 after the token itself checks out.
func AuthMiddleware(authService *service.AuthService, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		user, err := authService.ResolveToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(c, log, err)
			return
		}
		if !user.IsActive {
			abortWithError(c, http.StatusBadRequest, msgInactiveUser)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.User {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, "+requestIDHeader)
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger tags each request with an id, reusing a caller-supplied
// X-Request-ID, and logs one line when the handler chain returns.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", id,
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(c.Request.Context(), "request", args...)
		case status >= http.StatusBadRequest:
			log.Warn(c.Request.Context(), "request", args...)
		default:
			log.Info(c.Request.Context(), "request", args...)
		}
	}
}
