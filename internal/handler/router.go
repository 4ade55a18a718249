package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/blogapi/backend/internal/config"
	"github.com/blogapi/backend/internal/logging"
	"github.com/blogapi/backend/internal/service"
)

type Services struct {
	Auth  *service.AuthService
	Users *service.UserService
	Posts *service.PostService
}

// NewRouter wires every route. Public feeds and profile views sit outside
// the bearer-protected group.
func NewRouter(svc Services, httpCfg config.HTTPConfig, feedCfg config.FeedConfig, log logging.Logger) *gin.Engine {
	authHandler := NewAuthHandler(svc.Auth, svc.Users, log)
	userHandler := NewUserHandler(svc.Users, feedCfg.DefaultPageSize, log)
	postHandler := NewPostHandler(svc.Posts, feedCfg.DefaultPageSize, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CORSMiddleware(httpCfg.AllowedOrigins, httpCfg.AllowCredentials))

	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/openapi.json", OpenAPIDoc)

	r.POST("/auth", authHandler.Login)
	r.POST("/sign-up", authHandler.SignUp)

	r.GET("/posts", postHandler.ListPosts)
	r.POST("/posts/search", postHandler.SearchPosts)
	r.GET("/posts/:id", postHandler.GetPost)
	r.GET("/users/:id", userHandler.GetUser)
	r.GET("/users/:id/posts", postHandler.UserPosts)
	r.POST("/users/:id/posts", postHandler.UserPosts)

	protected := r.Group("/")
	protected.Use(AuthMiddleware(svc.Auth, log))
	{
		protected.POST("/update-credentials", authHandler.UpdateCredentials)

		protected.GET("/me/profile", userHandler.GetProfile)
		protected.POST("/me/profile", userHandler.UpdateProfile)
		protected.GET("/me/posts", postHandler.MyPosts)
		protected.POST("/me/posts", postHandler.MyPosts)
		protected.POST("/me/subscriptions/posts", postHandler.SubscriptionPosts)

		protected.GET("/users", userHandler.ListUsers)
		protected.GET("/users/:id/subscribe", userHandler.Subscribe)
		protected.GET("/users/:id/unsubscribe", userHandler.Unsubscribe)

		protected.PUT("/posts", postHandler.CreatePost)
		protected.POST("/posts/:id", postHandler.UpdatePost)
	}

	return r
}
