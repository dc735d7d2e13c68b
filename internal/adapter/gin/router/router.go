package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-account-service/internal/adapter/gin/handler"
	"user-account-service/internal/adapter/gin/middleware"
	"user-account-service/internal/config"
	"user-account-service/pkg/response"
)

// Setup configures and returns a Gin router with all routes and middleware.
func Setup(
	userHandler *handler.UserHandler,
	tokens middleware.TokenVerifier,
	cfg *config.Config,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.Logger.ServiceName,
		})
	})

	// Uploaded profile images are served from a predictable public path
	router.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)

	// API docs
	router.StaticFile("/docs/user.swagger.json", "./api/swagger/user.swagger.json")
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/docs/user.swagger.json"),
	)))

	// Account routes; everything except register and login sits behind
	// the auth guard
	user := router.Group("/user")
	{
		user.POST("/memberRegister", userHandler.Register)
		user.POST("/login", userHandler.Login)

		guarded := user.Group("", middleware.Auth(tokens, log))
		{
			guarded.GET("/getUsers", userHandler.ListUsers)
			guarded.POST("/getSingleUser", userHandler.GetSingleUser)
			guarded.POST("/filterByName", userHandler.FilterByName)
			guarded.POST("/edit_profile", userHandler.EditProfile)
			guarded.POST("/delete-account", userHandler.DeleteAccount)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.New(http.StatusNotFound, "No Route Found"))
	})

	return router
}
