package routes

import (
	"net/http"

	"contacts_backend/internal/handlers"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Options - зависимости маршрутов, которые собираются в app
type Options struct {
	// AuthMiddleware проверяет bearer токен и активную сессию
	AuthMiddleware gin.HandlerFunc
	// RateLimit ограничивает /users/signup и /users/login
	RateLimit gin.HandlerFunc
	// AvatarDir - каталог с аватарами для локального хранилища, пусто для s3
	AvatarDir string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	if opts.AvatarDir != "" {
		ginRouter.Static("/avatars", opts.AvatarDir)
		logger.Info("Static avatars route registered", "dir", opts.AvatarDir)
	}

	root := ginRouter.Group("")
	{
		appHandlers.ContactHandler.RegisterRoutes(root)
		appHandlers.UserHandler.RegisterRoutes(root, opts.AuthMiddleware, opts.RateLimit)
	}
}
