package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "documind/internal/app"
	"documind/internal/bootstrap"
	"documind/internal/cache"
	"documind/internal/platform/rabbitmq"
	"documind/internal/repository"
	"documind/internal/transport/http/handler"
	"documind/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	// Interfaces stay nil unless the backend is configured.
	var historyCache appsvc.HistoryCache
	if app.Redis != nil {
		historyCache = cache.NewHistoryCache(app.Redis, time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second)
	}
	var publisher appsvc.EventPublisher
	if app.MQConn != nil {
		publisher = rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)
	}

	userRepo := repository.NewUserRepository(app.DB)
	documentRepo := repository.NewDocumentRepository(app.DB)
	messageRepo := repository.NewChatMessageRepository(app.DB)
	activityRepo := repository.NewActivityRepository(app.DB)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	documentService := appsvc.NewDocumentService(documentRepo, messageRepo, historyCache, publisher, app.Config.Documents.CascadeChatOnDelete)
	chatService := appsvc.NewChatService(documentRepo, messageRepo, historyCache, publisher, app.Config.Chat.EnforceOwnership)
	activityService := appsvc.NewActivityService(activityRepo)

	authHandler := handler.NewAuthHandler(authService)
	documentHandler := handler.NewDocumentHandler(documentService)
	chatHandler := handler.NewChatHandler(chatService)
	activityHandler := handler.NewActivityHandler(activityService)

	v1 := router.Group("/api/v1")
	v1.POST("/users", authHandler.Register)
	v1.POST("/token", authHandler.Login)

	authed := v1.Group("")
	authed.Use(middleware.AuthJWT(authService))
	authed.GET("/users/me", authHandler.Me)
	authed.POST("/documents", documentHandler.Upload)
	authed.GET("/documents", documentHandler.List)
	authed.DELETE("/documents/:id", documentHandler.Delete)
	authed.POST("/chat/:id", chatHandler.SendMessage)
	authed.GET("/chat/:id", chatHandler.GetHistory)
	authed.GET("/activity", activityHandler.List)

	return router
}
