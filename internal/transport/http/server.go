package http

import (
	"github.com/gin-gonic/gin"

	"docbase/internal/bootstrap"
	"docbase/internal/transport/http/handler"
	"docbase/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authHandler := handler.NewAuthHandler(app.AuthService)
	accountHandler := handler.NewAccountHandler(app.Resolver, app.AccountService)
	delegateHandler := handler.NewDelegateHandler(app.Resolver, app.DelegateService)
	documentHandler := handler.NewDocumentHandler(app.Resolver, app.DocumentService)
	uploadHandler := handler.NewUploadHandler(
		app.Resolver,
		app.AccountService,
		app.BatchService,
		app.BatchPublisher,
		app.ProgressCache,
		app.Config.Upload.Dir,
		app.Config.Upload.MaxFileSize,
	)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	authed := v1.Group("")
	authed.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))

	accountGroup := authed.Group("/account")
	accountGroup.GET("/settings", accountHandler.GetSettings)
	accountGroup.PUT("/settings", accountHandler.SaveSettings)
	accountGroup.GET("/credentials", accountHandler.ListCredentials)
	accountGroup.POST("/credentials", accountHandler.CreateCredential)
	accountGroup.DELETE("/credentials/:id", accountHandler.DeleteCredential)

	delegateGroup := authed.Group("/delegates")
	delegateGroup.GET("", delegateHandler.List)
	delegateGroup.POST("", delegateHandler.Create)
	delegateGroup.PUT("/:id", delegateHandler.Update)
	delegateGroup.DELETE("/:id", delegateHandler.Delete)

	authed.GET("/quota", documentHandler.Quota)

	documentGroup := authed.Group("/documents")
	documentGroup.GET("", documentHandler.List)
	documentGroup.DELETE("/:id", documentHandler.Delete)
	documentGroup.POST("/upload", uploadHandler.Upload)
	documentGroup.POST("/batch", uploadHandler.EnqueueBatch)

	authed.GET("/batches/:id", uploadHandler.Progress)

	return router
}
