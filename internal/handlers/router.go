package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/middleware"
	"social-analytics-dashboard/internal/services"
)

// NewRouter mounts the dashboard API under /api/v1.
func NewRouter(cfg *config.Config, manager *services.SessionManager, history *services.HistoryService, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", HealthHandler)

	sessions := NewSessionsHandler(manager, logger)
	analyses := NewAnalysesHandler(history, logger)

	api := router.Group("/api/v1")
	api.GET("/health", HealthHandler)
	// thumbnails are loaded by <img> tags, which cannot send a bearer token
	api.GET("/image-proxy", analyses.ImageProxy)

	secured := api.Group("")
	secured.Use(middleware.AuthMiddleware(cfg))

	secured.POST("/sessions", sessions.CreateSession)
	secured.GET("/sessions/:id", sessions.GetSession)
	secured.DELETE("/sessions/:id", sessions.DeleteSession)
	secured.POST("/sessions/:id/reset", sessions.ResetSession)
	secured.POST("/sessions/:id/reference-images", sessions.AttachReferenceImages)
	secured.DELETE("/sessions/:id/reference-images/:brand/:model/:index", sessions.RemoveReferenceImage)
	secured.POST("/sessions/:id/analyze", sessions.StartAnalysis)
	secured.GET("/sessions/:id/notifications", sessions.GetNotifications)
	secured.POST("/sessions/:id/filter", sessions.ApplyFilter)
	secured.DELETE("/sessions/:id/filter", sessions.ClearFilter)
	secured.GET("/sessions/:id/download", sessions.Download)
	secured.POST("/sessions/:id/load/:analysis_id", sessions.LoadAnalysis)

	secured.GET("/analyses", analyses.ListAnalyses)
	secured.DELETE("/analyses/:analysis_id", analyses.DeleteAnalysis)
	secured.GET("/tracked", analyses.ListTracked)

	return router
}
