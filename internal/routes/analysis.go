package routes

import (
	"github.com/gin-gonic/gin"

	"schemascope/internal/handlers"
	"schemascope/internal/middlewares"
)

type AnalysisRoutes struct {
	handler *handlers.AnalysisHandler
}

func NewAnalysisRoutes(handler *handlers.AnalysisHandler) *AnalysisRoutes {
	return &AnalysisRoutes{handler: handler}
}

func (r *AnalysisRoutes) RegisterRoutes(router *gin.RouterGroup) {
	analyses := router.Group("/analyses")
	analyses.Use(middlewares.RequireAPIKey())
	{
		analyses.POST("", r.handler.CreateAnalysis)
		analyses.GET("", r.handler.ListRuns)
		analyses.GET("/:id", r.handler.GetRun)
		analyses.GET("/:id/guide", r.handler.GetGuide)
		analyses.GET("/:id/digest", r.handler.GetDigest)
	}
}
