package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schemascope/internal/handlers"
)

// RegisterRoutes wires every route group under /api/v1.
func RegisterRoutes(router *gin.Engine, analysisHandler *handlers.AnalysisHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	NewAnalysisRoutes(analysisHandler).RegisterRoutes(v1)
}
