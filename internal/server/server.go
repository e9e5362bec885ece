package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"schemascope/internal/database"
	"schemascope/internal/handlers"
	"schemascope/internal/repositories"
	"schemascope/internal/routes"
	"schemascope/internal/services"
)

func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	pool, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect to metadata database: %v", err)
	}

	if err := database.RunMigrations(pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	// Test Redis connection and fail fast with a clear message
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis at %s: %v", redisAddr, err)
		}
		log.Println("Connected to Redis successfully")
	}

	outputDir := os.Getenv("REPORT_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "reports"
	}

	// Dependency injection
	runRepo := repositories.NewRunRepository(pool)
	reportCache := repositories.NewReportCacheRepository(rdb)
	exportService := services.NewExportService(outputDir)
	analysisService := services.NewAnalysisService(runRepo, reportCache, exportService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())
	routes.RegisterRoutes(router, analysisHandler)

	// Create and configure the HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute,
	}

	return server
}
