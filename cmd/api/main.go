package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/storyboard/backend/internal/config"
	"github.com/storyboard/backend/internal/handlers"
	"github.com/storyboard/backend/internal/middleware"
	"github.com/storyboard/backend/internal/models"
	"github.com/storyboard/backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	if cfg.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer models.Close(db)

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	storageService := services.NewStorageService(cfg)
	var s3Service *services.S3Service
	if cfg.S3Enabled {
		s3Service, err = services.NewS3Service(cfg)
		if err != nil {
			log.Fatalf("Failed to init S3 service: %v", err)
		}
	}
	sceneService := services.NewSceneService(db)
	shotService := services.NewShotService(db)
	projectService := services.NewProjectService(db, sceneService, shotService)
	assetService := services.NewAssetService(db, cfg, storageService, s3Service)
	settingsService := services.NewSettingsService(db, cfg)
	characterService := services.NewCharacterService(db)
	aiService := services.NewAIService(cfg, settingsService)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(projectService, aiService)
	assetHandler := handlers.NewAssetHandler(assetService, cfg)
	shotHandler := handlers.NewShotHandler(shotService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	characterHandler := handlers.NewCharacterHandler(characterService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Uploaded files are served straight from local storage
	router.Static("/uploads", cfg.UploadsPath)

	// Setup routes
	api := router.Group("/api")
	{
		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/generate-scenes", projectHandler.GenerateScenes)

			projects.GET("/:id/assets", assetHandler.ListProjectAssets)
			projects.POST("/:id/assets", assetHandler.CreateAsset)
			projects.POST("/:id/upload", assetHandler.UploadAssets)

			projects.GET("/:id/characters", characterHandler.ListProjectCharacters)
			projects.POST("/:id/characters", characterHandler.CreateCharacter)
			projects.POST("/:id/characters/bulk", characterHandler.CreateCharactersBulk)
		}

		assets := api.Group("/assets")
		{
			assets.GET("/:id", assetHandler.GetAsset)
			assets.PATCH("/:id", assetHandler.UpdateAsset)
			assets.DELETE("/:id", assetHandler.DeleteAsset)
		}

		scenes := api.Group("/scenes")
		{
			scenes.GET("/:id/shots", shotHandler.ListSceneShots)
			scenes.POST("/:id/shots", shotHandler.BulkSaveShots)
		}

		shots := api.Group("/shots")
		{
			shots.GET("/:id", shotHandler.GetShot)
			shots.PATCH("/:id", shotHandler.UpdateShot)
			shots.DELETE("/:id", shotHandler.DeleteShot)
			shots.PUT("/:id/assets", shotHandler.ReplaceShotAssets)
		}

		characters := api.Group("/characters")
		{
			characters.PATCH("/:id", characterHandler.UpdateCharacter)
			characters.DELETE("/:id", characterHandler.DeleteCharacter)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/ai", settingsHandler.GetSettings)
			settings.POST("/ai", settingsHandler.SaveSettings)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // allow large multipart uploads
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
