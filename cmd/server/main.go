package main

import (
	"context"
	"flag"
	"log"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stageready/config"
	"stageready/controllers"
	"stageready/db"
	"stageready/logger"
	"stageready/routes"
	"stageready/services"
	"stageready/websocket"
)

func main() {
	configPath := flag.String("config", "./config/config.yml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		appLog.Fatal("failed to connect to MongoDB", "error", err)
	}
	appLog.Info("connected to MongoDB", "database", db.MongoDatabase.Name())

	blobs, err := services.NewBlobService(context.Background(), cfg.Storage.Bucket, appLog)
	if err != nil {
		appLog.Fatal("failed to create blob service", "error", err)
	}
	defer blobs.Close()

	repo := services.NewRepository(db.MongoDatabase)
	cascade := services.NewCascadeService(repo, blobs, appLog)
	stats := services.NewStatsService(repo)

	router := setupRouter(cfg, repo, cascade, stats, appLog)
	port := strconv.Itoa(cfg.Server.Port)
	appLog.Info("server starting", "port", port)

	if err := router.Run(":" + port); err != nil {
		appLog.Fatal("server exited", "error", err)
	}
}

func setupRouter(
	cfg *config.Config,
	repo *services.Repository,
	cascade *services.CascadeService,
	stats *services.StatsService,
	appLog *logger.Logger,
) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8100", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	routes.SetupAdminRoutes(
		router,
		controllers.NewAuthController(repo, cfg.JWT.Secret, cfg.JWT.Expiry, appLog),
		controllers.NewUserController(repo, cascade, appLog),
		controllers.NewSpeechController(repo, appLog),
		controllers.NewGamificationController(repo, appLog),
		controllers.NewDashboardController(stats, appLog),
		websocket.NewDashboardHandler(stats, appLog),
		cfg.JWT.Secret,
	)
	return router
}
