package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/config"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/database"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/handler"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/middleware"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/repository"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/router"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
	cloud "github.com/SNbappy/edugrid-smart-learning-platform-server/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Classroom{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var uploader service.FileStorage
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	exposeDetail := !cfg.IsProduction()

	classroomRepo := repository.NewClassroomRepository(db)

	factory := service.NewSubmissionFactory()
	taskService := service.NewTaskService(classroomRepo, validate, logger)
	submissionService := service.NewSubmissionService(classroomRepo, factory, validate, natsConn, cfg.AllowLateSubmissions, logger)
	analyticsService := service.NewAnalyticsService(classroomRepo, redisClient, cfg.AnalyticsCacheTTL, logger)

	deps := router.Dependencies{
		TaskHandler:        handler.NewTaskHandler(taskService, logger, exposeDetail),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger, exposeDetail),
		AnalyticsHandler:   handler.NewAnalyticsHandler(analyticsService, logger, exposeDetail),
		IdentityMiddleware: middleware.Identity(cfg.JWTSecret),
	}
	if uploader != nil {
		uploadService := service.NewUploadService(uploader, cfg.MaxUploadSizeMB, logger)
		deps.UploadHandler = handler.NewUploadHandler(uploadService, logger, exposeDetail)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, deps)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
