package main

import (
	"fmt"

	_ "videotutor-api/docs"
	"videotutor-api/internal/adapter/openai"
	"videotutor-api/internal/adapter/qdrant"
	"videotutor-api/internal/adapter/repository/postgres"
	"videotutor-api/internal/delivery/http/handler"
	"videotutor-api/internal/delivery/http/middleware"
	applog "videotutor-api/internal/logger"
	"videotutor-api/internal/usecase/auth"
	"videotutor-api/internal/usecase/project"
	"videotutor-api/internal/usecase/video"
	"videotutor-api/pkg/config"
	"videotutor-api/pkg/database"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	// log
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// @title           VideoTutor API
// @version         1.0
// @description     API documentation for the video tutorial processing service
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := applog.New()

	// connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to database")

	// initialize openai clients
	transcriptionClient := openai.NewTranscriptionClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIWhisperModel)
	chatClient := openai.NewChatClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIChatModel)
	embeddingClient := openai.NewEmbeddingClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIEmbeddingModel)

	// initialize qdrant client
	vectorStore := qdrant.NewClient(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.ExternalCallTimeout)

	// initialize repository
	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	videoRepo := postgres.NewVideoRepository(db)

	// initialize pipeline
	extractor := video.NewAudioExtractor(video.NewExecRunner(), cfg.FFmpegPath, log)
	transcripts := video.NewTranscriptProducer(
		transcriptionClient,
		extractor,
		cfg.MaxTranscribeBytes,
		cfg.TranscribeBytesPerSec,
		cfg.MinSegmentSeconds,
		log,
	)
	pipeline := video.NewPipeline(
		videoRepo,
		projectRepo,
		extractor,
		transcripts,
		chatClient,
		embeddingClient,
		vectorStore,
		cfg.AudioDir,
		cfg.ExternalCallTimeout,
		cfg.TranscriptionTimeout,
		log,
	)
	watcher := video.NewStatusWatcher(videoRepo, cfg.StatusPollInterval)

	// initialize usecase
	authUsecase := auth.NewAuthUsecase(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	projectUsecase := project.NewProjectUsecase(projectRepo, vectorStore, log)
	videoUsecase := video.NewVideoUsecase(videoRepo, projectRepo, pipeline, watcher, vectorStore, cfg.UploadDir, log)

	// initialize handler
	authHandler := handler.NewAuthHandler(authUsecase)
	projectHandler := handler.NewProjectHandler(projectUsecase)
	videoHandler := handler.NewVideoHandler(videoUsecase)

	// initialize fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 1024 * 1024 * 1024, // uploads can be large raw video files
	})

	// middleware for log request and response in terminal
	app.Use(logger.New())

	// Swagger route
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	// Public Routes
	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Protected Routes
	protected := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// project routes
	protected.Post("/projects", projectHandler.Create)
	protected.Get("/projects", projectHandler.List)
	protected.Get("/projects/:id", projectHandler.GetByID)
	protected.Delete("/projects/:id", projectHandler.Delete)

	// video routes
	protected.Post("/projects/:projectId/videos", videoHandler.Upload)
	protected.Get("/projects/:projectId/videos", videoHandler.List)
	protected.Get("/projects/:projectId/videos/:id", videoHandler.GetByID)
	protected.Get("/projects/:projectId/videos/:id/status", videoHandler.GetStatus)
	protected.Get("/projects/:projectId/videos/:id/events", videoHandler.StreamEvents)
	protected.Delete("/projects/:projectId/videos/:id", videoHandler.Delete)

	// Start server
	log.Infof("🚀 Server starting on port %d", cfg.Port)
	log.Infof("📚 Swagger UI: http://localhost:%d/swagger/index.html", cfg.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
