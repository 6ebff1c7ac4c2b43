package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/parsecv/api/internal/config"
	"github.com/parsecv/api/internal/handler"
	"github.com/parsecv/api/internal/middleware"
	"github.com/parsecv/api/internal/notify"
	"github.com/parsecv/api/internal/service"
	"github.com/parsecv/api/internal/worker"
	ws "github.com/parsecv/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub and the notification sink on top of it
	hub := ws.NewHub()
	go hub.Run()
	sink := notify.NewHubSink(hub)

	// Initialize services
	fileValidator := service.NewFileValidator(cfg.Upload)
	queueService := service.NewQueueService(sink)
	resultService := service.NewResultService()
	exportService := service.NewExportService()
	prefsService := service.NewPrefsService(redisClient)
	parseService := service.NewParseService(queueService, asynqClient, hub, sink, resultService, cfg.Processing)

	// Initialize handlers
	documentHandler := handler.NewDocumentHandler(queueService, fileValidator, resultService, sink, cfg.Upload, cfg.Processing.Confidence)
	processHandler := handler.NewProcessHandler(parseService)
	exportHandler := handler.NewExportHandler(queueService, resultService, exportService, sink, cfg.Processing.Confidence)
	prefsHandler := handler.NewPrefsHandler(prefsService, validate)
	analyticsHandler := handler.NewAnalyticsHandler(queueService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(cfg.Upload.MaxBatchSize),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		redisOK := redisClient.Ping(c.Context()).Err() == nil
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis": redisOK,
			},
		})
	})

	// API routes
	api := app.Group("/api")
	if cfg.Auth.Enabled {
		api.Use(authMiddleware.Authenticate())
	}

	// Document queue routes
	documents := api.Group("/documents")
	documents.Post("/", rateLimiter.UploadLimit(cfg.RateLimit.UploadPerHour), documentHandler.Upload)
	documents.Get("/", documentHandler.List)
	documents.Delete("/", documentHandler.Clear)
	documents.Get("/:id", documentHandler.Get)
	documents.Delete("/:id", documentHandler.Remove)
	documents.Get("/:id/result", documentHandler.Result)
	documents.Get("/:id/export", rateLimiter.ExportLimit(cfg.RateLimit.ExportPerHour), exportHandler.Export)

	// Processing command
	api.Post("/process", rateLimiter.ProcessLimit(cfg.RateLimit.ProcessPerHour), processHandler.Start)

	// Preferences
	prefs := api.Group("/preferences")
	prefs.Get("/theme", prefsHandler.GetTheme)
	prefs.Put("/theme", prefsHandler.UpdateTheme)

	// Analytics
	api.Get("/analytics/summary", analyticsHandler.Summary)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/documents/:id", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, c.Params("id"))
	}))
	app.Get("/ws/notifications", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c, ws.TopicNotifications)
	}))

	// Start Asynq worker server
	go startWorkerServer(cfg, parseService, hub)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, parseService *service.ParseService, hub *ws.Hub) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Processing.Concurrency,
			Queues: map[string]int{
				"parse": 10,
			},
		},
	)

	parseWorker := worker.NewParseWorker(parseService, hub)

	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeParse, parseWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
