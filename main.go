package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"storystudio/config"
	"storystudio/handlers"
	"storystudio/internal/aiclient"
	"storystudio/internal/player"
	"storystudio/internal/scenes"
	"storystudio/internal/session"
	"storystudio/internal/worker"
	"storystudio/middleware"
)

func main() {
	cfg := config.LoadConfig()
	config.InitLogger(cfg.LogLevel)
	log := config.Log

	ctx := context.Background()

	aiClient, err := aiclient.NewGeminiClient(ctx, cfg.GeminiAPIKey, log)
	if err != nil {
		log.Fatalf("Failed to initialize generative client: %v", err)
	}
	defer aiClient.Close()

	var device player.Device
	if cfg.PlaybackEnabled {
		otoDevice, err := player.NewOtoDevice()
		if err != nil {
			log.Fatalf("Failed to initialize audio device: %v", err)
		}
		device = otoDevice
	} else {
		device = player.NewSilentDevice()
	}
	defer device.Close()

	sessions := session.NewManager(device, log)
	generator := scenes.NewGenerator(aiClient, cfg.SceneConcurrency, log)
	exports := worker.NewRunner(cfg.ExportWorkers, 16, log)

	h := handlers.NewApplicationHandler(aiClient, generator, sessions, exports, cfg, log)

	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Allow all origins for development
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Content studio is healthy",
		})
	})

	// API v1 routes
	apiV1 := app.Group("/api/v1")

	// Content generation routes
	apiV1.Post("/content", h.GenerateContent)
	apiV1.Post("/content/ideas", h.GenerateTopicIdeas)
	apiV1.Post("/content/convert", h.ConvertText)
	apiV1.Post("/content/seo-analysis", h.AnalyzeSeo)

	// Image Studio routes
	apiV1.Post("/images", h.GenerateImage)
	apiV1.Post("/images/infographic", h.SummarizeToInfographic)

	// Storyboard routes
	apiV1.Post("/storyboards", h.CreateStoryboard)
	apiV1.Get("/storyboards", h.ListStoryboards)
	apiV1.Get("/storyboards/:storyboardId", h.GetStoryboard)
	apiV1.Delete("/storyboards/:storyboardId", h.DeleteStoryboard)

	// Playback routes within a storyboard
	playerRoutes := apiV1.Group("/storyboards/:storyboardId/player")
	playerRoutes.Post("/play", h.PlayScene)
	playerRoutes.Post("/play-all", h.TogglePlayAll)
	playerRoutes.Post("/stop", h.StopPlayback)
	playerRoutes.Get("/state", h.PlaybackState)

	// Export routes within a storyboard
	exportRoutes := apiV1.Group("/storyboards/:storyboardId/exports")
	exportRoutes.Post("/:kind", h.StartExport)
	exportRoutes.Get("/:kind", h.ExportStatus)
	exportRoutes.Get("/:kind/download", h.DownloadExport)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	log.Infof("Starting content studio on port %s...", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		// Not fatal: the runner and sessions below still need their teardown.
		log.Errorf("Server stopped: %v", err)
	}

	exports.Stop()
	sessions.CloseAll()
}
