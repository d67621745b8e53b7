package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"taskboard/configs"
	"taskboard/internal/client"
	"taskboard/internal/middleware"
	"taskboard/internal/web"
	"taskboard/pkg/logger"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting web app", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()

	// Client API: semua persistensi lewat API remote, tidak ada
	// penyimpanan lokal selain cookie sesi
	api := client.New(cfg.APIBaseURL)

	handlers := &web.Handlers{
		Auth:    client.NewAuthService(api),
		Tasks:   client.NewTaskService(api),
		Render:  &web.Renderer{Dir: cfg.ViewsDir},
		Cookies: &web.CookieCodec{Key: cfg.SessionKey},
	}

	app := fiber.New()

	// Middleware
	app.Use(middleware.ErrorHandler())
	// limiter sekaligus meredam double-submit dari klik beruntun
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
	}))

	handlers.RegisterRoutes(app)

	logger.SystemLogger.Info("Web app ready", zap.Int("port", cfg.WebPort))
	if err := app.Listen(fmt.Sprintf(":%d", cfg.WebPort)); err != nil {
		logger.ErrorLogger.Error("Web app failed to start", zap.Error(err))
	}
}
