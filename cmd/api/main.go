package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iyanhz/gostore/internal/config"
	"github.com/iyanhz/gostore/internal/database"
	"github.com/iyanhz/gostore/internal/handlers"
	"github.com/iyanhz/gostore/internal/routes"
	"github.com/iyanhz/gostore/internal/store"
)

// overdueOrderAge is how long an unpaid order may sit before the
// background sweep cancels it and returns its stock.
const overdueOrderAge = 24 * time.Hour

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := config.Load()
	if cfg.JWT.Secret == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}

	logger := newLogger(cfg.Server.AppEnv)
	defer logger.Sync()

	// --- Database Connection ---
	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		Store: store.New(db),
		Cfg:   cfg,
		Log:   logger,
	}

	// --- Background Sweep: cancel overdue unpaid orders ---
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			cancelled, err := app.Store.CancelOverdueOrders(ctx, overdueOrderAge)
			cancel()
			if err != nil {
				logger.Error("overdue order sweep failed", zap.Error(err))
				continue
			}
			if cancelled > 0 {
				logger.Info("cancelled overdue orders", zap.Int("count", cancelled))
			}
		}
	}()

	router := routes.SetupRouter(app)

	logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger picks a zap preset for the runtime environment.
func newLogger(appEnv string) *zap.Logger {
	if appEnv == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}
