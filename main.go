package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/faceforge/faceforge/internal/config"
	"github.com/faceforge/faceforge/internal/entitlement"
	"github.com/faceforge/faceforge/internal/faces"
	"github.com/faceforge/faceforge/internal/keepalive"
	"github.com/faceforge/faceforge/internal/logger"
	"github.com/faceforge/faceforge/internal/storage"
	"github.com/faceforge/faceforge/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logger.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("faceforge is starting", map[string]interface{}{
		"log_level":    cfg.LogLevel,
		"has_database": cfg.HasDatabaseConfig(),
		"data_file":    cfg.DataFile,
	})

	store, err := buildStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Failed to initialize store: %v", err)
	}

	bot, err := telegram.NewBot(cfg)
	if err != nil {
		logger.Error("Failed to create Telegram bot", map[string]interface{}{
			"error": err.Error(),
		})
		log.Fatalf("Failed to create Telegram bot: %v", err)
	}

	engine := entitlement.NewEngine(store, faces.NewClient(cfg.FaceAPIURL), bot)
	bot.SetEngine(engine)

	server := keepalive.NewServer(cfg.Port)
	server.Start()
	defer server.Close()

	// Long polling blocks; stop the bot on SIGINT/SIGTERM
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		logger.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		bot.Stop()
	}()

	logger.InfoMsg("🎭 Ready to forge faces that don't exist!")

	if err := bot.Start(); err != nil {
		logger.Error("Bot error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func buildStore(cfg *config.Config) (entitlement.Store, error) {
	if cfg.HasDatabaseConfig() {
		return storage.NewPostgresStore(cfg.PostgreDSN)
	}
	return storage.NewFileStore(cfg.DataFile)
}
