package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/companionhq/companion-backend/internal/api"
	"github.com/companionhq/companion-backend/internal/config"
	"github.com/companionhq/companion-backend/internal/core"
	"github.com/companionhq/companion-backend/internal/media"
	"github.com/companionhq/companion-backend/internal/store"
	"github.com/companionhq/companion-backend/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("configuration error", zap.Error(err))
	}

	var logger *zap.Logger
	if cfg.Production() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbStore, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer dbStore.Close()

	ctx := context.Background()

	llm, err := core.NewLLMService(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		logger.Fatal("failed to initialize llm client", zap.Error(err))
	}
	defer llm.Close()

	// Media and speech are optional; endpoints that need them report the
	// gap at request time instead of blocking startup.
	var uploader media.Uploader
	if cfg.CloudinaryCloudName != "" {
		up, err := media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Fatal("failed to initialize cloudinary", zap.Error(err))
		}
		uploader = up
	} else {
		logger.Warn("cloudinary not configured, image uploads disabled")
	}

	synth, err := tts.NewGeminiSynthesizer(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Fatal("failed to initialize speech client", zap.Error(err))
	}

	thoughts := core.NewThoughtEnhancer(llm, logger)
	users := core.NewUserService(dbStore, logger)
	characters := core.NewCharacterService(dbStore, uploader, logger)
	chats := core.NewChatService(dbStore, llm, thoughts, logger)
	creative := core.NewCreativeService(llm)

	handler := api.NewHandler(users, characters, chats, creative, synth, logger)
	router := api.NewRouter(handler, logger, cfg.AuthJWTSecret)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // model calls can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
