package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"portfoliocms/internal/app"
	"portfoliocms/internal/config"
	"portfoliocms/internal/domain/content"
	"portfoliocms/internal/logging"
)

// seed creates the admin account and the page keys the console edits, without
// overwriting anything that already has a value.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	created, err := a.Auth.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("default admin", zap.Error(err))
	}
	if !created {
		logger.Info("admin already exists, left unchanged")
	}

	entries, err := a.Content.Entries(ctx)
	if err != nil {
		logger.Fatal("read content", zap.Error(err))
	}
	if len(entries) > 0 {
		logger.Info("content already present, skipping page defaults", zap.Int("entries", len(entries)))
		return
	}

	if err := a.Content.SaveHomepage(ctx, &content.Homepage{}); err != nil {
		logger.Fatal("seed homepage", zap.Error(err))
	}
	if err := a.Content.SavePortfolio(ctx, &content.Portfolio{}); err != nil {
		logger.Fatal("seed portfolio", zap.Error(err))
	}
	logger.Info("seed completed")
}
