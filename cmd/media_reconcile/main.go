package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"portfoliocms/internal/app"
	"portfoliocms/internal/config"
	"portfoliocms/internal/logging"
)

// media_reconcile lists upload files without a media record and records
// without a file. With -fix it removes both.
func main() {
	fix := flag.Bool("fix", false, "delete orphan files and dangling records")
	flag.Parse()

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

	rep, err := a.Media.Reconcile(ctx, *fix)
	if err != nil {
		logger.Fatal("reconcile failed", zap.Error(err))
	}

	for _, name := range rep.OrphanBlobs {
		logger.Info("orphan blob", zap.String("filename", name))
	}
	for _, asset := range rep.DanglingRecords {
		logger.Info("dangling record", zap.Uint("id", asset.ID), zap.String("filename", asset.Filename))
	}
	logger.Info("media reconcile completed",
		zap.Int("orphan_blobs", len(rep.OrphanBlobs)),
		zap.Int("dangling_records", len(rep.DanglingRecords)),
		zap.Int("removed", rep.Removed),
		zap.Bool("fix", *fix),
	)
}
