package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/user"

	"go.uber.org/zap"

	"portfoliocms/internal/app"
	"portfoliocms/internal/config"
	"portfoliocms/internal/logging"
)

var errNotOffsite = errors.New("artifact did not reach the offsite store")

// backup takes one snapshot (and optionally an export) from the command line,
// e.g. from a system cron job when the API's own schedule is not used.
func main() {
	withExport := flag.Bool("export", false, "also write a JSON export")
	requireOffsite := flag.Bool("offsite", false, "fail unless the artifacts reached the offsite store")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if err := run(cfg, logger, *withExport, *requireOffsite); err != nil {
		logger.Error("backup run failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, logger *zap.Logger, withExport, requireOffsite bool) error {
	if requireOffsite && !cfg.OffsiteEnabled() {
		return errors.New("-offsite given but OFFSITE_S3_BUCKET is not set")
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.Backup.CreateBackup(ctx, operator())
	if err != nil {
		return err
	}
	if requireOffsite && snap.OffsiteKey == "" {
		return errNotOffsite
	}
	if _, err := a.Backup.Rotate(ctx, cfg.KeepBackups); err != nil {
		return err
	}

	if withExport {
		res, err := a.Backup.Export(ctx)
		if err != nil {
			return err
		}
		if requireOffsite && res.OffsiteKey == "" {
			return errNotOffsite
		}
	}
	return nil
}

func operator() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "cli"
}
