// Package app wires configuration, storage, services and the HTTP router of
// one console instance. Nothing here is global; tests build as many as they need.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"portfoliocms/internal/config"
	"portfoliocms/internal/database"
	"portfoliocms/internal/domain/auth"
	"portfoliocms/internal/domain/backup"
	"portfoliocms/internal/domain/casestudy"
	"portfoliocms/internal/domain/content"
	"portfoliocms/internal/domain/dashboard"
	"portfoliocms/internal/domain/media"
	"portfoliocms/internal/logging"
	"portfoliocms/internal/metrics"
	"portfoliocms/internal/middleware"
	"portfoliocms/internal/pkg/jwt"
	"portfoliocms/internal/pkg/response"
	"portfoliocms/internal/storage"
)

type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Registry
	JWT     *jwt.Service

	Auth        *auth.Service
	Content     *content.Service
	Media       *media.Service
	CaseStudies *casestudy.Service
	Backup      *backup.Service
	Dashboard   *dashboard.Service

	Router *gin.Engine
}

// Migrate creates or updates every table the console uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.Admin{},
		&content.Entry{},
		&media.Asset{},
		&casestudy.CaseStudy{},
	)
}

// New builds the application around an open database. The offsite store is
// only contacted when OFFSITE_S3_BUCKET is set.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*App, error) {
	log = logging.OrNop(log)
	a := &App{
		Config:  cfg,
		DB:      db,
		Log:     log,
		Metrics: metrics.New(),
		JWT:     jwt.New(cfg.JWTSecret, cfg.SessionTTL),
	}

	a.Auth = auth.NewService(auth.NewRepository(db), a.JWT, log.Named("auth"))
	a.Content = content.NewService(content.NewRepository(db), log.Named("content"), a.Metrics)
	a.Media = media.NewService(media.NewRepository(db), media.Options{
		BaseDir:     cfg.UploadDir,
		URLPrefix:   cfg.UploadURLPrefix,
		MaxFileSize: cfg.MaxUploadSize,
	}, log.Named("media"), a.Metrics)
	a.CaseStudies = casestudy.NewService(casestudy.NewRepository(db), log.Named("casestudy"))
	a.Dashboard = dashboard.NewService(a.CaseStudies, a.Media)

	a.Backup = backup.NewService(db, backup.Options{
		DatabaseURL: cfg.DatabaseURL,
		UploadDir:   cfg.UploadDir,
		BackupDir:   cfg.BackupDir,
		ExportDir:   cfg.ExportDir,
	}, backup.Sources{
		Content:     a.Content,
		CaseStudies: a.CaseStudies,
		Media:       a.Media,
	}, log.Named("backup"), a.Metrics)

	if cfg.OffsiteEnabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.OffsiteEndpoint,
			Region:    cfg.OffsiteRegion,
			Bucket:    cfg.OffsiteBucket,
			AccessKey: cfg.OffsiteAccessKey,
			SecretKey: cfg.OffsiteSecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("offsite store: %w", err)
		}
		a.Backup.WithOffsite(store)
	}

	a.Router = a.newRouter()
	return a, nil
}

// Open connects to DATABASE_URL, migrates it and builds the application.
// Close releases the database.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return New(ctx, cfg, db, log)
}

func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewScheduler returns the backup scheduler, or nil when BACKUP_SCHEDULE is empty.
func (a *App) NewScheduler() (*backup.Scheduler, error) {
	if a.Config.BackupSchedule == "" {
		return nil, nil
	}
	return backup.NewScheduler(a.Backup, a.Config.BackupSchedule, a.Config.KeepBackups, a.Log.Named("scheduler"))
}

func (a *App) newRouter() *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	exposeErrors := !a.Config.IsProduction()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(a.Log.Named("http")),
		middleware.Metrics(a.Metrics),
		middleware.CORS(a.Config.CORSAllowedOrigins),
		func(c *gin.Context) {
			c.Set(response.ExposeErrorsKey, exposeErrors)
			c.Next()
		},
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	// uploaded media is public, like the site that embeds it
	r.Static(a.Config.UploadURLPrefix, a.Config.UploadDir)

	gate := middleware.SessionGate(a.JWT)
	r.GET("/metrics", gate, gin.WrapH(a.Metrics.Handler()))

	api := r.Group("/api")
	authHandler := auth.NewHandler(a.Auth, a.Config.CookieSecure, int(a.Config.SessionTTL.Seconds()))
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(gate)
	{
		authHandler.RegisterProtectedRoutes(protected)
		content.NewHandler(a.Content).RegisterRoutes(protected)
		media.NewHandler(a.Media).RegisterRoutes(protected)
		casestudy.NewHandler(a.CaseStudies).RegisterRoutes(protected)
		backup.NewHandler(a.Backup, a.Config.KeepBackups).RegisterRoutes(protected)
		dashboard.NewHandler(a.Dashboard).RegisterRoutes(protected)
	}
	return r
}
