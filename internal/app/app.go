package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/scholarlink/internal/data/db"
	"github.com/yungbote/scholarlink/internal/data/repos"
	"github.com/yungbote/scholarlink/internal/data/seed"
	httpx "github.com/yungbote/scholarlink/internal/http"
	"github.com/yungbote/scholarlink/internal/observability"
	"github.com/yungbote/scholarlink/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services
	Clients  Clients

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// New builds the backend from the environment: database, repos, services, HTTP router.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	log = logger.OrNop(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.Open(log, db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	reposet := wireRepos(theDB, log)
	if cfg.SeedFile != "" {
		fixture, err := seed.Load(cfg.SeedFile)
		if err != nil {
			_ = dbService.Close()
			return nil, err
		}
		if _, err := seed.Apply(ctx, log, reposet, fixture); err != nil {
			_ = dbService.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	clients := wireClients(ctx, log, cfg)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, theDB, serviceset, clients)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, clients, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	srv := &httpx.Server{Engine: a.Router}
	return srv.Serve(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
