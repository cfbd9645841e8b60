package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/analyzer"
	"idea-analyzer/internal/analyzer/httpclient"
	"idea-analyzer/internal/auth"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/inflight"
	"idea-analyzer/internal/report"
	"idea-analyzer/internal/runs"
	"idea-analyzer/internal/services/health"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/server"
	"idea-analyzer/internal/shared/storage/db"
	"idea-analyzer/internal/shared/storage/object"
	localstore "idea-analyzer/internal/shared/storage/object/local"
	miniostore "idea-analyzer/internal/shared/storage/object/minio"
	s3store "idea-analyzer/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Store       object.Store
	Guard       inflight.Guard
	Auth        auth.Service
	Analyzer    analyzer.Analyzer
	RunsRepo    runs.Repo
	IdeasRepo   ideas.Repo
	IdeasSvc    *ideas.Service
	IdeaHandler *ideas.Handler
	Health      *health.Service

	closers []func() error
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()
	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, app.closeWith(err)
	}
	if app.Guard, err = buildGuard(cfg, app); err != nil {
		return nil, app.closeWith(err)
	}
	if app.Auth, err = buildAuth(cfg); err != nil {
		return nil, app.closeWith(err)
	}
	client, err := httpclient.New(httpclient.Options{
		BaseURL:          cfg.AnalysisBaseURL,
		Timeout:          cfg.AnalysisTimeout,
		MaxResponseBytes: cfg.AnalysisMaxResponseBytes,
	})
	if err != nil {
		return nil, app.closeWith(err)
	}
	app.Analyzer = client

	if app.DB != nil {
		app.RunsRepo = &runs.PGRepo{DB: app.DB}
	} else {
		app.RunsRepo = runs.NewMemoryRepo()
	}
	app.IdeasRepo = ideas.NewMemoryRepo()

	app.IdeasSvc = &ideas.Service{
		Repo:     app.IdeasRepo,
		Analyzer: app.Analyzer,
		Guard:    app.Guard,
		Runs:     app.RunsRepo,
		Renderer: report.NewRenderer(),
		Store:    app.Store,
		Reports:  ideas.NewReportCache(cfg.ReportCacheTTL),
	}
	app.IdeaHandler = ideas.NewHandler(app.IdeasSvc)
	if app.IdeaHandler == nil {
		return nil, app.closeWith(errors.New("failed to initialize handlers"))
	}

	app.Health = buildHealth(app)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Auth:        app.Auth,
		IdeaHandler: app.IdeaHandler,
		Health:      app.Health,
	})

	log.Printf("bootstrap: env=%s auth=%s store=%s guard=%T runs=%T", cfg.Env, cfg.AuthProvider, cfg.ObjectStoreType, app.Guard, app.RunsRepo)
	return app, nil
}

// Close releases the database pool and the redis client.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) closeWith(err error) error {
	if cerr := a.Close(); cerr != nil {
		log.Printf("bootstrap: cleanup after failure: %v", cerr)
	}
	return err
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory run ledger")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if profile := db.CurrentProfile(); profile == db.ProfileLambda {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, db.PoolFor(profile))
	} else {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL, db.PoolFor(profile))
	}
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database unavailable; using in-memory run ledger: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		if strings.TrimSpace(cfg.MinioEndpoint) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=minio requires MINIO_ENDPOINT")
		}
		return miniostore.New(ctx, cfg.MinioEndpoint, cfg.MinioBucket, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func buildGuard(cfg config.Config, app *App) (inflight.Guard, error) {
	if cfg.RedisURL == "" {
		return inflight.NewMemoryGuard(), nil
	}
	g, err := inflight.NewRedisGuard(cfg.RedisURL, guardTTL(cfg.AnalysisTimeout))
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, g.Close)
	return g, nil
}

// guardTTL keeps a busy key alive for the longest analysis call plus a margin
// for normalizing and storing the result.
func guardTTL(analysisTimeout time.Duration) time.Duration {
	ttl := analysisTimeout + guardTTLMargin
	if ttl < inflight.DefaultTTL {
		return inflight.DefaultTTL
	}
	return ttl
}

const guardTTLMargin = 30 * time.Second

func buildAuth(cfg config.Config) (auth.Service, error) {
	if cfg.AuthProvider == "stub" {
		log.Printf("bootstrap: using stub auth with demo tokens")
		return auth.NewStubService(nil), nil
	}
	return auth.NewJWTService(cfg.JWTSecret, cfg.Env)
}

func buildHealth(app *App) *health.Service {
	svc := health.NewService()
	if app.DB != nil {
		svc.Register("database", app.DB.PingContext)
	}
	if g, ok := app.Guard.(*inflight.RedisGuard); ok {
		svc.Register("redis", func(ctx context.Context) error {
			return g.Client.Ping(ctx).Err()
		})
	}
	return svc
}
