package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"claims-intake/internal/records"
	"claims-intake/internal/services/health"
	"claims-intake/internal/shared/config"
	"claims-intake/internal/shared/server"
	"claims-intake/internal/shared/storage/db"
	"claims-intake/internal/shared/storage/object"
	localstore "claims-intake/internal/shared/storage/object/local"
	s3store "claims-intake/internal/shared/storage/object/s3"
	"claims-intake/internal/shared/web"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Repo           records.Repo
	Uploads        object.ObjectStore
	Exports        object.ObjectStore
	RecordsService *records.Service
	RecordsHandler *records.Handler
	Health         *health.Service
}

// Build opens and initializes the record store and wires the service,
// handlers and router. A store that cannot be opened or initialized fails
// the build.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	repo, sqlDB, err := BuildRepo(ctx, cfg, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}

	uploads, exports, err := buildStores(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Repo:    repo,
		Uploads: uploads,
		Exports: exports,
	}

	app.RecordsService = &records.Service{Uploads: app.Uploads, Repo: repo}
	app.RecordsHandler = records.NewHandler(app.RecordsService, app.Exports)
	app.Health = health.NewService(map[string]health.Check{
		"store": app.pingStore,
	})

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Templates:      web.Templates(),
		RecordsHandler: app.RecordsHandler,
		Health:         app.Health,
	})

	return app, nil
}

// BuildRepo opens the configured record store and runs Initialize on it. The
// returned *sql.DB is nil for the memory driver.
func BuildRepo(ctx context.Context, cfg config.Config, opts db.Options) (records.Repo, *sql.DB, error) {
	var (
		repo  records.Repo
		sqlDB *sql.DB
		err   error
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Printf("bootstrap: STORAGE_DRIVER=memory; records are lost on restart")
		repo = records.NewMemoryRepo()
	case config.StoragePostgres:
		sqlDB, err = db.Connect(ctx, db.DriverPostgres, cfg.DatabaseURL, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo = records.NewSQLRepo(sqlDB, records.DialectPostgres)
	default:
		sqlDB, err = db.OpenSQLite(ctx, cfg.SQLitePath, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		repo = records.NewSQLRepo(sqlDB, records.DialectSQLite)
	}

	if err := repo.Initialize(ctx); err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, nil, err
	}
	return repo, sqlDB, nil
}

// buildStores returns the upload and export stores. With OBJECT_STORE=s3
// both live in one bucket under "uploads" and "exports" beneath S3_PREFIX.
func buildStores(ctx context.Context, cfg config.Config) (object.ObjectStore, object.ObjectStore, error) {
	if cfg.ObjectStoreType != config.ObjectStoreS3 {
		return localstore.New(cfg.UploadDir), localstore.New(cfg.ExportDir), nil
	}
	uploads, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, path.Join(cfg.S3Prefix, "uploads"), cfg.SSEKMSKeyID)
	if err != nil {
		return nil, nil, fmt.Errorf("uploads store: %w", err)
	}
	exports, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, path.Join(cfg.S3Prefix, "exports"), cfg.SSEKMSKeyID)
	if err != nil {
		return nil, nil, fmt.Errorf("exports store: %w", err)
	}
	return uploads, exports, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func (a *App) pingStore(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.PingContext(ctx)
}
