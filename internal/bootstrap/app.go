package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/accounts"
	"unishare-backend/internal/files"
	"unishare-backend/internal/institutions"
	"unishare-backend/internal/shared/auth"
	"unishare-backend/internal/shared/config"
	"unishare-backend/internal/shared/server"
	"unishare-backend/internal/shared/server/middleware"
	"unishare-backend/internal/shared/storage/db"
	"unishare-backend/internal/shared/storage/object"
	localstore "unishare-backend/internal/shared/storage/object/local"
	s3store "unishare-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Store               object.ObjectStore
	Tokens              *auth.TokenService
	InstitutionsRepo    institutions.Repo
	AccountsRepo        accounts.Repo
	FilesRepo           files.Repo
	InstitutionsService *institutions.Service
	AccountsService     *accounts.Service
	FilesService        *files.Service
	InstitutionsHandler *institutions.Handler
	AccountsHandler     *accounts.Handler
	FilesHandler        *files.Handler
}

// Build prepares all dependencies and the router. With no DATABASE_URL in a
// dev-like environment it falls back to in-memory repositories, which is also
// what the handler tests run against.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		Tokens:              app.Tokens,
		Identity:            app.AccountsService,
		InstitutionsHandler: app.InstitutionsHandler,
		AccountsHandler:     app.AccountsHandler,
		FilesHandler:        app.FilesHandler,
		Limiter:             middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.InstitutionsRepo = &institutions.PGRepo{DB: app.DB}
		app.AccountsRepo = &accounts.PGRepo{DB: app.DB}
		app.FilesRepo = &files.PGRepo{DB: app.DB}
	} else {
		app.InstitutionsRepo = institutions.NewMemoryRepo()
		app.AccountsRepo = accounts.NewMemoryRepo()
		app.FilesRepo = files.NewMemoryRepo()
	}

	app.InstitutionsService = institutions.NewService(app.InstitutionsRepo)
	app.AccountsService = accounts.NewService(app.AccountsRepo, app.InstitutionsRepo, app.Tokens)
	app.FilesService = files.NewService(app.FilesRepo, app.Store, app.AccountsRepo)

	app.InstitutionsHandler = institutions.NewHandler(app.InstitutionsService)
	app.AccountsHandler = accounts.NewHandler(app.AccountsService)
	app.FilesHandler = files.NewHandler(app.FilesService, app.Config.MaxUploadBytes)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
