package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/escolar/internal/app/auth"
	appControllers "github.com/yigit/escolar/internal/app/controllers"
	appMigrations "github.com/yigit/escolar/internal/app/migrations"
	appRepos "github.com/yigit/escolar/internal/app/repositories"
	appRoutes "github.com/yigit/escolar/internal/app/routes"
	appServices "github.com/yigit/escolar/internal/app/services"
	"github.com/yigit/escolar/internal/config"
	"github.com/yigit/escolar/internal/db"
	appMiddleware "github.com/yigit/escolar/internal/middleware"
	"github.com/yigit/escolar/internal/pkg/auditgap"
	pkgAuth "github.com/yigit/escolar/internal/pkg/auth"
	"github.com/yigit/escolar/internal/pkg/filestorage"
	"github.com/yigit/escolar/internal/pkg/logger"
	"github.com/yigit/escolar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	StudentService    *appServices.StudentService
	EnrollmentService *appServices.EnrollmentService
	HistoryService    *appServices.HistoryService
	CourseService     *appServices.CourseService
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Controllers       appRoutes.Controllers
	Redis             *redis.Client // nil unless gap tracking in Redis is enabled
	LocalStorage      *filestorage.LocalStorage
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) != "json",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// setupAuditGaps always logs gaps and also keeps them in Redis when enabled.
// The returned lister is nil without Redis.
func setupAuditGaps(cfg *config.Config, lgr zerolog.Logger) (auditgap.Reporter, auditgap.Lister, *redis.Client, error) {
	logReporter := auditgap.NewLogReporter(lgr)
	if !cfg.Redis.Enabled {
		return logReporter, nil, nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Str("key", cfg.Redis.GapKey).Msg("Audit gaps tracked in Redis")

	redisReporter := auditgap.NewRedisReporter(client, cfg.Redis.GapKey, lgr)
	return auditgap.Multi{logReporter, redisReporter}, redisReporter, client, nil
}

// setupDocumentStorage picks the local disk or an S3-compatible bucket
func setupDocumentStorage(cfg *config.Config) (filestorage.DocumentStorage, *filestorage.LocalStorage, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case config.StorageDriverS3:
		s3Storage, err := filestorage.NewS3Storage(filestorage.S3Config{
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3Storage, nil, nil
	default:
		local, err := filestorage.NewLocalStorage(cfg.Storage.Path, cfg.PublicBaseURL())
		if err != nil {
			return nil, nil, err
		}
		return local, local, nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.RoleRepository)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := seed.BootstrapAdmin(ctx, cfg.Admin.BootstrapUserID, deps.AuthzService, lgr); err != nil {
		return nil, err
	}

	reporter, lister, redisClient, err := setupAuditGaps(cfg, lgr)
	if err != nil {
		return nil, err
	}
	deps.Redis = redisClient

	storage, local, err := setupDocumentStorage(cfg)
	if err != nil {
		deps.Close()
		lgr.Error().Err(err).Msg("Failed to initialize document storage")
		return nil, fmt.Errorf("failed to initialize document storage: %w", err)
	}
	deps.LocalStorage = local
	uploader := filestorage.NewDocumentUploader(storage, int64(cfg.Storage.MaxSizeMB)<<20)

	deps.wire(reporter, lister, uploader, database)

	return deps, nil
}

// wire builds the services, middleware and controllers on top of Repos, JWTService and AuthzService
func (d *Dependencies) wire(reporter auditgap.Reporter, lister auditgap.Lister, uploader appControllers.DocumentUploader, pinger appControllers.Pinger) {
	store := d.Repos.Store

	d.StudentService = appServices.NewStudentService(store, reporter)
	d.EnrollmentService = appServices.NewEnrollmentService(store)
	d.HistoryService = appServices.NewHistoryService(store.History(), lister)
	d.CourseService = appServices.NewCourseService(store, d.Repos.RoleRepository)

	d.AuthMiddleware = appMiddleware.NewAuthMiddleware(d.JWTService, d.AuthzService)

	d.Controllers = appRoutes.Controllers{
		Health:     appControllers.NewHealthController(pinger),
		Role:       appControllers.NewRoleController(d.AuthzService),
		Student:    appControllers.NewStudentController(d.StudentService),
		Document:   appControllers.NewDocumentController(uploader),
		History:    appControllers.NewHistoryController(d.HistoryService),
		Enrollment: appControllers.NewEnrollmentController(d.EnrollmentService),
		Course:     appControllers.NewCourseController(d.CourseService),
	}
}

// Close releases clients owned by the dependencies
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close redis client")
		}
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	router.MaxMultipartMemory = int64(cfg.Storage.MaxSizeMB) << 20

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	if deps.LocalStorage != nil {
		router.Static(filestorage.PublicPrefix, deps.LocalStorage.BasePath())
		lgr.Info().Str("path", deps.LocalStorage.BasePath()).Msg("Static file serving configured for documents")
	}

	return router
}
