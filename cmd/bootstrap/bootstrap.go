package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cureconnect/config"
	deliveryHttp "cureconnect/internal/delivery/http"
	"cureconnect/internal/delivery/http/handler"
	"cureconnect/internal/delivery/http/middleware"
	"cureconnect/internal/domain/entity"
	domainRepo "cureconnect/internal/domain/repository"
	"cureconnect/internal/infrastructure/cache"
	"cureconnect/internal/infrastructure/database"
	"cureconnect/internal/infrastructure/docstore"
	"cureconnect/internal/infrastructure/identity"
	"cureconnect/internal/infrastructure/media"
	"cureconnect/internal/repository"
	"cureconnect/internal/service"
	"cureconnect/internal/usecase"
	"cureconnect/pkg/jwt"
	"cureconnect/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Store       domainRepo.DocumentStore
	Server      *http.Server
	Reconciler  *service.SignupReconciler

	identity    domainRepo.IdentityProvider
	userRepo    domainRepo.UserRepository
	profileRepo domainRepo.ProfileRepository
	tokenRepo   domainRepo.TokenRepository
	audit       service.AuditService
	authUsecase usecase.AuthUsecase
}

// NewCore connects storage and builds repositories and the reconciler. It
// is enough for the reconcile command.
func NewCore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	if err := app.connectStorage(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.userRepo = repository.NewUserRepository(app.Store)
	app.profileRepo = repository.NewProfileRepository(app.Store)
	app.audit = service.NewAuditService(log, repository.NewAuditLogRepository(app.Store))
	app.Reconciler = service.NewSignupReconciler(log, app.userRepo, app.profileRepo, app.audit)

	return app, nil
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app, err := NewCore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	uploader, err := newUploader(ctx, cfg, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Server = app.initializeServer(uploader)
	return app, nil
}

// NewMediaUsecase builds the picture flow for callers outside the HTTP
// server, such as the picture command.
func (app *App) NewMediaUsecase(ctx context.Context) (usecase.MediaUsecase, error) {
	uploader, err := newUploader(ctx, app.Config, app.Log)
	if err != nil {
		return nil, err
	}
	profileUsecase := usecase.NewProfileUsecase(app.Log, app.profileRepo, app.audit)
	return usecase.NewMediaUsecase(app.Log, uploader, profileUsecase), nil
}

// SessionFor resolves the role of userID from the users lookup.
func (app *App) SessionFor(ctx context.Context, userID string) (*entity.Session, error) {
	lookup, err := app.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return &entity.Session{UserID: userID, Email: lookup.Email, Role: lookup.Role}, nil
}

func (app *App) connectStorage(ctx context.Context) error {
	cfg, log := app.Config, app.Log

	switch cfg.Store.Driver {
	case "memory":
		// Single process only: accounts, tokens and documents live in memory.
		app.Store = docstore.NewMemoryStore()
		app.tokenRepo = repository.NewMemoryTokenRepository()
		app.identity = identity.NewMemoryProvider(identity.NewMemoryLimiter(cfg.Auth.MaxLoginAttempts, cfg.Auth.AttemptWindow))
		log.Warn("Using in-memory storage, data is lost on exit")
		return nil

	case "postgres", "mongo":
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	// Initialize database (accounts, and documents for the postgres driver)
	db, err := database.NewPostgresConnection(ctx, cfg.DB, cfg.App.Env, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	app.tokenRepo = repository.NewRedisTokenRepository(redisClient)

	limiter := identity.NewRedisLimiter(redisClient, cfg.Auth.MaxLoginAttempts, cfg.Auth.AttemptWindow)
	provider, err := identity.NewPasswordProvider(db, limiter, log)
	if err != nil {
		return err
	}
	app.identity = provider

	if cfg.Store.Driver == "mongo" {
		mdb, err := database.NewMongoConnection(ctx, cfg.Mongo, log)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		app.Store = docstore.NewMongoStore(mdb, log)
		log.Info("MongoDB connected successfully")
		return nil
	}

	store, err := docstore.NewPostgresStore(db, redisClient, log)
	if err != nil {
		return fmt.Errorf("failed to prepare document store: %w", err)
	}
	app.Store = store
	return nil
}

func newUploader(ctx context.Context, cfg *config.Config, log *logrus.Logger) (media.Uploader, error) {
	switch cfg.Media.Driver {
	case "s3":
		return media.NewS3Uploader(ctx, cfg.Media.S3)
	case "cloudinary":
		return media.NewCloudinaryUploader(cfg.Media.Cloudinary, log)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Media.Driver)
	}
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(uploader media.Uploader) *http.Server {
	cfg, log := app.Config, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize usecases
	app.authUsecase = usecase.NewAuthUsecase(log, app.identity, app.userRepo, app.profileRepo, app.tokenRepo, app.audit, jwtService)
	profileUsecase := usecase.NewProfileUsecase(log, app.profileRepo, app.audit)
	mediaUsecase := usecase.NewMediaUsecase(log, uploader, profileUsecase)
	directoryUsecase := usecase.NewDirectoryUsecase(log, app.profileRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(app.authUsecase, customValidator)
	profileHandler := handler.NewProfileHandler(log, profileUsecase, mediaUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(directoryUsecase)
	chatHandler := handler.NewChatHandler(customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtService, app.tokenRepo)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, profileHandler, doctorHandler, chatHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	if app.Config.Jobs.Enabled {
		if err := app.Reconciler.Start(app.Config.Jobs.ReconcileSchedule); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-errCh:
		runErr = fmt.Errorf("server failed: %w", err)
	}

	app.shutdown()
	return runErr
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Reconciler.Stop()

	// Let detached last-login writes finish
	if app.authUsecase != nil {
		app.authUsecase.Wait()
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (document store, database, redis)
func (app *App) Close() {
	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			app.Log.Warnf("Failed to close document store: %+v", err)
		}
	}

	// The postgres store closes the pool itself
	if _, ok := app.Store.(*docstore.PostgresStore); !ok && app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
