package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/tubetext/tubetext/pkg/validator"

	"github.com/tubetext/tubetext/internal/adapter/handler"
	"github.com/tubetext/tubetext/internal/adapter/repository"
	"github.com/tubetext/tubetext/internal/infrastructure/cache"
	"github.com/tubetext/tubetext/internal/infrastructure/database"
	"github.com/tubetext/tubetext/internal/infrastructure/external/captions"
	"github.com/tubetext/tubetext/internal/infrastructure/external/media"
	"github.com/tubetext/tubetext/internal/infrastructure/external/oauth"
	"github.com/tubetext/tubetext/internal/infrastructure/external/speech"
	"github.com/tubetext/tubetext/internal/usecase/auth"
	"github.com/tubetext/tubetext/internal/usecase/billing"
	"github.com/tubetext/tubetext/internal/usecase/transcript"
	"github.com/tubetext/tubetext/internal/usecase/translate"
	pkgai "github.com/tubetext/tubetext/pkg/ai"
	"github.com/tubetext/tubetext/pkg/config"
	"github.com/tubetext/tubetext/pkg/jwt"
	"github.com/tubetext/tubetext/pkg/usage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Set-Cookie", "Cookie"},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Apply migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate directly.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running migrations (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// State store: Redis when configured, in-memory otherwise
	var stateStore cache.Store
	if cfg.Redis.Host != "" {
		log.Println("📦 Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		stateStore = redisStore
	} else {
		log.Println("📦 Redis not configured, using in-memory state store")
		stateStore = cache.NewMemoryStore()
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// Initialize OAuth provider
	log.Println("🔐 Initializing OAuth provider...")
	googleProvider := oauth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)
	stateManager := oauth.NewStateManager(stateStore)

	// Initialize JWT manager and usage meter
	log.Println("🔑 Initializing token managers...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	meter := usage.NewMeter(cfg.Usage.Secret, cfg.Usage.FreeLimit, cfg.Usage.Window)

	// Initialize OAuth service and auth handler
	oauthService := auth.NewOAuthService(userRepo, googleProvider, stateManager, jwtManager)
	authHandler := handler.NewAuth(oauthService, cfg.Server.FrontendURL, logger)

	// Initialize transcript pipeline
	log.Println("🎬 Initializing transcript pipeline...")
	captionsClient := captions.NewClient(&cfg.Captions)
	downloader := media.NewDownloader(&cfg.Downloader)
	transcriber := speech.NewTranscriber(&cfg.Assembly, downloader)
	resolver := transcript.NewResolver(captionsClient, transcriber, logger)
	if cfg.Assembly.APIKey == "" {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set, audio fallback disabled")
	}

	// Initialize translation relay
	log.Println("🌐 Initializing translation relay...")
	cerebrasClient := pkgai.NewCerebrasClient(&cfg.Cerebras)
	relay := translate.NewRelay(cerebrasClient, logger)

	videoHandler := handler.NewVideo(resolver, meter, relay, cerebrasClient, logger)

	// Initialize billing
	log.Println("💳 Initializing billing...")
	billingService := billing.NewService(userRepo, subRepo, &cfg.Stripe, cfg.Server.FrontendURL, logger)
	paymentHandler := handler.NewPayment(billingService, logger)
	if cfg.Stripe.SecretKey == "" {
		log.Println("⚠️  STRIPE_SECRET_KEY not set, payments disabled")
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, videoHandler, authHandler, paymentHandler, oauthService)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
