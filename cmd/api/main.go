package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"venuebooking/config"
	"venuebooking/internal/adapters/auth"
	"venuebooking/internal/adapters/email"
	"venuebooking/internal/adapters/payment"
	"venuebooking/internal/adapters/storage"
	httpdelivery "venuebooking/internal/delivery/http"
	"venuebooking/internal/delivery/http/controllers"
	"venuebooking/internal/delivery/http/middleware"
	"venuebooking/internal/metrics"
	"venuebooking/internal/repository/postgres"
	"venuebooking/internal/services"
)

// contextTimeout bounds every service-level operation.
const contextTimeout = 10 * time.Second

// @title Venue Booking API
// @version 1.0
// @description REST API for booking venues and catering for events: venue catalog with availability and quotes, event booking with server-side pricing, simulated payments, and revenue analytics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	if cfg.AutoMigrate {
		if err := runMigrations(cfg); err != nil {
			logger.Error("failed to run migrations", "err", err)
			os.Exit(1)
		}
		logger.Info("migrations applied", "path", cfg.MigrationsPath)
	}

	// Adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	tokenExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	gateway := payment.NewSimulatedGateway(payment.Config{
		Delay:       time.Duration(cfg.PaymentGatewayDelayMS) * time.Millisecond,
		SuccessRate: cfg.PaymentSuccessRate,
	})

	fileStore := storage.NewS3Store(storage.S3Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	organizerRepo := postgres.NewOrganizerRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	mealRepo := postgres.NewMealRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Services
	pricer := services.NewPriceCalculator(cfg.TaxRatePercent, cfg.ServiceFeePercent)
	authService := services.NewAuthService(userRepo, hasher, issuer, tokenExpiry, contextTimeout)
	organizerService := services.NewOrganizerService(organizerRepo, hasher, issuer, tokenExpiry, contextTimeout)
	venueService := services.NewVenueService(venueRepo, mealRepo, eventRepo, pricer, contextTimeout)
	mealService := services.NewMealService(mealRepo, contextTimeout)
	bookingService := services.NewBookingService(eventRepo, venueRepo, mealRepo, paymentRepo, gateway, pricer, contextTimeout)
	emailService := services.NewEmailService(mailer, renderer)
	paymentService := services.NewPaymentService(paymentRepo, eventRepo, userRepo, venueRepo, gateway, emailService, logger, contextTimeout)
	analyticsService := services.NewAnalyticsService(analyticsRepo, contextTimeout)
	uploadService := services.NewUploadService(fileStore, contextTimeout)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	organizerController := controllers.NewOrganizerController(logger, organizerService)
	venueController := controllers.NewVenueController(logger, venueService)
	mealController := controllers.NewMealController(logger, mealService)
	eventController := controllers.NewEventController(logger, bookingService)
	paymentController := controllers.NewPaymentController(logger, paymentService, cfg.PaymentWebhookSecret)
	uploadController := controllers.NewUploadController(logger, uploadService)
	analyticsController := controllers.NewAnalyticsController(logger, analyticsService)

	mux := httpdelivery.NewRouter(
		logger,
		db,
		verifier,
		authController,
		organizerController,
		venueController,
		mealController,
		eventController,
		paymentController,
		uploadController,
		analyticsController,
	)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, metrics.InstrumentHandler(mux)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
