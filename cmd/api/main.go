package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/corfutbolocanero/roster-service/config"
	"github.com/corfutbolocanero/roster-service/db"
	"github.com/corfutbolocanero/roster-service/driveurl"
	"github.com/corfutbolocanero/roster-service/handlers"
	"github.com/corfutbolocanero/roster-service/realtime"
	"github.com/corfutbolocanero/roster-service/repositories"
	api "github.com/corfutbolocanero/roster-service/routes"
	"github.com/corfutbolocanero/roster-service/services"
	"github.com/corfutbolocanero/roster-service/session"
	"github.com/corfutbolocanero/roster-service/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	logosUploader, err := storage.NewS3Uploader(storage.S3UploaderConfig{
		Endpoint:        cfg.StorageEndpoint,
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
		Region:          cfg.StorageRegion,
		BucketName:      cfg.LogosBucket,
		PublicBaseURL:   cfg.PublicBaseURL + "/" + cfg.LogosBucket,
	})
	if err != nil {
		logger.Error("failed to initialize logos uploader", slog.Any("error", err))
		os.Exit(1)
	}
	playersUploader, err := storage.NewS3Uploader(storage.S3UploaderConfig{
		Endpoint:        cfg.StorageEndpoint,
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
		Region:          cfg.StorageRegion,
		BucketName:      cfg.PlayersBucket,
		PublicBaseURL:   cfg.PublicBaseURL + "/" + cfg.PlayersBucket,
	})
	if err != nil {
		logger.Error("failed to initialize players uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("storage uploaders initialized",
		slog.String("logos_bucket", cfg.LogosBucket),
		slog.String("players_bucket", cfg.PlayersBucket))

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("realtime hub started")

	sessions := session.NewStore()
	defer sessions.Close()
	go func() {
		sub := sessions.Subscribe()
		defer sub.Cancel()
		for ev := range sub.C {
			payload := map[string]interface{}{"event": string(ev.Type), "at": ev.At}
			if ev.User != nil {
				payload["user_id"] = ev.User.ID
			}
			hub.Broadcast(realtime.Message{Type: realtime.MessageSessionEvent, Payload: payload})
		}
	}()
	// El backend arranca sin sesión vigente.
	sessions.Initialize(nil)

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	schoolRepo := repositories.NewPostgresSchoolRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	categoryRepo := repositories.NewPostgresCategoryRepository(dbConn)
	locationRepo := repositories.NewPostgresLocationRepository(dbConn)
	logger.Info("repositories initialized")

	// La columna system_password puede no existir en despliegues viejos.
	systemPasswordSupported, err := userRepo.SupportsSystemPassword(context.Background())
	if err != nil {
		logger.Warn("failed to check system_password column", slog.Any("error", err))
	} else if systemPasswordSupported {
		logger.Info("system_password column detected")
	} else {
		logger.Info("system_password column not present, plaintext mirror disabled")
	}

	logoResolver := services.NewLogoResolver(cfg.CorporationLogoURL)
	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	adminService := services.NewAdminService(userRepo, schoolRepo, playerRepo, systemPasswordSupported)
	schoolService := services.NewSchoolService(schoolRepo, logosUploader, logger)
	playerService := services.NewPlayerService(playerRepo, userRepo, playersUploader, logger)
	importService := services.NewImportService(playerService, categoryRepo, schoolRepo, userRepo)
	certificateService := services.NewCertificateService(playerService, logoResolver, logger)
	lookupService := services.NewLookupService(categoryRepo, locationRepo)
	logoSyncService := services.NewLogoSyncService(schoolRepo, logosUploader)
	logger.Info("services initialized")

	fetcher := driveurl.NewFetcher(15 * time.Second)

	authHandler := handlers.NewAuthHandler(authService, sessions, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(adminService)
	schoolHandler := handlers.NewSchoolHandler(schoolService, hub)
	playerHandler := handlers.NewPlayerHandler(playerService, fetcher, hub)
	importHandler := handlers.NewImportHandler(importService, hub)
	certificateHandler := handlers.NewCertificateHandler(certificateService)
	lookupHandler := handlers.NewLookupHandler(lookupService)
	logoSyncHandler := handlers.NewLogoSyncHandler(logoSyncService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, userRepo, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		schoolHandler,
		playerHandler,
		importHandler,
		certificateHandler,
		lookupHandler,
		logoSyncHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
