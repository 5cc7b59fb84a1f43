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

	"github.com/Dosada05/clubhub/config"
	"github.com/Dosada05/clubhub/db"
	"github.com/Dosada05/clubhub/handlers"
	"github.com/Dosada05/clubhub/live"
	"github.com/Dosada05/clubhub/mail"
	"github.com/Dosada05/clubhub/metrics"
	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/repositories"
	api "github.com/Dosada05/clubhub/routes"
	"github.com/Dosada05/clubhub/services"
	"github.com/Dosada05/clubhub/storage"
	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply pending migrations before starting",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, logger, dbConn, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(dbConn, logger)

	if c.Bool("migrate") {
		group, err := db.MigrateUp(c.Context, dbConn)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", slog.String("group", group.String()))
	}

	// Инициализация хранилища файлов
	uploader, uploadsDir, err := newUploader(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageDriver, err)
	}
	logger.Info("file storage initialized", slog.String("driver", cfg.StorageDriver))

	sender, err := newMailSender(cfg, logger)
	if err != nil {
		return err
	}
	emailService, err := services.NewEmailService(sender, cfg.PublicURL)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	logger.Info("mail sender initialized", slog.String("driver", cfg.MailDriver))

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := live.NewHub(logger)
	go wsHub.Run(hubCtx)
	logger.Info("WebSocket Hub started")

	collectors := metrics.New()

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	enrollmentRepo := repositories.NewPostgresEnrollmentRepository(dbConn)
	newsRepo := repositories.NewPostgresNewsRepository(dbConn)
	badgeRepo := repositories.NewPostgresBadgeRepository(dbConn)
	forumRepo := repositories.NewPostgresForumRepository(dbConn)
	mediaRepo := repositories.NewPostgresMediaRepository(dbConn)
	menuRepo := repositories.NewPostgresMenuRepository(dbConn)
	calendarRepo := repositories.NewPostgresCalendarRepository(dbConn)
	transactor := repositories.NewTransactor(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	gate := services.NewAccessGate(clubRepo, membershipRepo)
	tokenService := services.NewTokenService(cfg.JWTSecretKey, cfg.SessionTTL)
	badgeService := services.NewBadgeService(badgeRepo, userRepo, membershipRepo, enrollmentRepo, wsHub, collectors, logger)
	authService := services.NewAuthService(userRepo, mediaRepo, badgeService, tokenService, emailService, uploader, logger)
	userService := services.NewUserService(userRepo, clubRepo, eventRepo, badgeRepo, uploader, collectors, logger)
	clubService := services.NewClubService(clubRepo, membershipRepo, eventRepo, mediaRepo, userRepo, transactor, gate, badgeService, uploader, logger)
	membershipService := services.NewMembershipService(clubRepo, membershipRepo, gate, badgeService, wsHub, logger)
	eventService := services.NewEventService(eventRepo, enrollmentRepo, newsRepo, clubRepo, transactor, gate, badgeService, wsHub, collectors, logger)
	newsService := services.NewNewsService(newsRepo, eventRepo, gate, wsHub, logger)
	forumService := services.NewForumService(forumRepo, gate, badgeService, wsHub, logger)
	mediaService := services.NewMediaService(mediaRepo, gate, uploader, wsHub, collectors, logger)
	menuService := services.NewMenuService(menuRepo)
	calendarService := services.NewCalendarService(calendarRepo)
	hubService := services.NewHubService(eventService, newsService, menuService, calendarService, badgeService, clubRepo)
	logger.Info("Services initialized")

	cookies := middleware.SessionCookies{Secure: cfg.CookieSecure}

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cookies),
		User:      handlers.NewUserHandler(userService, badgeService),
		Club:      handlers.NewClubHandler(clubService, membershipService),
		Event:     handlers.NewEventHandler(eventService),
		News:      handlers.NewNewsHandler(newsService),
		Forum:     handlers.NewForumHandler(forumService),
		Media:     handlers.NewMediaHandler(mediaService),
		Hub:       handlers.NewHubHandler(hubService, menuService, calendarService, badgeService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, gate, cfg.CORSAllowedOrigins, logger),
		Health:    handlers.HealthCheck(dbConn),
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, h, api.Options{
		Logger:         logger,
		Resolver:       authService,
		Cookies:        cookies,
		Gate:           gate,
		Metrics:        collectors,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthLimiter:    middleware.PerMinute(cfg.LoginRatePerMinute),
		UploadsDir:     uploadsDir,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownErr := server.Shutdown(shutdownCtx)
		// Hijacked websocket connections are not tracked by Shutdown; the hub
		// closes them once no new upgrades can arrive.
		stopHub()
		<-wsHub.Done()
		if shutdownErr != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
		}
		logger.Info("server shutdown complete")
	}
	return nil
}

// newUploader returns the configured blob store and, for local disk, the
// directory the router should serve under /uploads.
func newUploader(cfg *config.Config) (storage.FileUploader, string, error) {
	switch cfg.StorageDriver {
	case "r2":
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		return uploader, "", err
	case "s3":
		uploader, err := storage.NewS3Uploader(storage.S3UploaderConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			UsePathStyle:    cfg.S3Endpoint != "",
		})
		return uploader, "", err
	default:
		uploader, err := storage.NewLocalUploader(cfg.UploadDir, cfg.PublicURL+"/uploads")
		return uploader, cfg.UploadDir, err
	}
}

func newMailSender(cfg *config.Config, logger *slog.Logger) (mail.Sender, error) {
	switch cfg.MailDriver {
	case "smtp":
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		}), nil
	case "sendgrid":
		return mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromName, cfg.SMTPFrom), nil
	case "log":
		return mail.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}
