package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/member-service/internal/api/http"
	"github.com/spec-kit/member-service/internal/api/http/handlers"
	"github.com/spec-kit/member-service/internal/auth"
	"github.com/spec-kit/member-service/internal/config"
	"github.com/spec-kit/member-service/internal/events"
	"github.com/spec-kit/member-service/internal/mail"
	"github.com/spec-kit/member-service/internal/observability"
	"github.com/spec-kit/member-service/internal/persistence"
	"github.com/spec-kit/member-service/internal/repository"
	"github.com/spec-kit/member-service/internal/service"
	"github.com/spec-kit/member-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	repos := repository.NewRepositories(pool)
	txManager := repository.NewTxManager(pool)

	tokens, err := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm,
		cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}

	var legacy *auth.LegacyCipher
	if cfg.Auth.EncryptionKey != "" {
		legacy, err = auth.NewLegacyCipher(cfg.Auth.EncryptionKey)
		if err != nil {
			logger.Fatal("invalid encryption key", zap.Error(err))
		}
	} else {
		logger.Warn("ENCRYPTION_KEY not set, legacy passwords cannot be verified")
	}
	passwords := auth.NewPasswordScheme(cfg.Auth.BcryptCost, legacy)

	dispatcher := events.NewInMemoryDispatcher(logger)

	renderer, err := mail.NewRenderer(cfg.Mail.AppName, cfg.Mail.CompleteRegistrationLink, cfg.Mail.WebsiteLink)
	if err != nil {
		logger.Fatal("failed to load mail templates", zap.Error(err))
	}
	outbox := mail.NewRedisOutbox(redis.Client, cfg.Mail.OutboxKey)
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:        cfg.Mail.SMTPHost,
		Port:        cfg.Mail.SMTPPort,
		FromEmail:   cfg.Mail.FromEmail,
		DefaultName: cfg.Mail.AdminName,
		Password:    cfg.Mail.SMTPPassword,
	})

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Repos:      repos,
		Tx:         txManager,
		Tokens:     tokens,
		Passwords:  passwords,
		Dispatcher: dispatcher,
		Logger:     logger.Named("auth"),
	})
	settingsService := service.NewSettingsService(service.SettingsDependencies{
		Repos:      repos,
		Tx:         txManager,
		Passwords:  passwords,
		Dispatcher: dispatcher,
		Logger:     logger.Named("settings"),
	})
	service.NewNotificationService(dispatcher, renderer, outbox, logger.Named("notification")).RegisterHandlers()

	var wg sync.WaitGroup
	mailWorker := worker.NewMailWorker(outbox, sender, logger.Named("mail"))
	wg.Add(1)
	go func() {
		defer wg.Done()
		mailWorker.Run(ctx)
	}()

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Account:        handlers.NewAccountHandler(authService, logger),
		Setting:        handlers.NewSettingHandler(settingsService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	wg.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
