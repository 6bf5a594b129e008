package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/joyeria-diana-laura/backend/internal/config"
	"github.com/joyeria-diana-laura/backend/internal/emailcheck"
	"github.com/joyeria-diana-laura/backend/internal/handler"
	"github.com/joyeria-diana-laura/backend/internal/identity"
	"github.com/joyeria-diana-laura/backend/internal/logger"
	"github.com/joyeria-diana-laura/backend/internal/mailer"
	"github.com/joyeria-diana-laura/backend/internal/repository"
	"github.com/joyeria-diana-laura/backend/internal/usecase"
	"github.com/joyeria-diana-laura/backend/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.OpenPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer db.Close()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect mongodb client")
		}
	}()

	mongoDB := mongoClient.Database(cfg.Mongo.Database)

	userRepo := repository.NewUserPostgresRepository(db)
	profileRepo, err := repository.NewProfileMongoRepository(ctx, mongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize profile repository")
	}
	activityRepo, err := repository.NewActivityMongoRepository(ctx, mongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize activity repository")
	}

	credentials, err := identity.NewClient(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize identity client")
	}

	emailChecker := emailcheck.NewChecker(cfg.ZeroBounce.APIKey, cfg.ZeroBounce.BaseURL, log)

	var linkSender usecase.LinkSender
	if cfg.SMTP.Configured() {
		m, err := mailer.New(cfg.SMTP)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize mailer")
		}
		linkSender = m
		log.Info().Str("host", cfg.SMTP.Host).Msg("smtp mailer enabled")
	} else {
		log.Info().Msg("smtp not configured, link delivery left to the provider")
	}

	validator, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize validator")
	}

	authUsecase := usecase.NewAuthUsecase(
		userRepo, profileRepo, activityRepo, credentials, emailChecker, linkSender, cfg.FrontendURL, log)
	userUsecase := usecase.NewUserUsecase(userRepo)

	authHandler := handler.NewAuthHandler(authUsecase, emailChecker, validator, cfg.FrontendURL, log)
	usersHandler := handler.NewUsersHandler(userUsecase, validator, log)
	diagnosticsHandler := handler.NewDiagnosticsHandler(db, mongoClient, cfg.Environment, log)

	router := handler.NewRouter(authHandler, usersHandler, diagnosticsHandler, handler.RouterConfig{
		ZeroBounceConfigured: cfg.ZeroBounce.APIKey != "",
		SMTPConfigured:       cfg.SMTP.Configured(),
		FrontendURL:          cfg.FrontendURL,
	}, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTP.Port).Str("environment", cfg.Environment).Msg("http server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("server stopped")
}
