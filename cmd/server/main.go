package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/eventhub-api/internal/auth"
	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/database"
	"github.com/gdg-garage/eventhub-api/internal/handlers"
	"github.com/gdg-garage/eventhub-api/internal/i18n"
	"github.com/gdg-garage/eventhub-api/internal/logging"
	"github.com/gdg-garage/eventhub-api/internal/notifier"
	"github.com/gdg-garage/eventhub-api/internal/registration"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()
	if cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn(ctx, "JWT_SECRET is not set, using the development secret")
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error(ctx, "failed to migrate database", "error", err)
		os.Exit(1)
	}

	translator := i18n.NewTranslator(cfg.DefaultLocale)

	var n notifier.Notifier
	if dn, err := notifier.NewDiscordNotifier(cfg); err != nil {
		logger.Info(ctx, "discord notifier not initialized", "reason", err)
	} else {
		n = dn
	}

	authHandler := auth.NewHandler(cfg, db, logger, translator)
	svc := registration.NewService(db, logger, n)

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, handlers.Deps{DB: db, Log: logger, Translator: translator}, authHandler, svc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "starting server", "port", cfg.Port, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
	}
}
