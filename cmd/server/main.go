package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shivarya/splitcash/internal/auth"
	"github.com/shivarya/splitcash/internal/config"
	"github.com/shivarya/splitcash/internal/handler"
	"github.com/shivarya/splitcash/internal/mail"
	"github.com/shivarya/splitcash/internal/metrics"
	"github.com/shivarya/splitcash/internal/service"
	"github.com/shivarya/splitcash/internal/storage/sqlite"
	"github.com/shivarya/splitcash/pkg/logging"
)

func main() {
	// Load .env for local development; production reads the environment.
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()
	if cfg.JWT.Secret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "path", cfg.DB.Path)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	// Mail is optional: without a broker URL invitations and welcomes are
	// simply not sent.
	var mailer mail.Publisher
	if cfg.AMQP.URL != "" {
		client, err := mail.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			slog.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		mailer = client
		slog.Info("Mail queue connected", "exchange", cfg.AMQP.Exchange, "queue", cfg.AMQP.Queue)
	} else {
		slog.Info("Mail disabled - no AMQP_URL provided")
	}

	jwt := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	password := auth.NewPasswordAuthenticator(store)

	var google service.GoogleTokenVerifier
	if cfg.Google.ClientID != "" {
		google = auth.NewGoogleVerifier(cfg.Google.ClientID)
	} else {
		slog.Info("Google sign-in disabled - no GOOGLE_CLIENT_ID provided")
	}

	h := handler.NewHandler(
		service.NewAuthService(store, jwt, password, google, mailer),
		service.NewGroupService(store, mailer, cfg.Server.AppURL),
		service.NewExpenseService(store),
		service.NewBalanceService(store),
	)
	router := handler.SetupRouter(h, jwt, metrics.New())

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
