package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/shivarya/splitcash/internal/config"
	"github.com/shivarya/splitcash/internal/mail"
	"github.com/shivarya/splitcash/pkg/logging"
)

func main() {
	// Load .env for local development; production reads the environment.
	_ = godotenv.Load()

	logging.Setup()
	slog.Info("Starting mail-worker")

	cfg := config.Load()
	if cfg.AMQP.URL == "" {
		slog.Error("AMQP_URL is required")
		os.Exit(1)
	}
	if cfg.SMTP.Host == "" {
		slog.Error("SMTP_HOST is required")
		os.Exit(1)
	}

	client, err := mail.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		slog.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	sender := mail.NewSMTPSender(cfg.SMTP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := client.Consume(ctx, sender.Send); err != nil {
			if !errors.Is(err, context.Canceled) {
				slog.Error("Mail consumption failed", "error", err)
			}
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("Shutting down")
		cancel()
	case <-ctx.Done():
	}
}
