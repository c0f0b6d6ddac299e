package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-otp-auth"
	"github.com/goliatone/go-otp-auth/notifier"
	"github.com/goliatone/go-otp-auth/store/bunstore"
	"github.com/goliatone/go-otp-auth/store/jsonstore"
)

func main() {
	cfg := auth.ConfigFromEnv()

	logger := auth.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg),
	})))

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("error opening store: %v", err)
	}
	defer cleanup()

	auther := auth.NewAuther(store, buildNotifier(cfg, logger), auth.WithLogger(logger))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "auth service running"})
	})

	auth.RegisterAuthRoutes(app,
		auth.WithAuther(auther),
		auth.WithControllerLogger(logger),
		auth.WithControllerDebug(cfg.Debug),
	)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info("starting auth service", "addr", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func buildStore(cfg auth.Config) (auth.Store, func(), error) {
	if cfg.DatabaseDSN != "" {
		store, err := bunstore.Open(context.Background(), cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	return jsonstore.New(cfg.StorePath), func() {}, nil
}

func buildNotifier(cfg auth.Config, logger auth.Logger) auth.Notifier {
	if cfg.SMTPConfigured() {
		return notifier.NewSMTP(cfg)
	}

	logger.Warn("SMTP not configured, notifications will only be logged")
	return notifier.NewLog(logger)
}

func logLevel(cfg auth.Config) slog.Level {
	if cfg.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
