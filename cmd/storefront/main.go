package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shopfront/internal/app"
	"shopfront/internal/config"
	"shopfront/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	requestTimeout, err := config.ParseRequestTimeout(cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("failed to parse request timeout: %v", err)
	}

	util.InitLogger(cfg.LogLevel)

	core, err := app.New(app.Config{
		APIBaseURL:     cfg.APIBaseURL,
		RequestTimeout: requestTimeout,
		SessionStore:   cfg.SessionStore,
		StateDir:       cfg.StateDir,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		DatabaseURL:    cfg.DatabaseURL,
		AMQPURL:        cfg.AMQPURL,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioBucket:    cfg.MinioBucket,
		MinioUseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("failed to init storefront core: %v", err)
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := core.Session.Hydrate(ctx); err != nil {
		slog.Warn("session hydrate failed, starting logged out", "err", err)
	}
	if user, ok := core.Session.User(); ok {
		slog.Info("session restored", "user", user.ID, "email", user.Email)
	} else {
		slog.Info("no stored session, starting logged out")
	}

	products, err := core.API.PublishedProducts(ctx)
	if err != nil {
		slog.Error("fetch published products", "err", err)
		return
	}
	slog.Info("catalog loaded", "products", len(products))

	if core.Images != nil {
		if err := core.Images.WarmProducts(ctx, products); err != nil {
			slog.Warn("thumbnail warmup incomplete", "err", err)
		} else {
			slog.Info("thumbnail cache warm", "products", len(products))
		}
	}
}
