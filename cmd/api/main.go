package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/llatino/my-laundry-bot/internal/api/router"
	"github.com/llatino/my-laundry-bot/internal/channels/line"
	appconfig "github.com/llatino/my-laundry-bot/internal/config"
	"github.com/llatino/my-laundry-bot/internal/conversation"
	"github.com/llatino/my-laundry-bot/internal/customers"
	"github.com/llatino/my-laundry-bot/internal/http/handlers"
	observemetrics "github.com/llatino/my-laundry-bot/internal/observability/metrics"
	"github.com/llatino/my-laundry-bot/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting laundry bot",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	creds, err := appconfig.ResolveCredentials(cfg)
	if err != nil {
		logger.Error("failed to resolve credentials", "error", err)
		os.Exit(1)
	}

	store, err := customers.NewStore(context.Background(), creds.ServiceAccountJSON,
		cfg.SheetsSpreadsheetName, cfg.SheetsSpreadsheetID, logger.WithComponent("customers"))
	if err != nil {
		logger.Error("failed to build record store", "error", err)
		os.Exit(1)
	}

	lineClient := line.NewClient(creds.LineChannelAccessToken)
	if cfg.LineAPIBase != "" {
		lineClient.SetAPIBase(cfg.LineAPIBase)
	}

	reg := prometheus.NewRegistry()
	webhookMetrics := observemetrics.NewWebhookMetrics(reg)

	responder := conversation.NewResponder(store, logger.WithComponent("conversation"))
	webhookHandler := handlers.NewLineWebhookHandler(handlers.LineWebhookConfig{
		ChannelSecret: creds.LineChannelSecret,
		Responder:     responder,
		Client:        lineClient,
		Logger:        logger.WithComponent("webhook"),
		Metrics:       webhookMetrics,
	})

	r := router.New(&router.Config{
		Logger:         logger,
		LineWebhook:    webhookHandler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
