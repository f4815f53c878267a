package main

import (
	"context"
	"net/http"
	"os"

	"github.com/davidcastellanos/shopstream-backend/api/routes"
	"github.com/davidcastellanos/shopstream-backend/internal/cart"
	"github.com/davidcastellanos/shopstream-backend/internal/catalog"
	"github.com/davidcastellanos/shopstream-backend/internal/checkout"
	"github.com/davidcastellanos/shopstream-backend/internal/orders"
	"github.com/davidcastellanos/shopstream-backend/internal/pricing"
	"github.com/davidcastellanos/shopstream-backend/pkg/auth"
	"github.com/davidcastellanos/shopstream-backend/pkg/config"
	"github.com/davidcastellanos/shopstream-backend/pkg/logger"
	"github.com/davidcastellanos/shopstream-backend/pkg/metrics"
	"github.com/davidcastellanos/shopstream-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "shopstream"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shopstream",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cartMetrics := metrics.NewCartMetrics(registry)

	tokenSource := auth.NewTokenSource(cfg.Upstream)
	upstreamHTTP := &http.Client{
		Transport: &auth.Transport{Source: tokenSource},
	}

	catalogClient, err := catalog.NewClient(cfg.Catalog.BaseURL, catalog.WithHTTPClient(upstreamHTTP))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}
	ordersClient, err := orders.NewClient(cfg.Orders.BaseURL, orders.WithHTTPClient(upstreamHTTP))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders client", err)
		os.Exit(1)
	}

	manager, err := cart.NewManager(redisClient, cartMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(catalogClient, ordersClient, cfg.Checkout.OrderMaxItems, cartMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	flatShipping, err := decimal.NewFromString(cfg.Checkout.FlatShipping)
	if err != nil {
		logg.Error(context.Background(), "invalid flat shipping rate", err)
		os.Exit(1)
	}
	calc := pricing.NewCalculator(flatShipping)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			manager,
			catalogClient,
			ordersClient,
			checkoutService,
			calc,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
