package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"womart-storefront/clients"
	"womart-storefront/config"
	"womart-storefront/controllers"
	"womart-storefront/database"
	"womart-storefront/logger"
	"womart-storefront/middleware"
	awspkg "womart-storefront/pkg/aws"
	"womart-storefront/routes"
	"womart-storefront/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx := context.Background()

	// --- CloudWatch log shipping (non-fatal) ---
	var sinks []io.Writer
	if cfg.CloudWatchEnabled && cfg.CloudWatchLogGroup != "" {
		logsClient, err := awspkg.NewLogsClient(ctx, cfg.CloudWatchLogGroup, routes.ServiceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "CloudWatch logs disabled: %v\n", err)
		} else {
			sinks = append(sinks, logsClient)
		}
	}

	log, err := logger.New(cfg.Env, sinks...)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Storage ---
	storage, closeStorage, err := database.Open(ctx, database.Options{
		Backend:    cfg.CartStorage,
		SQLitePath: cfg.SQLitePath,
		RedisURL:   cfg.RedisURL,
		RedisTTL:   cfg.CartTTL,
	})
	if err != nil {
		log.Fatal("Cart storage init failed", zap.String("backend", cfg.CartStorage), zap.Error(err))
	}
	log.Info("Cart storage ready", zap.String("backend", cfg.CartStorage))

	// --- CloudWatch metrics (non-fatal) ---
	metricsClient, err := awspkg.NewMetricsClient(ctx, cfg.CloudWatchEnabled, cfg.CloudWatchNamespace)
	if err != nil {
		log.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
		metricsClient = nil
	}

	// --- Dependency injection ---
	api := clients.NewAPIClient(cfg.APIBaseURL, cfg.RequestTimeout)
	shoppers := services.NewShopperRegistry(database.NewCartRepository(storage), api, api, metricsClient, log)

	router := routes.NewRouter(routes.Dependencies{
		Logger:       log,
		Shoppers:     shoppers,
		Session:      controllers.NewSessionController(api, log),
		Cart:         controllers.NewCartController(api, log),
		CouponLimits: middleware.PerMinute(cfg.CouponRatePerMinute, cfg.CouponRateBurst),
		Metrics:      metricsClient,
		Cookie: middleware.SessionOptions{
			MaxAge:    int(cfg.CartTTL.Seconds()),
			Secure:    cfg.IsProduction(),
			JWTSecret: []byte(cfg.JWTSecret),
		},
		Timeout: cfg.RequestTimeout + 5*time.Second,
	})

	// --- Idle shopper sweeper ---
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.SessionIdleTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := shoppers.Sweep(cfg.SessionIdleTTL); n > 0 {
					log.Debug("Swept idle shoppers", zap.Int("count", n), zap.Int("remaining", shoppers.Len()))
				}
			}
		}
	}()

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Info("Storefront started", zap.String("port", cfg.Port), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	stopSweep()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := closeStorage(); err != nil {
		log.Error("Cart storage close error", zap.Error(err))
	}
	log.Info("Storefront stopped gracefully")
}
