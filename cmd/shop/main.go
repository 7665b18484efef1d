package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/internal/cache"
	"github.com/fjod/go_cart/internal/cart"
	"github.com/fjod/go_cart/internal/config"
	"github.com/fjod/go_cart/internal/discount"
	h "github.com/fjod/go_cart/internal/http"
	"github.com/fjod/go_cart/internal/logger"
	"github.com/fjod/go_cart/internal/publisher"
	"github.com/fjod/go_cart/internal/repository"
	"github.com/fjod/go_cart/internal/service"
	"github.com/fjod/go_cart/internal/store"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open catalog database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	ledger := store.NewMemoryStore()
	products, err := repository.LoadCatalog(context.Background(), repo, ledger)
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", len(products.List())))

	var receipts cache.ReceiptCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, receipts will be cached once it recovers", zap.Error(err))
		}
		cancel()
		receipts = cache.NewRedisCache(client, cfg.ReceiptTTL)
	}

	var events service.ReceiptPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := publisher.NewKafkaPublisher(log, cfg.ReceiptTopic, cfg.KafkaBrokers...)
		defer kp.Close()
		events = kp
		log.Info("publishing receipts", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.ReceiptTopic))
	}

	engine := service.NewCheckoutEngine(products, ledger, discount.Policy{}, events, log)

	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(products, ledger, log),
		Carts:    h.NewCartHandler(cart.NewRegistry(ledger), products, engine, receipts, log, cfg.RequestTimeout, cfg.MaxRequestBodySize),
		Receipts: h.NewReceiptHandler(receipts, log, cfg.RequestTimeout),
	}, log, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "shop"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("shop starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
