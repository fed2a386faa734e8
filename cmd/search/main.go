package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-catalogue/internal/config"
	"product-catalogue/internal/middleware"
	"product-catalogue/internal/products"
	"product-catalogue/internal/search/cache"
	searchhttp "product-catalogue/internal/search/http"
	"product-catalogue/internal/search/messaging"
	"product-catalogue/internal/search/projection"
	"product-catalogue/internal/search/repository"
	"product-catalogue/internal/search/service"

	_ "product-catalogue/docs/search"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// @title        Search API
// @version      1.0
// @description  Read-only product search fed by catalogue events.
// @host         localhost:8081
// @BasePath     /
func main() {
	_ = godotenv.Load()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	os.Exit(run(logger, level))
}

func run(logger *slog.Logger, level *slog.LevelVar) int {
	cfg, err := config.LoadSearch()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}
	level.Set(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("open read store", "store", cfg.Store, "error", err)
		return 1
	}
	defer closeStore()

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, cache reads will fall back to the store", "error", err)
		}
		store = cache.New(store, client, cfg.CacheTTL, logger)
		logger.Info("read cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("connect rabbitmq", "error", err)
		return 1
	}
	defer rabbitConn.Close()

	listener, err := messaging.NewRabbitListener(rabbitConn, products.EventsQueue, messaging.ListenerConfig{
		BatchSize: cfg.PollBatchSize,
		PollWait:  cfg.PollWait,
	})
	if err != nil {
		logger.Error("init listener", "error", err)
		return 1
	}
	defer listener.Close()

	metrics := projection.NewMetrics()
	prometheus.MustRegister(metrics.Messages)
	projector := projection.New(listener, store, logger, projection.Config{
		IdleBackoff:  cfg.IdleBackoff,
		ErrorBackoff: cfg.ErrorBackoff,
	}, metrics)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	searchhttp.RegisterRoutes(router, searchhttp.NewHandler(service.New(store, logger)), store)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	projectorDone := make(chan struct{})
	go func() {
		defer close(projectorDone)
		projector.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("search service started", "addr", cfg.HTTPAddr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
		exitCode = 1
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}

	select {
	case <-projectorDone:
	case <-shutdownCtx.Done():
		logger.Warn("projection shutdown timeout reached")
	}

	logger.Info("search service stopped")
	return exitCode
}

// openStore connects the configured read store and prepares its indexes.
func openStore(ctx context.Context, cfg config.Search) (cache.Store, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Store {
	case config.StoreElastic:
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.ElasticURL},
			Username:  cfg.ElasticUsername,
			Password:  cfg.ElasticPassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("elasticsearch client: %w", err)
		}
		repo := repository.NewElastic(client, cfg.ElasticIndex)
		if err := repo.EnsureIndex(connectCtx); err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	default:
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		repo := repository.NewMongo(client, cfg.MongoDatabase, cfg.MongoCollection)
		if err := repo.EnsureIndexes(connectCtx); err != nil {
			closeFn()
			return nil, nil, err
		}
		return repo, closeFn, nil
	}
}
