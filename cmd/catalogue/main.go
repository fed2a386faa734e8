package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"product-catalogue/internal/config"
	"product-catalogue/internal/middleware"
	"product-catalogue/internal/products"
	cataloguehttp "product-catalogue/internal/products/http"
	"product-catalogue/internal/products/messaging"
	"product-catalogue/internal/products/repository"
	"product-catalogue/internal/products/service"

	_ "product-catalogue/docs/catalogue"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	migrateSourcePrefix = "file://"
	postgresDriverName  = "postgres"
)

// @title        Catalogue API
// @version      1.0
// @description  Product catalogue write service. Every committed change is published as a product event.
// @host         localhost:8080
// @BasePath     /
func main() {
	_ = godotenv.Load()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	os.Exit(run(logger, level))
}

func run(logger *slog.Logger, level *slog.LevelVar) int {
	cfg, err := config.LoadCatalogue()
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}
	level.Set(cfg.LogLevel)

	if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("run migrations", "error", err)
		return 1
	}

	db, err := sql.Open(postgresDriverName, cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", "error", err)
		return 1
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("ping database", "error", err)
		return 1
	}

	rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("connect rabbitmq", "error", err)
		return 1
	}
	defer rabbitConn.Close()

	publisher, err := messaging.NewRabbitPublisher(rabbitConn, products.EventsQueue)
	if err != nil {
		logger.Error("init publisher", "error", err)
		return 1
	}
	defer publisher.Close()

	counters := newCounters()
	repo := repository.NewPostgres(db)
	svc := service.New(repo, publisher, logger, counters)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	cataloguehttp.RegisterRoutes(router, cataloguehttp.NewHandler(svc), repo)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalogue service started", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return 1
	}
	logger.Info("catalogue service stopped")
	return 0
}

func newCounters() service.Counters {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}
	counters := service.Counters{
		Created:   counter("catalogue_products_created_total", "Total number of products created"),
		Updated:   counter("catalogue_products_updated_total", "Total number of products updated"),
		Deleted:   counter("catalogue_products_deleted_total", "Total number of products deleted"),
		Conflicts: counter("catalogue_update_conflicts_total", "Updates rejected by the version check or a duplicate"),
	}
	prometheus.MustRegister(counters.Created, counters.Updated, counters.Deleted, counters.Conflicts)
	return counters
}

func runMigrations(databaseURL, migrationsPath string) error {
	m, err := migrate.New(migrateSourcePrefix+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
