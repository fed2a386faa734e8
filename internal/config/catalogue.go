package config

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultCatalogueHTTPAddr = ":8080"
	defaultMigrationsPath    = "migrations/catalogue"
	defaultShutdownTimeout   = 10 * time.Second

	defaultDBMaxOpenConns    = 25
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = 5 * time.Minute
	defaultDBPingTimeout     = 5 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
)

type Catalogue struct {
	DatabaseURL        string
	RabbitMQURL        string
	HTTPAddr           string
	MigrationsPath     string
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	ShutdownTimeout    time.Duration
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	DBPingTimeout      time.Duration
	ReadHeaderTimeout  time.Duration
}

func LoadCatalogue() (Catalogue, error) {
	cfg := Catalogue{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		HTTPAddr:           getEnv("HTTP_ADDR", defaultCatalogueHTTPAddr),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.DatabaseURL == "" {
		return Catalogue{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RabbitMQURL == "" {
		return Catalogue{}, fmt.Errorf("RABBITMQ_URL is required")
	}

	var err error
	if cfg.LogLevel, err = getLogLevel(); err != nil {
		return Catalogue{}, err
	}
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns); err != nil {
		return Catalogue{}, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", defaultDBMaxIdleConns); err != nil {
		return Catalogue{}, err
	}
	if cfg.DBMaxIdleConns > cfg.DBMaxOpenConns {
		return Catalogue{}, fmt.Errorf("DB_MAX_IDLE_CONNS (%d) can not exceed DB_MAX_OPEN_CONNS (%d)", cfg.DBMaxIdleConns, cfg.DBMaxOpenConns)
	}
	if cfg.DBConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", defaultDBConnMaxLifetime); err != nil {
		return Catalogue{}, err
	}
	if cfg.DBPingTimeout, err = getEnvDuration("DB_PING_TIMEOUT", defaultDBPingTimeout); err != nil {
		return Catalogue{}, err
	}
	if cfg.ReadHeaderTimeout, err = getEnvDuration("HTTP_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout); err != nil {
		return Catalogue{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Catalogue{}, err
	}

	return cfg, nil
}
