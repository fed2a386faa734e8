package config

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	StoreMongo   = "mongo"
	StoreElastic = "elastic"

	defaultSearchHTTPAddr  = ":8081"
	defaultMongoDatabase   = "product-search"
	defaultMongoCollection = "products"
	defaultElasticIndex    = "products"
	defaultCacheTTL        = 10 * time.Minute
	defaultPollBatchSize   = 10
	defaultPollWait        = time.Second
	defaultIdleBackoff     = 5 * time.Second
	defaultErrorBackoff    = 10 * time.Second
)

type Search struct {
	RabbitMQURL        string
	HTTPAddr           string
	Store              string
	MongoURL           string
	MongoDatabase      string
	MongoCollection    string
	ElasticURL         string
	ElasticUsername    string
	ElasticPassword    string
	ElasticIndex       string
	RedisAddr          string
	RedisPassword      string
	CacheTTL           time.Duration
	PollBatchSize      int
	PollWait           time.Duration
	IdleBackoff        time.Duration
	ErrorBackoff       time.Duration
	CORSAllowedOrigins []string
	LogLevel           slog.Level
	ShutdownTimeout    time.Duration
	ReadHeaderTimeout  time.Duration
}

func LoadSearch() (Search, error) {
	cfg := Search{
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		HTTPAddr:           getEnv("HTTP_ADDR", defaultSearchHTTPAddr),
		Store:              getEnv("SEARCH_STORE", StoreMongo),
		MongoURL:           getEnv("MONGO_URL", ""),
		MongoDatabase:      getEnv("MONGO_DATABASE", defaultMongoDatabase),
		MongoCollection:    getEnv("MONGO_COLLECTION", defaultMongoCollection),
		ElasticURL:         getEnv("ELASTIC_URL", ""),
		ElasticUsername:    getEnv("ELASTIC_USERNAME", ""),
		ElasticPassword:    getEnv("ELASTIC_PASSWORD", ""),
		ElasticIndex:       getEnv("ELASTIC_INDEX", defaultElasticIndex),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.RabbitMQURL == "" {
		return Search{}, fmt.Errorf("RABBITMQ_URL is required")
	}
	switch cfg.Store {
	case StoreMongo:
		if cfg.MongoURL == "" {
			return Search{}, fmt.Errorf("MONGO_URL is required")
		}
	case StoreElastic:
		if cfg.ElasticURL == "" {
			return Search{}, fmt.Errorf("ELASTIC_URL is required")
		}
	default:
		return Search{}, fmt.Errorf("SEARCH_STORE must be %q or %q, got %q", StoreMongo, StoreElastic, cfg.Store)
	}

	var err error
	if cfg.LogLevel, err = getLogLevel(); err != nil {
		return Search{}, err
	}
	if cfg.CacheTTL, err = getEnvDuration("CACHE_TTL", defaultCacheTTL); err != nil {
		return Search{}, err
	}
	if cfg.PollBatchSize, err = getEnvInt("POLL_BATCH_SIZE", defaultPollBatchSize); err != nil {
		return Search{}, err
	}
	if cfg.PollWait, err = getEnvDuration("POLL_WAIT", defaultPollWait); err != nil {
		return Search{}, err
	}
	if cfg.IdleBackoff, err = getEnvDuration("IDLE_BACKOFF", defaultIdleBackoff); err != nil {
		return Search{}, err
	}
	if cfg.ErrorBackoff, err = getEnvDuration("ERROR_BACKOFF", defaultErrorBackoff); err != nil {
		return Search{}, err
	}
	if cfg.ReadHeaderTimeout, err = getEnvDuration("HTTP_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout); err != nil {
		return Search{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Search{}, err
	}

	return cfg, nil
}
