package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

var configKeys = []string{
	"DATABASE_URL", "RABBITMQ_URL", "HTTP_ADDR", "MIGRATIONS_PATH", "CORS_ALLOWED_ORIGINS",
	"LOG_LEVEL", "DB_MAX_OPEN_CONNS", "SEARCH_STORE", "MONGO_URL", "MONGO_DATABASE",
	"MONGO_COLLECTION", "ELASTIC_URL", "ELASTIC_USERNAME", "ELASTIC_PASSWORD", "ELASTIC_INDEX",
	"REDIS_ADDR", "REDIS_PASSWORD", "CACHE_TTL", "POLL_BATCH_SIZE", "POLL_WAIT", "IDLE_BACKOFF",
	"ERROR_BACKOFF", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_PING_TIMEOUT",
	"HTTP_READ_HEADER_TIMEOUT", "SHUTDOWN_TIMEOUT",
}

func TestLoadCatalogue(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing DATABASE_URL",
			env:     map[string]string{"RABBITMQ_URL": "amqp://localhost"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "missing RABBITMQ_URL",
			env:     map[string]string{"DATABASE_URL": "postgres://localhost"},
			wantErr: "RABBITMQ_URL is required",
		},
		{
			name: "invalid LOG_LEVEL",
			env: map[string]string{
				"DATABASE_URL": "postgres://localhost/db",
				"RABBITMQ_URL": "amqp://localhost",
				"LOG_LEVEL":    "loud",
			},
			wantErr: `LOG_LEVEL: slog: level string "loud": unknown name`,
		},
		{
			name: "invalid DB_MAX_OPEN_CONNS",
			env: map[string]string{
				"DATABASE_URL":      "postgres://localhost/db",
				"RABBITMQ_URL":      "amqp://localhost",
				"DB_MAX_OPEN_CONNS": "-1",
			},
			wantErr: `DB_MAX_OPEN_CONNS must be a positive integer, got "-1"`,
		},
		{
			name: "idle pool larger than open pool",
			env: map[string]string{
				"DATABASE_URL":      "postgres://localhost/db",
				"RABBITMQ_URL":      "amqp://localhost",
				"DB_MAX_OPEN_CONNS": "4",
				"DB_MAX_IDLE_CONNS": "8",
			},
			wantErr: "DB_MAX_IDLE_CONNS (8) can not exceed DB_MAX_OPEN_CONNS (4)",
		},
		{
			name: "invalid SHUTDOWN_TIMEOUT",
			env: map[string]string{
				"DATABASE_URL":     "postgres://localhost/db",
				"RABBITMQ_URL":     "amqp://localhost",
				"SHUTDOWN_TIMEOUT": "0s",
			},
			wantErr: `SHUTDOWN_TIMEOUT must be a positive duration, got "0s"`,
		},
		{
			name: "valid config with defaults",
			env: map[string]string{
				"DATABASE_URL": "postgres://localhost/db",
				"RABBITMQ_URL": "amqp://localhost",
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"DATABASE_URL":         "postgres://localhost/db",
				"RABBITMQ_URL":         "amqp://localhost",
				"HTTP_ADDR":            ":9090",
				"CORS_ALLOWED_ORIGINS": "http://a.example, http://b.example",
				"LOG_LEVEL":            "debug",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadCatalogue()
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Fatalf("want error %q, got %q", tt.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tt.env["DATABASE_URL"] {
				t.Fatalf("want DatabaseURL %q, got %q", tt.env["DATABASE_URL"], cfg.DatabaseURL)
			}
			if addr, ok := tt.env["HTTP_ADDR"]; ok && cfg.HTTPAddr != addr {
				t.Fatalf("want HTTPAddr %q, got %q", addr, cfg.HTTPAddr)
			}
			if _, ok := tt.env["HTTP_ADDR"]; !ok && cfg.HTTPAddr != defaultCatalogueHTTPAddr {
				t.Fatalf("want default HTTPAddr %q, got %q", defaultCatalogueHTTPAddr, cfg.HTTPAddr)
			}
			if cfg.MigrationsPath != defaultMigrationsPath {
				t.Fatalf("want MigrationsPath %q, got %q", defaultMigrationsPath, cfg.MigrationsPath)
			}
			if _, ok := tt.env["CORS_ALLOWED_ORIGINS"]; ok && len(cfg.CORSAllowedOrigins) != 2 {
				t.Fatalf("want 2 origins, got %v", cfg.CORSAllowedOrigins)
			}
			if tt.env["LOG_LEVEL"] == "debug" && cfg.LogLevel != slog.LevelDebug {
				t.Fatalf("want debug level, got %v", cfg.LogLevel)
			}
			if cfg.DBMaxOpenConns != defaultDBMaxOpenConns {
				t.Fatalf("want DBMaxOpenConns %d, got %d", defaultDBMaxOpenConns, cfg.DBMaxOpenConns)
			}
			if cfg.ShutdownTimeout != defaultShutdownTimeout {
				t.Fatalf("want ShutdownTimeout %v, got %v", defaultShutdownTimeout, cfg.ShutdownTimeout)
			}
		})
	}
}

func TestLoadCatalogue_PoolAndTimeouts(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/db")
	t.Setenv("RABBITMQ_URL", "amqp://localhost")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	t.Setenv("DB_MAX_IDLE_CONNS", "10")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1m")
	t.Setenv("DB_PING_TIMEOUT", "2s")
	t.Setenv("HTTP_READ_HEADER_TIMEOUT", "3s")
	t.Setenv("SHUTDOWN_TIMEOUT", "20s")

	cfg, err := LoadCatalogue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBMaxOpenConns != 40 || cfg.DBMaxIdleConns != 10 {
		t.Fatalf("want pool 40/10, got %d/%d", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetime != time.Minute || cfg.DBPingTimeout != 2*time.Second {
		t.Fatalf("want lifetime 1m and ping 2s, got %v and %v", cfg.DBConnMaxLifetime, cfg.DBPingTimeout)
	}
	if cfg.ReadHeaderTimeout != 3*time.Second || cfg.ShutdownTimeout != 20*time.Second {
		t.Fatalf("want header 3s and shutdown 20s, got %v and %v", cfg.ReadHeaderTimeout, cfg.ShutdownTimeout)
	}
}

func TestLoadSearch(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, cfg Search)
	}{
		{
			name:    "missing RABBITMQ_URL",
			env:     map[string]string{},
			wantErr: "RABBITMQ_URL is required",
		},
		{
			name:    "mongo store needs MONGO_URL",
			env:     map[string]string{"RABBITMQ_URL": "amqp://localhost"},
			wantErr: "MONGO_URL is required",
		},
		{
			name:    "elastic store needs ELASTIC_URL",
			env:     map[string]string{"RABBITMQ_URL": "amqp://localhost", "SEARCH_STORE": "elastic"},
			wantErr: "ELASTIC_URL is required",
		},
		{
			name:    "unknown store",
			env:     map[string]string{"RABBITMQ_URL": "amqp://localhost", "SEARCH_STORE": "sqlite"},
			wantErr: `SEARCH_STORE must be "mongo" or "elastic", got "sqlite"`,
		},
		{
			name: "bad poll wait",
			env: map[string]string{
				"RABBITMQ_URL": "amqp://localhost",
				"MONGO_URL":    "mongodb://localhost",
				"POLL_WAIT":    "soon",
			},
			wantErr: `POLL_WAIT must be a positive duration, got "soon"`,
		},
		{
			name: "mongo defaults",
			env:  map[string]string{"RABBITMQ_URL": "amqp://localhost", "MONGO_URL": "mongodb://localhost"},
			check: func(t *testing.T, cfg Search) {
				if cfg.Store != StoreMongo || cfg.MongoDatabase != defaultMongoDatabase || cfg.MongoCollection != defaultMongoCollection {
					t.Fatalf("unexpected mongo settings: %+v", cfg)
				}
				if cfg.HTTPAddr != defaultSearchHTTPAddr {
					t.Fatalf("want HTTPAddr %q, got %q", defaultSearchHTTPAddr, cfg.HTTPAddr)
				}
				if cfg.IdleBackoff != 5*time.Second || cfg.ErrorBackoff != 10*time.Second {
					t.Fatalf("want 5s/10s backoff, got %v/%v", cfg.IdleBackoff, cfg.ErrorBackoff)
				}
				if cfg.PollBatchSize != defaultPollBatchSize || cfg.PollWait != defaultPollWait {
					t.Fatalf("unexpected poll settings: %d %v", cfg.PollBatchSize, cfg.PollWait)
				}
				if cfg.RedisAddr != "" || cfg.CacheTTL != defaultCacheTTL {
					t.Fatalf("unexpected cache settings: %q %v", cfg.RedisAddr, cfg.CacheTTL)
				}
			},
		},
		{
			name: "elastic with cache and tuned polling",
			env: map[string]string{
				"RABBITMQ_URL":     "amqp://localhost",
				"SEARCH_STORE":     "elastic",
				"ELASTIC_URL":      "http://localhost:9200",
				"REDIS_ADDR":       "localhost:6379",
				"CACHE_TTL":        "30s",
				"POLL_BATCH_SIZE":  "50",
				"IDLE_BACKOFF":     "1s",
				"SHUTDOWN_TIMEOUT": "30s",
			},
			check: func(t *testing.T, cfg Search) {
				if cfg.Store != StoreElastic || cfg.ElasticIndex != defaultElasticIndex {
					t.Fatalf("unexpected elastic settings: %+v", cfg)
				}
				if cfg.RedisAddr != "localhost:6379" || cfg.CacheTTL != 30*time.Second {
					t.Fatalf("unexpected cache settings: %q %v", cfg.RedisAddr, cfg.CacheTTL)
				}
				if cfg.PollBatchSize != 50 || cfg.IdleBackoff != time.Second {
					t.Fatalf("unexpected poll settings: %d %v", cfg.PollBatchSize, cfg.IdleBackoff)
				}
				if cfg.ShutdownTimeout != 30*time.Second || cfg.ReadHeaderTimeout != defaultReadHeaderTimeout {
					t.Fatalf("unexpected timeouts: %v %v", cfg.ShutdownTimeout, cfg.ReadHeaderTimeout)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadSearch()
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Fatalf("want error %q, got %q", tt.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if val, ok := os.LookupEnv(key); ok {
			t.Setenv(key, val)
		}
		os.Unsetenv(key)
	}
}
