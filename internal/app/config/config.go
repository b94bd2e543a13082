// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config is the root configuration of the server and the migrate command.
type Config struct {
	Env       string
	HTTPAddr  string
	Store     StoreConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cart      CartConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
	Admin     AdminConfig
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Driver         string
	SQLitePath     string
	RunMigrations  bool
	ConnectTimeout time.Duration
	MongoURI       string
	MongoDatabase  string
}

// RedisConfig configures the optional product cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	CacheTTL time.Duration
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr is host:port for the Redis client.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// CartConfig bounds the cart transactions.
type CartConfig struct {
	TxMaxAttempts int
	TxTimeout     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type TelemetryConfig struct {
	Exporter     string
	OTLPEndpoint string
	ServiceName  string
}

// AdminConfig is the bootstrap administrator created by the migrate command.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// IsDevelopment reports whether internal error details may be sent to clients.
func (c Config) IsDevelopment() bool { return c.Env == "development" }

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg := LoadConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFromEnv reads the configuration from the environment, applying defaults.
func LoadConfigFromEnv() Config {
	return Config{
		Env:      getEnv("APP_ENV", "production"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
			SQLitePath:     getEnv("SQLITE_PATH", "shop.db"),
			RunMigrations:  getBool("RUN_MIGRATIONS", false),
			ConnectTimeout: getDuration("DB_CONNECT_TIMEOUT", 60*time.Second),
			MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			MongoDatabase:  getEnv("MONGO_DATABASE", "shop"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			CacheTTL: getDuration("CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			Expiration: getDuration("JWT_EXPIRATION", 30*24*time.Hour),
		},
		Cart: CartConfig{
			TxMaxAttempts: getInt("CART_TX_MAX_ATTEMPTS", 5),
			TxTimeout:     getDuration("CART_TX_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloat("AUTH_RATE_LIMIT_RPS", 1),
			Burst: getInt("AUTH_RATE_LIMIT_BURST", 5),
		},
		Telemetry: TelemetryConfig{
			Exporter:     strings.ToLower(getEnv("OTEL_EXPORTER", "none")),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "shop-backend"),
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Cart.TxMaxAttempts < 1 {
		return fmt.Errorf("CART_TX_MAX_ATTEMPTS must be at least 1, got %d", c.Cart.TxMaxAttempts)
	}
	switch c.Telemetry.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported OTEL_EXPORTER %q", c.Telemetry.Exporter)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return def
}

func getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

func getList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
