package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=change-me"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	SQLite  SQLiteConfig
}

type StorageConfig struct {
	Backend           string        `env:"STORAGE_BACKEND,    default=file"`
	Dir               string        `env:"STORAGE_DIR,        default=./data"`
	Debounce          time.Duration `env:"STORAGE_DEBOUNCE,   default=100ms"`
	SeedDemoData      bool          `env:"SEED_DEMO_DATA,     default=true"`
	CredentialBackend string        `env:"CREDENTIAL_BACKEND, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storage_tracker"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=storage-tracker:"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=./data/storage.db"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings that cannot be wired.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.Storage.CredentialBackend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("config: unknown CREDENTIAL_BACKEND %q", c.Storage.CredentialBackend)
	}
	if c.Storage.Debounce < 0 {
		return fmt.Errorf("config: STORAGE_DEBOUNCE must not be negative")
	}
	return nil
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
