package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"

	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	DataBackend    string        `env:"DATA_BACKEND,    default=memory"`
	SessionBackend string        `env:"SESSION_BACKEND, default=memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL,     default=30m"`
	AuditWorkers   int           `env:"AUDIT_WORKERS,   default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	LLM   LLMConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=minibank"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LLMConfig struct {
	Provider string        `env:"LLM_PROVIDER,   default=gemini"`
	APIKey   string        `env:"GEMINI_API_KEY"`
	Model    string        `env:"GEMINI_MODEL,   default=gemini-1.5-pro"`
	Timeout  time.Duration `env:"LLM_TIMEOUT,    default=30s"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, nil)
}

// LoadWith is Load with overrides taking precedence over the environment.
func LoadWith(ctx context.Context, overrides map[string]string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.MultiLookuper(envconfig.MapLookuper(overrides), envconfig.OsLookuper()))
}

// LoadFrom resolves the configuration through l and validates it.
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

func (c *Config) Validate() error {
	switch c.DataBackend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("config: unknown DATA_BACKEND %q", c.DataBackend)
	}
	switch c.SessionBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	switch c.LLM.Provider {
	case ProviderOffline:
	case ProviderGemini:
		if c.LLM.APIKey == "" {
			return errors.New("config: GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
