package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	HTTP         HTTPConfig
	Auth         AuthConfig
	Provisioning ProvisioningConfig
	Mongo        MongoConfig
	Redis        RedisConfig
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,  default=10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT, default=10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT,  default=60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,   default=10s"`
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET, required"`
	JWTIssuer          string        `env:"JWT_ISSUER, default=freelanza"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,  default=30m"`
	BcryptCost         int           `env:"BCRYPT_COST, default=10"`
	LoginRatePerMinute int           `env:"LOGIN_RATE_PER_MINUTE, default=5"`
}

// ProvisioningConfig sizes the background retry of failed profile creation.
type ProvisioningConfig struct {
	RetryWorkers  int           `env:"PROVISION_RETRY_WORKERS,  default=4"`
	RetryAttempts int           `env:"PROVISION_RETRY_ATTEMPTS, default=5"`
	RetryBackoff  time.Duration `env:"PROVISION_RETRY_BACKOFF,  default=1s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=freelanza"`
}

type RedisConfig struct {
	Addr               string        `env:"REDIS_ADDR, default=localhost:6379"`
	Password           string        `env:"REDIS_PASSWORD"`
	DB                 int           `env:"REDIS_DB,   default=0"`
	CredentialCacheTTL time.Duration `env:"CREDENTIAL_CACHE_TTL, default=5m"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, errors.Wrap(err, "config: failed to load configuration")
	}
	return &cfg, nil
}
