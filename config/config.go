package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Key-value backends
const (
	KVMemory   = "memory"
	KVPostgres = "postgres"
	KVRedis    = "redis"
)

// Config holds the storefront configuration, read from the environment
type Config struct {
	Env      string `env:"ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Port     string `env:"PORT" env-default:"8080"`

	Postgres Postgres
	Redis    Redis
	Upstream Upstream
	Cart     Cart
	Handoff  Handoff
	Images   Images

	DefaultBusinessID string        `env:"DEFAULT_BUSINESS_ID" env-default:"18"`
	KVBackend         string        `env:"KV_BACKEND" env-default:"memory"`
	SessionCookie     string        `env:"SESSION_COOKIE" env-default:"ordrz_session"`
	SessionIdleTTL    time.Duration `env:"SESSION_IDLE_TTL" env-default:"2h"`
}

// Postgres holds the database settings; DATABASE_URL wins over the DB_* parts
type Postgres struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

// Redis holds the Redis connection settings
type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Upstream holds the remote APIs the storefront talks to
type Upstream struct {
	CartAPIBaseURL     string        `env:"CART_API_BASE_URL" env-default:"https://td0c8x9qb3.execute-api.us-east-1.amazonaws.com/prod/v1"`
	ProductsAPIURL     string        `env:"PRODUCTS_API_URL" env-default:"https://tossdown.com/api/products"`
	BranchesAPIBaseURL string        `env:"BRANCHES_API_BASE_URL" env-default:"https://d9gwfwdle3.execute-api.us-east-1.amazonaws.com/prod/v1"`
	ClientTimeout      time.Duration `env:"HTTP_CLIENT_TIMEOUT" env-default:"15s"`
	CatalogCacheTTL    time.Duration `env:"CATALOG_CACHE_TTL" env-default:"10m"`
}

// Cart holds the cart engine settings
type Cart struct {
	RollbackFailedAdds bool          `env:"CART_ROLLBACK_FAILED_ADDS" env-default:"false"`
	NotificationTTL    time.Duration `env:"NOTIFICATION_TTL" env-default:"3s"`
	Currency           string        `env:"CURRENCY" env-default:"PKR"`
}

// Handoff holds the checkout handoff settings
type Handoff struct {
	CheckoutURL string        `env:"CHECKOUT_URL" env-default:"https://checkout.ordrz.com/"`
	Secret      string        `env:"HANDOFF_SECRET"`
	TTL         time.Duration `env:"HANDOFF_TTL" env-default:"15m"`
}

// Images holds the product image optimizer settings
type Images struct {
	CacheDir     string   `env:"IMAGE_CACHE_DIR" env-default:"cache/images"`
	AllowedHosts []string `env:"IMAGE_ALLOWED_HOSTS" env-separator:"," env-default:"static.tossdown.com"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	if cfg.IsProduction() && cfg.Handoff.Secret == "" {
		return nil, fmt.Errorf("HANDOFF_SECRET is required in production")
	}
	switch cfg.KVBackend {
	case KVMemory, KVPostgres, KVRedis:
	default:
		return nil, fmt.Errorf("unsupported KV_BACKEND %q", cfg.KVBackend)
	}
	return &cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN returns the Postgres connection string
func (p Postgres) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.User == "" || p.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Name, p.SSLMode), nil
}
