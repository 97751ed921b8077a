package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"fintrack-server/src/linking"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AppURL        string `envconfig:"APP_URL" default:"http://localhost:3000"`
	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	DemoMode      bool   `envconfig:"DEMO_MODE" default:"false"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL        time.Duration `envconfig:"JWT_TTL" default:"24h"`
	CredentialKey string        `envconfig:"CREDENTIAL_KEY" required:"true"`

	PlaidClientID       string   `envconfig:"PLAID_CLIENT_ID"`
	PlaidSecret         string   `envconfig:"PLAID_SECRET"`
	PlaidEnv            string   `envconfig:"PLAID_ENV" default:"sandbox"`
	PlaidClientName     string   `envconfig:"PLAID_CLIENT_NAME" default:"Fintrack"`
	PlaidProducts       []string `envconfig:"PLAID_PRODUCTS" default:"transactions"`
	PlaidCountryCodes   []string `envconfig:"PLAID_COUNTRY_CODES" default:"US"`
	PlaidWebhookURL     string   `envconfig:"PLAID_WEBHOOK_URL"`
	PlaidVerifyWebhooks bool     `envconfig:"PLAID_VERIFY_WEBHOOKS" default:"true"`

	AggregatorTimeout time.Duration `envconfig:"AGGREGATOR_TIMEOUT" default:"30s"`
	SyncWindowDays    int           `envconfig:"SYNC_WINDOW_DAYS" default:"30"`
	SyncConcurrency   int           `envconfig:"SYNC_CONCURRENCY" default:"4"`
	RelinkPolicy      string        `envconfig:"RELINK_POLICY" default:"skip"`
	ReconcilePending  bool          `envconfig:"RECONCILE_PENDING" default:"true"`
	WorkerCount       int           `envconfig:"WORKER_COUNT" default:"2"`
	WorkerQueueSize   int           `envconfig:"WORKER_QUEUE_SIZE" default:"100"`

	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitEnabled   bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	CacheTTL           time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.CredentialKey == "" {
		return fmt.Errorf("CREDENTIAL_KEY is required")
	}
	switch c.PlaidEnv {
	case "sandbox", "production":
	default:
		return fmt.Errorf("PLAID_ENV must be sandbox or production, got %q", c.PlaidEnv)
	}
	if _, err := linking.ParseRelinkPolicy(c.RelinkPolicy); err != nil {
		return fmt.Errorf("RELINK_POLICY: %w", err)
	}
	if c.SyncWindowDays <= 0 {
		return fmt.Errorf("SYNC_WINDOW_DAYS must be positive")
	}
	if c.SyncConcurrency <= 0 {
		return fmt.Errorf("SYNC_CONCURRENCY must be positive")
	}
	if c.AggregatorTimeout <= 0 {
		return fmt.Errorf("AGGREGATOR_TIMEOUT must be positive")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// WebhookURL is where Plaid should deliver item webhooks.
func (c Config) WebhookURL() string {
	if c.PlaidWebhookURL != "" {
		return c.PlaidWebhookURL
	}
	return strings.TrimRight(c.AppURL, "/") + "/api/plaid/webhook"
}

func (c Config) SyncWindow() time.Duration {
	return time.Duration(c.SyncWindowDays) * 24 * time.Hour
}
