package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Usage      UsageConfig
	OAuth      OAuthConfig
	Assembly   AssemblyAIConfig
	Cerebras   CerebrasConfig
	Captions   CaptionsConfig
	Downloader DownloaderConfig
	Stripe     StripeConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	FrontendURL     string   `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"tubetext"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration. An empty host selects the in-memory
// state store instead.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:""`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds the auth-cookie token configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"720h"`
}

// UsageConfig holds the anonymous free-tier meter configuration
type UsageConfig struct {
	Secret    string        `envconfig:"USAGE_TOKEN_SECRET" default:"change-me-in-production"`
	FreeLimit int           `envconfig:"USAGE_FREE_LIMIT" default:"5"`
	Window    time.Duration `envconfig:"USAGE_TOKEN_WINDOW" default:"720h"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID" default:""`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" default:""`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8080/v1/auth/google/callback"`
}

// AssemblyAIConfig holds speech-to-text provider configuration
type AssemblyAIConfig struct {
	APIKey  string        `envconfig:"ASSEMBLYAI_API_KEY" default:""`
	Timeout time.Duration `envconfig:"ASSEMBLYAI_TIMEOUT" default:"5m"`
}

// CerebrasConfig holds the translation/summary model configuration
type CerebrasConfig struct {
	APIKey  string        `envconfig:"CEREBRAS_API_KEY" default:""`
	BaseURL string        `envconfig:"CEREBRAS_API_URL" default:"https://api.cerebras.ai"`
	Model   string        `envconfig:"CEREBRAS_MODEL" default:"gpt-oss-120b"`
	Timeout time.Duration `envconfig:"CEREBRAS_TIMEOUT" default:"60s"`
}

// CaptionsConfig holds the captions provider configuration
type CaptionsConfig struct {
	BaseURL string        `envconfig:"CAPTIONS_BASE_URL" default:"https://www.youtube.com"`
	Timeout time.Duration `envconfig:"CAPTIONS_TIMEOUT" default:"15s"`
}

// DownloaderConfig holds the audio downloader configuration
type DownloaderConfig struct {
	Binary       string `envconfig:"YTDLP_BINARY" default:"yt-dlp"`
	AudioQuality string `envconfig:"YTDLP_AUDIO_QUALITY" default:"192K"`
}

// StripeConfig holds payment provider configuration
type StripeConfig struct {
	SecretKey       string `envconfig:"STRIPE_SECRET_KEY" default:""`
	WebhookSecret   string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
	MonthlyPriceID  string `envconfig:"STRIPE_MONTHLY_PRICE_ID" default:""`
	YearlyPriceID   string `envconfig:"STRIPE_YEARLY_PRICE_ID" default:""`
	LifetimePriceID string `envconfig:"STRIPE_LIFETIME_PRICE_ID" default:""`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Environment == "production" {
		if c.JWT.Secret == "change-me-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Usage.Secret == "change-me-in-production" {
			return fmt.Errorf("USAGE_TOKEN_SECRET must be set in production")
		}
	}
	if c.OAuth.Google.ClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.OAuth.Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
