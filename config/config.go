package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr              string `mapstructure:"REDIS_ADDR"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisInquiryDB         int    `mapstructure:"REDIS_INQUIRY_DB"`
	RedisConciergeDB       int    `mapstructure:"REDIS_CONCIERGE_DB"`
	RedisSubmissionQueueDB int    `mapstructure:"REDIS_SUBMISSION_QUEUE_DB"`

	// Inquiry wizard.
	CatalogSource     string        `mapstructure:"CATALOG_SOURCE"` // "mongo" or "file"
	CatalogFile       string        `mapstructure:"CATALOG_FILE"`
	InquirySessionTTL time.Duration `mapstructure:"INQUIRY_SESSION_TTL"`
	MatchPickBonus    int           `mapstructure:"MATCH_PICK_BONUS"`

	// Concierge.
	ConciergeSessionTTL time.Duration `mapstructure:"CONCIERGE_SESSION_TTL"`
	ConciergeModel      string        `mapstructure:"CONCIERGE_MODEL"`
	ConciergePrompt     string        `mapstructure:"CONCIERGE_SYSTEM_PROMPT"`
	ConciergeWelcome    string        `mapstructure:"CONCIERGE_WELCOME"`
	ProviderTimeout     time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	CredentialSealKey   string        `mapstructure:"CREDENTIAL_SEAL_KEY"`
	BillingProvider     string        `mapstructure:"BILLING_PROVIDER"` // "gemini" or "stripe"
	StripeKey           string        `mapstructure:"STRIPE_KEY"`
	WorkerConcurrency   int           `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "tradewinds")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_INQUIRY_DB", 0)
	viper.SetDefault("REDIS_CONCIERGE_DB", 1)
	viper.SetDefault("REDIS_SUBMISSION_QUEUE_DB", 2)
	viper.SetDefault("CATALOG_SOURCE", "mongo")
	viper.SetDefault("CATALOG_FILE", "./config/catalog.yaml")
	viper.SetDefault("INQUIRY_SESSION_TTL", "30m")
	viper.SetDefault("MATCH_PICK_BONUS", 1000)
	viper.SetDefault("CONCIERGE_SESSION_TTL", "2h")
	viper.SetDefault("CONCIERGE_MODEL", "gemini-1.5-flash")
	viper.SetDefault("CONCIERGE_SYSTEM_PROMPT", "You are the Tradewinds travel concierge. Help guests plan island holidays, answer questions about resorts, transfers and seasons, and keep replies short and friendly.")
	viper.SetDefault("CONCIERGE_WELCOME", "Hello! I'm your Tradewinds concierge. Ask me anything about planning your stay.")
	viper.SetDefault("PROVIDER_TIMEOUT", "30s")
	viper.SetDefault("CREDENTIAL_SEAL_KEY", "")
	viper.SetDefault("BILLING_PROVIDER", "gemini")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("WORKER_CONCURRENCY", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
