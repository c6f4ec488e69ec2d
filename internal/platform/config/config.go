package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	MigrationsPath     string
	CategoryCacheTTL   time.Duration
	RateLimit          string // ulule/limiter formatted rate, e.g. "300-M"
	CORSAllowedOrigins []string
	BaseCurrency       string
}

const (
	defaultPort             = "8080"
	defaultMigrationsPath   = "file://migrations"
	defaultCategoryCacheTTL = 5 * time.Minute
	defaultRateLimit        = "300-M"
	defaultBaseCurrency     = "AED"
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", defaultPort)
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	viper.SetDefault("CATEGORY_CACHE_TTL", defaultCategoryCacheTTL.String())
	viper.SetDefault("RATE_LIMIT", defaultRateLimit)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("BASE_CURRENCY", defaultBaseCurrency)

	// Environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = defaultMigrationsPath
	}

	// Load category cache TTL (e.g., "5m"); 0 disables expiry
	ttlStr := viper.GetString("CATEGORY_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl < 0 {
		ttl = defaultCategoryCacheTTL
		log.Printf("Warning: Invalid value for CATEGORY_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl.String())
	}
	cfg.CategoryCacheTTL = ttl

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
		log.Printf("Warning: RATE_LIMIT not set. Defaulting to %s.\n", cfg.RateLimit)
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.BaseCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("BASE_CURRENCY")))
	if len(cfg.BaseCurrency) != 3 {
		log.Printf("Warning: Invalid value for BASE_CURRENCY ('%s'). Defaulting to %s.\n", cfg.BaseCurrency, defaultBaseCurrency)
		cfg.BaseCurrency = defaultBaseCurrency
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}
