package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	Store          string   `mapstructure:"STORE"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	SeedDemoData   bool     `mapstructure:"SEED_DEMO_DATA"`
	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	DemoUser       string   `mapstructure:"DEMO_USER"`
	DemoPassword   string   `mapstructure:"DEMO_PASSWORD"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE", StoreMemory)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("DEMO_USER", "staff")
	v.SetDefault("DEMO_PASSWORD", "staff")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("STORE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("SEED_DEMO_DATA")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("DEMO_USER")
	v.BindEnv("DEMO_PASSWORD")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: Authentication is bypassed — all requests are accepted.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure JWT_SECRET for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The Postgres
// backend needs a connection string, and outside development a real JWT
// secret must be configured so login tokens cannot be forged.
func (c *Config) Validate() error {
	if c.Store != StoreMemory && c.Store != StorePostgres {
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store)
	}
	if c.Store == StorePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when STORE is %q", StorePostgres)
	}
	if !c.IsDev() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when ENV is not development")
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.JWTSecret))
		}
	}
	return nil
}
