package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port   string `envconfig:"PORT" default:"3000"`
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	DB       DBConfig
	Log      LogConfig
	Password PasswordConfig
}

// DBConfig selects the driver and connection pool.
type DBConfig struct {
	Type            string `envconfig:"DB_TYPE" default:"sqlite"` // mysql, mariadb, postgres, sqlite, sqlite-pure, sqlserver
	Host            string `envconfig:"DB_HOST" default:"localhost"`
	Port            string `envconfig:"DB_PORT" default:"3306"`
	Database        string `envconfig:"DB_DATABASE"`
	User            string `envconfig:"DB_USER"`
	Password        string `envconfig:"DB_PASSWORD"`
	ConnectionLimit int    `envconfig:"DB_CONNECTION_LIMIT" default:"5"`
	LogLevel        string `envconfig:"DB_LOG_LEVEL" default:"warn"`
}

// LogConfig configures the zerolog output.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// PasswordConfig holds the Argon2id cost parameters.
type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARGON_KEY_LEN" default:"32"`
}

// IsSQLite reports whether the configured driver is file based.
func (d DBConfig) IsSQLite() bool {
	return d.Type == "sqlite" || d.Type == "sqlite-pure"
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load loads configuration from environment variables, after an optional .env
// file named by ENV_FILE (or ./.env when present).
func Load() (*Config, error) {
	if err := loadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.DB.Type = strings.ToLower(strings.TrimSpace(cfg.DB.Type))

	// Validate required fields
	if cfg.DB.Database == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if !cfg.DB.IsSQLite() && cfg.DB.User == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.DB.ConnectionLimit < 1 {
		return nil, fmt.Errorf("DB_CONNECTION_LIMIT must be positive")
	}

	return &cfg, nil
}

// loadEnvFile loads an explicit env file, or ./.env if it exists. Variables
// already set in the process environment win.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}
