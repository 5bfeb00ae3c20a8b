package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcourt-app/utils"
)

const devJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	GinMode           string        `env:"GIN_MODE" envDefault:"debug"`
	DBDriver          string        `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN       string        `env:"DATABASE_DSN"`
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	JWTTTL            time.Duration `env:"JWT_TTL" envDefault:"24h"`
	RateLimit         int           `env:"RATE_LIMIT_PER_SECOND" envDefault:"50"`
	CORSAllowedOrigin string        `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://127.0.0.1:5500"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Printf("Warning: .env file not found or error loading: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == devJWTSecret {
		utils.InfoLogger.Warn("JWT_SECRET not set, using development secret")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for mysql")
		}
	case "sqlite":
		if c.DatabaseDSN == "" {
			c.DatabaseDSN = "foodcourt.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimit <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND must be positive")
	}
	return nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite has no row locks; one writer connection serialises transactions
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
