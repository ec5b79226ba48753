package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"food_ordering_super_secret_2024"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	DBDriver     string        `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"food_ordering.db"`
	PostgresDSN  string        `env:"POSTGRES_DSN"`
	MongoURI     string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB      string        `env:"MONGO_DATABASE" envDefault:"food_ordering"`
	MongoTimeout time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	LocationTTL   time.Duration `env:"LOCATION_TTL" envDefault:"10m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@food-ordering.local"`
	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	StrictTransitions bool          `env:"STRICT_TRANSITIONS" envDefault:"false"`
	ResetTokenSweep   time.Duration `env:"RESET_TOKEN_SWEEP" envDefault:"30m"`

	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "mongo":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (sqlite, postgres or mongo)", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
