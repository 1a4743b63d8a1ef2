package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvProduction Environment = "production"
)

type AppConfig struct {
	Name     string      `env:"APP_NAME" envDefault:"AgriConnect"`
	Env      Environment `env:"APP_ENV" envDefault:"local"`
	Port     string      `env:"PORT" envDefault:"8080"`
	Timezone string      `env:"APP_TIMEZONE" envDefault:"Africa/Lagos"`
	Origins  string      `env:"CORS_ORIGINS" envDefault:"*"`
}

type DatabaseConfig struct {
	URL          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	ConnLifetime time.Duration `env:"DB_CONN_LIFETIME" envDefault:"30m"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"72h"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	FullName string `env:"ADMIN_FULL_NAME" envDefault:"AgriConnect Admin"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type EmailConfig struct {
	Provider    string `env:"EMAIL_PROVIDER" envDefault:"none"`
	BrevoAPIKey string `env:"BREVO_API_KEY"`
	SenderEmail string `env:"EMAIL_SENDER"`
	SenderName  string `env:"EMAIL_SENDER_NAME" envDefault:"AgriConnect"`
	SMTPHost    string `env:"SMTP_HOST"`
	SMTPPort    int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser    string `env:"EMAIL_USER"`
	SMTPPass    string `env:"EMAIL_PASS"`
}

type CloudinaryConfig struct {
	URL    string `env:"CLOUDINARY_URL"`
	Folder string `env:"CLOUDINARY_FOLDER" envDefault:"agriconnect"`
}

type CacheConfig struct {
	Enabled     bool `env:"CACHE_ENABLED" envDefault:"true"`
	ExpertsSize int  `env:"CACHE_EXPERTS_SIZE" envDefault:"512"`
}

type BookingConfig struct {
	CancellationWindow time.Duration `env:"BOOKING_CANCELLATION_WINDOW" envDefault:"24h"`
	ReminderLead       time.Duration `env:"BOOKING_REMINDER_LEAD" envDefault:"60m"`
	ReminderWindow     time.Duration `env:"BOOKING_REMINDER_WINDOW" envDefault:"5m"`
	ReminderSchedule   string        `env:"BOOKING_REMINDER_SCHEDULE" envDefault:"*/5 * * * *"`
	ExpiryGrace        time.Duration `env:"BOOKING_EXPIRY_GRACE" envDefault:"15m"`
	ExpiryLookback     time.Duration `env:"BOOKING_EXPIRY_LOOKBACK" envDefault:"720h"`
	ExpirySchedule     string        `env:"BOOKING_EXPIRY_SCHEDULE" envDefault:"*/15 * * * *"`
}

type LoggingConfig struct {
	Level         string `env:"LOG_LEVEL" envDefault:"info"`
	Format        string `env:"LOG_FORMAT" envDefault:"text"`
	IncludeCaller bool   `env:"LOG_INCLUDE_CALLER" envDefault:"false"`
}

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Admin      AdminConfig
	Redis      RedisConfig
	Email      EmailConfig
	Cloudinary CloudinaryConfig
	Cache      CacheConfig
	Booking    BookingConfig
	Logging    LoggingConfig

	Location *time.Location `env:"-"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))
	cfg.Email.Provider = strings.ToLower(strings.TrimSpace(cfg.Email.Provider))

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}
	cfg.Location = loc

	if cfg.Auth.JWTSecret == "" {
		if cfg.App.Env != EnvLocal {
			return nil, errors.New("JWT_SECRET is required")
		}
		cfg.Auth.JWTSecret = "local-development-secret"
	}
	return cfg, nil
}
