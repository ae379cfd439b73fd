package config

import (
	"errors"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	Mail     MailConfig     `envPrefix:"MAIL_"`
	Import   ImportConfig   `envPrefix:"IMPORT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"EvalHub"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"evalhub.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	MinLength              int    `env:"MIN_LENGTH" envDefault:"8"`
	RequireUpper           bool   `env:"REQUIRE_UPPER" envDefault:"false"`
	RequireLower           bool   `env:"REQUIRE_LOWER" envDefault:"true"`
	RequireNumber          bool   `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial         bool   `env:"REQUIRE_SPECIAL" envDefault:"false"`
	BcryptCost             int    `env:"BCRYPT_COST" envDefault:"10"`
	EmailDomain            string `env:"EMAIL_DOMAIN" envDefault:"institutsaintjean.org"`
	DefaultStudentPassword string `env:"DEFAULT_STUDENT_PASSWORD" envDefault:"password123"`
}

type JWTConfig struct {
	SecretKey    string        `env:"SECRET_KEY"`
	Issuer       string        `env:"ISSUER" envDefault:"evalhub"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
}

type SessionConfig struct {
	RefreshExpiry       time.Duration `env:"REFRESH_EXPIRY" envDefault:"168h"`
	RefreshTokenLength  int           `env:"REFRESH_TOKEN_LENGTH" envDefault:"64"`
	MaxPerUser          int           `env:"MAX_PER_USER" envDefault:"5"`
	CleanupInterval     time.Duration `env:"CLEANUP_INTERVAL" envDefault:"24h"`
	InactivityThreshold time.Duration `env:"INACTIVITY_THRESHOLD" envDefault:"720h"`
	PurgeThreshold      time.Duration `env:"PURGE_THRESHOLD" envDefault:"2160h"`
}

type MailConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@institutsaintjean.org"`
	FromName string `env:"FROM_NAME" envDefault:"EvalHub"`
}

type ImportConfig struct {
	MaxRows int `env:"MAX_ROWS" envDefault:"2000"`
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY is required")

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if cfg.JWT.SecretKey == "" {
		return ErrMissingJWTSecret
	}

	return nil
}
