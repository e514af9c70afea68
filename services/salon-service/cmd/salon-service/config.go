package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/palor/libs/config"
)

// Config is populated from unprefixed environment variables, optionally
// seeded from a local .env file.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"salon-service"`
	Port        int    `envconfig:"PORT" default:"8080"`
	GRPCPort    int    `envconfig:"GRPC_PORT" default:"9090"`

	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns     int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MigrateOnStart bool   `envconfig:"MIGRATE_ON_START" default:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string        `envconfig:"JWT_ISSUER" default:"palor"`
	JWKSURL   string        `envconfig:"JWKS_URL"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	Timezone string `envconfig:"SALON_TIMEZONE" default:"UTC"`

	KafkaBrokers     string `envconfig:"KAFKA_BROKERS"`
	KafkaTopicPrefix string `envconfig:"KAFKA_TOPIC_PREFIX" default:"palor"`

	RedisAddr          string   `envconfig:"REDIS_ADDR"`
	RedisPassword      string   `envconfig:"REDIS_PASSWORD"`
	RedisDB            int      `envconfig:"REDIS_DB" default:"0"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`
	RateLimitFailOpen  bool     `envconfig:"RATE_LIMIT_FAIL_OPEN" default:"true"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	MaxBodyBytes    int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := config.Load("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if err := config.ValidatePort("PORT", c.Port); err != nil {
		errs = append(errs, err)
	}
	if err := config.ValidatePort("GRPC_PORT", c.GRPCPort); err != nil {
		errs = append(errs, err)
	}
	if len(strings.TrimSpace(c.JWTSecret)) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("SALON_TIMEZONE: %w", err))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

func (c Config) location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
