package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT" env-default:"8080"`
	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"postgres"`
	DBPassword string `env:"DB_PASSWORD" env-default:"postgres"`
	DBName     string `env:"DB_NAME" env-default:"aqualink"`
	DBSslMode  string `env:"DB_SSLMODE" env-default:"disable"`

	JWTSecret string `env:"JWT_SECRET" env-required:"true"`
	RedisAddr string `env:"REDIS_ADDR"`

	KafkaBrokers           []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaOrderChangedTopic string   `env:"KAFKA_ORDER_CHANGED_TOPIC" env-default:"order.status.changed"`

	QuoteRequestTTLHours int    `env:"QUOTE_REQUEST_TTL_HOURS" env-default:"72"`
	QuoteValidityHours   int    `env:"QUOTE_VALIDITY_HOURS" env-default:"48"`
	ExpirySweepSchedule  string `env:"EXPIRY_SWEEP_SCHEDULE" env-default:"0 * * * * *"`
	ExpiryBatchSize      int    `env:"EXPIRY_BATCH_SIZE" env-default:"500"`
	OutboxRelaySchedule  string `env:"OUTBOX_RELAY_SCHEDULE" env-default:"*/5 * * * * *"`
	OutboxBatchSize      int    `env:"OUTBOX_BATCH_SIZE" env-default:"100"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads the environment after applying envFile when it exists. Variables
// already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []error
	if c.QuoteRequestTTLHours <= 0 {
		problems = append(problems, fmt.Errorf("QUOTE_REQUEST_TTL_HOURS must be positive, got %d", c.QuoteRequestTTLHours))
	}
	if c.QuoteValidityHours <= 0 {
		problems = append(problems, fmt.Errorf("QUOTE_VALIDITY_HOURS must be positive, got %d", c.QuoteValidityHours))
	}
	if c.ExpiryBatchSize <= 0 {
		problems = append(problems, fmt.Errorf("EXPIRY_BATCH_SIZE must be positive, got %d", c.ExpiryBatchSize))
	}
	if c.OutboxBatchSize <= 0 {
		problems = append(problems, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) QuoteRequestTTL() time.Duration {
	return time.Duration(c.QuoteRequestTTLHours) * time.Hour
}

func (c Config) QuoteValidity() time.Duration {
	return time.Duration(c.QuoteValidityHours) * time.Hour
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
