package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort int `env:"TRANSFERS_HTTP_PORT"`

	DBConfig struct {
		Host      string        `env:"TRANSFERS_DB_HOST"`
		Port      int           `env:"TRANSFERS_DB_PORT"`
		User      string        `env:"TRANSFERS_DB_USER"`
		Password  string        `env:"TRANSFERS_DB_PASSWORD"`
		Name      string        `env:"TRANSFERS_DB_NAME"`
		SSLMode   string        `env:"TRANSFERS_DB_SSLMODE"`
		TxTimeout time.Duration `env:"TRANSFERS_DB_TX_TIMEOUT"`
	}
	MigrationsPath string `env:"TRANSFERS_MIGRATIONS_PATH"`
	DataKeyFile    string `env:"TRANSFERS_DATA_KEY_FILE"`

	KafkaBrokerURL             string `env:"KAFKA_BROKER_URL"`
	KafkaTransferEventsTopic   string `env:"KAFKA_TRANSFER_EVENTS_TOPIC"`
	KafkaTransferCommandsTopic string `env:"KAFKA_TRANSFER_COMMANDS_TOPIC"`
	KafkaConsumerGroup         string `env:"KAFKA_CONSUMER_GROUP"`
	CommandRateAttempts        int    `env:"TRANSFER_COMMAND_RATE_ATTEMPTS"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL"`
	OutboxPollTimeout  time.Duration `env:"OUTBOX_POLL_TIMEOUT"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE"`

	Rates struct {
		ProviderURL     string        `env:"RATES_PROVIDER_URL"`
		APIKey          string        `env:"RATES_API_KEY"`
		BaseCurrency    string        `env:"RATES_BASE_CURRENCY"`
		RefreshInterval time.Duration `env:"RATES_REFRESH_INTERVAL"`
		HTTPTimeout     time.Duration `env:"RATES_HTTP_TIMEOUT"`
	}

	CardPurchaseMaxAmount decimal.Decimal `env:"CARD_PURCHASE_MAX_AMOUNT"`
	ReferenceMaxAttempts  int             `env:"REFERENCE_MAX_ATTEMPTS"`
	RecordDeniedTransfers bool            `env:"RECORD_DENIED_TRANSFERS"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
	LogLevel           string   `env:"LOG_LEVEL"`
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory if one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}

	cfg.HTTPPort = getEnvAsInt("TRANSFERS_HTTP_PORT", 8083)

	cfg.DBConfig.Host = getEnvOrDefault("TRANSFERS_DB_HOST", "localhost")
	cfg.DBConfig.Port = getEnvAsInt("TRANSFERS_DB_PORT", 5432)
	cfg.DBConfig.User = getEnvOrDefault("TRANSFERS_DB_USER", "user")
	cfg.DBConfig.Password = getEnvOrDefault("TRANSFERS_DB_PASSWORD", "password")
	cfg.DBConfig.Name = getEnvOrDefault("TRANSFERS_DB_NAME", "bank_db")
	cfg.DBConfig.SSLMode = getEnvOrDefault("TRANSFERS_DB_SSLMODE", "disable")
	cfg.DBConfig.TxTimeout = getEnvAsDuration("TRANSFERS_DB_TX_TIMEOUT", 5*time.Second)
	cfg.MigrationsPath = getEnvOrDefault("TRANSFERS_MIGRATIONS_PATH", "file://migrations")
	cfg.DataKeyFile = getEnvOrDefault("TRANSFERS_DATA_KEY_FILE", "secret.key")

	cfg.KafkaBrokerURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaTransferEventsTopic = getEnvOrDefault("KAFKA_TRANSFER_EVENTS_TOPIC", "transfer_events")
	cfg.KafkaTransferCommandsTopic = getEnvOrDefault("KAFKA_TRANSFER_COMMANDS_TOPIC", "transfer_commands")
	cfg.KafkaConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", "transfers-service-group")
	cfg.CommandRateAttempts = getEnvAsInt("TRANSFER_COMMAND_RATE_ATTEMPTS", 5)

	cfg.OutboxPollInterval = getEnvAsDuration("OUTBOX_POLL_INTERVAL", 1*time.Second)
	cfg.OutboxPollTimeout = getEnvAsDuration("OUTBOX_POLL_TIMEOUT", 500*time.Millisecond)
	cfg.OutboxBatchSize = getEnvAsInt("OUTBOX_BATCH_SIZE", 10)

	cfg.Rates.ProviderURL = getEnvOrDefault("RATES_PROVIDER_URL", "https://v6.exchangerate-api.com/v6")
	cfg.Rates.APIKey = getEnvOrDefault("RATES_API_KEY", "")
	cfg.Rates.BaseCurrency = getEnvOrDefault("RATES_BASE_CURRENCY", "CZK")
	cfg.Rates.RefreshInterval = getEnvAsDuration("RATES_REFRESH_INTERVAL", 24*time.Hour)
	cfg.Rates.HTTPTimeout = getEnvAsDuration("RATES_HTTP_TIMEOUT", 10*time.Second)

	cfg.CardPurchaseMaxAmount = getEnvAsDecimal("CARD_PURCHASE_MAX_AMOUNT", decimal.NewFromInt(6000))
	cfg.ReferenceMaxAttempts = getEnvAsInt("REFERENCE_MAX_ATTEMPTS", 10)
	cfg.RecordDeniedTransfers = getEnvAsBool("RECORD_DENIED_TRANSFERS", true)

	cfg.CORSAllowedOrigins = splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReferenceMaxAttempts < 1 {
		return fmt.Errorf("REFERENCE_MAX_ATTEMPTS must be at least 1, got %d", c.ReferenceMaxAttempts)
	}
	if c.CardPurchaseMaxAmount.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("CARD_PURCHASE_MAX_AMOUNT must be at least 1, got %s", c.CardPurchaseMaxAmount)
	}
	if c.Rates.RefreshInterval <= 0 {
		return fmt.Errorf("RATES_REFRESH_INTERVAL must be positive, got %s", c.Rates.RefreshInterval)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", c.OutboxPollInterval)
	}
	if c.CommandRateAttempts < 1 {
		return fmt.Errorf("TRANSFER_COMMAND_RATE_ATTEMPTS must be at least 1, got %d", c.CommandRateAttempts)
	}
	if strings.TrimSpace(c.DataKeyFile) == "" {
		return fmt.Errorf("TRANSFERS_DATA_KEY_FILE must not be empty")
	}
	if c.OutboxBatchSize < 1 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be at least 1, got %d", c.OutboxBatchSize)
	}
	return nil
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBConfig.User, c.DBConfig.Password, c.DBConfig.Host, c.DBConfig.Port, c.DBConfig.Name, c.DBConfig.SSLMode)
}

func (c *Config) GetKafkaBrokers() []string {
	return splitList(c.KafkaBrokerURL)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnvOrDefault(key, strconv.Itoa(defaultValue))
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnvOrDefault(key, strconv.FormatBool(defaultValue))
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := getEnvOrDefault(key, defaultValue.String())
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
