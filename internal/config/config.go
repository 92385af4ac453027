package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port           string
	StorageBackend string
	MigrateOnStart bool
	NumOperators   int
	LogLevel       string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// AMQPURL left empty disables message publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             "9446",
		StorageBackend:   StorageMemory,
		NumOperators:     4,
		LogLevel:         "info",
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		AMQPExchange:     "budget-ledger",
		AMQPQueue:        "budget-ledger.messages",
	}

	overrides := map[string]*string{
		"PORT":              &env.Port,
		"STORAGE_BACKEND":   &env.StorageBackend,
		"LOG_LEVEL":         &env.LogLevel,
		"POSTGRES_ADDRESS":  &env.PostgresAddress,
		"POSTGRES_PORT":     &env.PostgresPort,
		"POSTGRES_DB":       &env.PostgresDB,
		"POSTGRES_USERNAME": &env.PostgresUsername,
		"POSTGRES_PASSWORD": &env.PostgresPassword,
		"AMQP_URL":          &env.AMQPURL,
		"AMQP_EXCHANGE":     &env.AMQPExchange,
		"AMQP_QUEUE":        &env.AMQPQueue,
	}
	for key, field := range overrides {
		if value := os.Getenv(key); len(value) != 0 {
			*field = value
		}
	}

	if value := os.Getenv("MIGRATE_ON_START"); len(value) != 0 {
		migrate, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("MIGRATE_ON_START: %w", err)
		}
		env.MigrateOnStart = migrate
	}

	if value := os.Getenv("OPERATOR_WORKERS"); len(value) != 0 {
		workers, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("OPERATOR_WORKERS: %w", err)
		}
		env.NumOperators = workers
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageBackend)
	}
	if c.NumOperators < 1 {
		return fmt.Errorf("OPERATOR_WORKERS must be at least 1, got %d", c.NumOperators)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT: %w", err)
	}
	return nil
}

// PostgresURL is the lib/pq connection string for the configured database.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
