package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/airlock-stays/service-booking/internal/platform/database"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "BOOKING"

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// KafkaConfig holds the broker list and consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	StoreDriver        string
	MigrationsPath     string
	SweepInterval      time.Duration
	AvailabilityPolicy bookingDomain.OverlapPolicy
	DBConfig           database.PostgresConfig
	KafkaConfig        KafkaConfig
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *ServiceConfig) IsDevelopment() bool { return c.AppEnv == "development" }

// Load reads configuration from an optional .env file and BOOKING_-prefixed
// environment variables.
func Load() (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	policy, err := bookingDomain.ParseOverlapPolicy(v.GetString("AVAILABILITY_POLICY"))
	if err != nil {
		return nil, err
	}

	cfg := &ServiceConfig{
		Port:               normalizePort(v.GetString("SERVICE_PORT")),
		AppEnv:             v.GetString("APP_ENV"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		SweepInterval:      v.GetDuration("SWEEP_INTERVAL"),
		AvailabilityPolicy: policy,
		DBConfig: database.PostgresConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", ":8004")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("SWEEP_INTERVAL", time.Hour)
	v.SetDefault("AVAILABILITY_POLICY", string(bookingDomain.PolicyInclusive))

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "booking_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
}

func (c *ServiceConfig) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("sweep interval must not be negative, got %s", c.SweepInterval)
	}
	return nil
}

// normalizePort accepts "8004" as well as ":8004".
func normalizePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
