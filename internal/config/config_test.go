package config

import (
	"testing"
	"time"

	bookingDomain "github.com/airlock-stays/service-booking/internal/domain/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8004", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, bookingDomain.PolicyInclusive, cfg.AvailabilityPolicy)
	assert.Equal(t, "booking_db", cfg.DBConfig.DBName)
	assert.Equal(t, 25, cfg.DBConfig.MaxOpenConns)
	assert.False(t, cfg.KafkaConfig.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BOOKING_SERVICE_PORT", "9090")
	t.Setenv("BOOKING_APP_ENV", "production")
	t.Setenv("BOOKING_STORE_DRIVER", "MEMORY")
	t.Setenv("BOOKING_SWEEP_INTERVAL", "15m")
	t.Setenv("BOOKING_AVAILABILITY_POLICY", "boundary")
	t.Setenv("BOOKING_DB_HOST", "db.internal")
	t.Setenv("BOOKING_DB_MAX_IDLE_CONNS", "2")
	t.Setenv("BOOKING_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("BOOKING_KAFKA_GROUP_PREFIX", "staging-")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, bookingDomain.PolicyBoundary, cfg.AvailabilityPolicy)
	assert.Equal(t, "db.internal", cfg.DBConfig.Host)
	assert.Equal(t, 2, cfg.DBConfig.MaxIdleConns)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "staging-", cfg.KafkaConfig.GroupPrefix)
	assert.True(t, cfg.KafkaConfig.Enabled())
}

func TestLoad_SweepCanBeDisabled(t *testing.T) {
	t.Setenv("BOOKING_SWEEP_INTERVAL", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.SweepInterval)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown store driver", "BOOKING_STORE_DRIVER", "sqlite"},
		{"unknown policy", "BOOKING_AVAILABILITY_POLICY", "strict"},
		{"negative interval", "BOOKING_SWEEP_INTERVAL", "-1m"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
