package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverCassandra, cfg.Storage.Driver)
	assert.Equal(t, []string{"localhost"}, cfg.Cassandra.Hosts)
	assert.Equal(t, 9042, cfg.Cassandra.Port)
	assert.Equal(t, "my_keyspace", cfg.Cassandra.Keyspace)
	assert.Equal(t, 5*time.Second, cfg.Cassandra.Timeout)
	assert.Equal(t, 5, cfg.Inventory.AdjustMaxAttempts)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "Postgres")
	v.Set("CASSANDRA_HOSTS", "cass-1, cass-2,,")
	v.Set("HTTP_PORT", "9090")
	v.Set("CASSANDRA_TIMEOUT_MS", "250")
	v.Set("REDIS_ADDR", "redis:6379")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, []string{"cass-1", "cass-2"}, cfg.Cassandra.Hosts)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Cassandra.Timeout)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ReintentosInvalidos(t *testing.T) {
	v := viper.New()
	v.Set("INVENTORY_ADJUST_MAX_ATTEMPTS", "0")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "bodegas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/bodegas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
