package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredDefaults(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LINK_CITIES", "Vancouver,Surrey")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredDefaults(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 3, cfg.LoadConcurrency)
	assert.Equal(t, []string{"Vancouver", "Surrey"}, cfg.Cities())
}

func TestLoad_UnknownStoreDriver(t *testing.T) {
	setRequiredDefaults(t)
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoad_NonPositiveUpload(t *testing.T) {
	setRequiredDefaults(t)
	t.Setenv("MAX_UPLOAD_MB", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_UPLOAD_MB")
}

func TestCities_TrimsAndSkipsBlanks(t *testing.T) {
	cfg := &Config{LinkCities: " Vancouver , ,Burnaby"}
	assert.Equal(t, []string{"Vancouver", "Burnaby"}, cfg.Cities())
}

func TestValidate_NoCities(t *testing.T) {
	cfg := &Config{StoreDriver: StoreMemory, StoreCapacity: 1, MaxUploadMB: 1, LoadConcurrency: 1, MaxRetries: 1, LinkCities: " , "}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINK_CITIES")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=require", cfg.DSN())
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := &Config{MaxUploadMB: 2}
	assert.Equal(t, int64(2<<20), cfg.MaxUploadBytes())
}
