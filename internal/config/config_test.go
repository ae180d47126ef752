package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-qso-logs", cfg.KafkaSourceTopic)
	assert.Equal(t, "enriched-qsos", cfg.KafkaSinkTopic)
	assert.Equal(t, "hamgrid-etl", cfg.KafkaGroupID)
	assert.Equal(t, 10<<20, cfg.KafkaMaxMessageBytes)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Equal(t, "data/dxcc.json", cfg.DXCCTablePath)
	assert.Equal(t, 4096, cfg.DXCCCacheSize)
	assert.Empty(t, cfg.Station.Callsign)
	assert.Empty(t, cfg.Station.Locator)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "hamgrid/qsos", cfg.MQTTTopic)
	assert.Equal(t, "hamgrid-etl", cfg.MQTTClientID)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("DXCC_TABLE_PATH", "/etc/hamgrid/dxcc.json")
	t.Setenv("DXCC_CACHE_SIZE", "128")
	t.Setenv("STATION_CALLSIGN", " ok1khl ")
	t.Setenv("STATION_LOCATOR", "jo70fd")
	t.Setenv("MQTT_BROKER", "tcp://mqtt:1883")
	t.Setenv("MQTT_TOPIC", "shack/qsos")
	t.Setenv("KAFKA_MAX_MESSAGE_BYTES", "2048")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, "/etc/hamgrid/dxcc.json", cfg.DXCCTablePath)
	assert.Equal(t, 128, cfg.DXCCCacheSize)
	assert.Equal(t, "OK1KHL", cfg.Station.Callsign)
	assert.Equal(t, "JO70FD", cfg.Station.Locator)
	assert.Equal(t, "tcp://mqtt:1883", cfg.MQTTBroker)
	assert.Equal(t, "shack/qsos", cfg.MQTTTopic)
	assert.Equal(t, 2048, cfg.KafkaMaxMessageBytes)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_InvalidDXCCCacheSize(t *testing.T) {
	t.Setenv("DXCC_CACHE_SIZE", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DXCC_CACHE_SIZE")
}

func TestLoad_MQTTTopicWildcard(t *testing.T) {
	t.Setenv("MQTT_TOPIC", "hamgrid/#")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT_TOPIC")
}

func writeStationFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadStationProfile(t *testing.T) {
	path := writeStationFile(t, "[station]\ncallsign = \"OK1KHL\"\ngridsquare = \"JO70FD\"\n")

	station, err := LoadStationProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "OK1KHL", station.Callsign)
	assert.Equal(t, "JO70FD", station.Locator)
}

func TestLoadStationProfile_Invalid(t *testing.T) {
	path := writeStationFile(t, "[station\ncallsign = ")
	_, err := LoadStationProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "station profile")
}

func TestLoad_StationConfigEnvWins(t *testing.T) {
	path := writeStationFile(t, "[station]\ncallsign = \"ok1khl\"\ngridsquare = \"JO70FD\"\n")
	t.Setenv("STATION_CONFIG", path)
	t.Setenv("STATION_LOCATOR", "JN89AA")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "OK1KHL", cfg.Station.Callsign)
	assert.Equal(t, "JN89AA", cfg.Station.Locator)
}

func TestLoad_StationConfigMissingFile(t *testing.T) {
	t.Setenv("STATION_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := Load()
	require.Error(t, err)
}
