package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/hamgrid/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers         []string
	KafkaSourceTopic     string
	KafkaSinkTopic       string
	KafkaGroupID         string
	KafkaMaxMessageBytes int
	HTTPAddr             string
	LogLevel             string
	LogFormat            string
	ShutdownTimeout      time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// DXCC entity table.
	DXCCTablePath string
	DXCCCacheSize int

	// Home station used when a log does not name its own.
	Station domain.Station

	// Optional MQTT fan-out of enriched QSOs.
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err2 := time.ParseDuration(mapboxTimeoutStr)
	if err2 != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	maxMessageBytes, err := parsePositiveInt("KAFKA_MAX_MESSAGE_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}

	dxccCacheSize, err := parsePositiveInt("DXCC_CACHE_SIZE", 4096)
	if err != nil {
		return nil, err
	}

	station, err := loadStation()
	if err != nil {
		return nil, err
	}

	mapboxCacheSize := parseMapboxCacheSize()

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:     sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-qso-logs"),
		KafkaSinkTopic:       sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "enriched-qsos"),
		KafkaGroupID:         sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "hamgrid-etl"),
		KafkaMaxMessageBytes: maxMessageBytes,
		HTTPAddr:             sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:             sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:      shutdownTimeout,
		BatchSize:            batchSize,
		BatchFlushInterval:   flushInterval,

		DXCCTablePath: sharedcfg.EnvOrDefault("DXCC_TABLE_PATH", "data/dxcc.json"),
		DXCCCacheSize: dxccCacheSize,

		Station: station,

		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTTopic:    sharedcfg.EnvOrDefault("MQTT_TOPIC", "hamgrid/qsos"),
		MQTTClientID: sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "hamgrid-etl"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if strings.ContainsAny(cfg.MQTTTopic, "+#") {
		return nil, errors.New("invalid MQTT_TOPIC: wildcards are not allowed")
	}

	return cfg, nil
}

// stationFile is the layout of a STATION_CONFIG file:
//
//	[station]
//	callsign = "OK1KHL"
//	gridsquare = "JO70FD"
type stationFile struct {
	Station domain.Station `toml:"station"`
}

// LoadStationProfile reads the home station from a TOML file.
func LoadStationProfile(path string) (domain.Station, error) {
	var f stationFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return domain.Station{}, fmt.Errorf("load station profile: %w", err)
	}
	return f.Station, nil
}

// loadStation merges STATION_CONFIG with STATION_CALLSIGN and
// STATION_LOCATOR; the environment wins.
func loadStation() (domain.Station, error) {
	var station domain.Station
	if path := os.Getenv("STATION_CONFIG"); path != "" {
		s, err := LoadStationProfile(path)
		if err != nil {
			return domain.Station{}, err
		}
		station = s
	}
	if v := os.Getenv("STATION_CALLSIGN"); v != "" {
		station.Callsign = v
	}
	if v := os.Getenv("STATION_LOCATOR"); v != "" {
		station.Locator = v
	}
	station.Callsign = strings.ToUpper(strings.TrimSpace(station.Callsign))
	station.Locator = strings.ToUpper(strings.TrimSpace(station.Locator))
	return station, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
