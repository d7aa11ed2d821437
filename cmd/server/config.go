package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// Config holds application configuration
type Config struct {
	Port           string
	RegionType     string              // "mock" | "lms"
	SensorModes    []domain.SensorMode // empty leaves the ports unconfigured
	BeaconChannels []domain.BeaconChannel
	RecordInterval time.Duration
	Retention      time.Duration
	RepoType       string // "memory" | "sqlite"
	DBPath         string // SQLite database file path (used when RepoType=sqlite)
	LogLevel       zerolog.Level
	TLSCert        string // path to this service's certificate
	TLSKey         string // path to this service's private key
	TLSCA          string // path to the CA certificate
}

func withDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func durationOr(getenv func(string) string, key string, def time.Duration) time.Duration {
	s := getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn().Str(key, s).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}

// parseModes reads a comma-separated list of one mode name per port
func parseModes(s string) ([]domain.SensorMode, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	names := strings.Split(s, ",")
	if len(names) != domain.NumPorts {
		return nil, fmt.Errorf("SENSOR_MODES: expected %d modes, got %d", domain.NumPorts, len(names))
	}
	modes := make([]domain.SensorMode, len(names))
	for i, name := range names {
		mode, err := domain.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("SENSOR_MODES: %w", err)
		}
		modes[i] = mode
	}
	return modes, nil
}

// parseChannels reads a comma-separated list of beacon channels (0-3) starting at port 1
func parseChannels(s string) ([]domain.BeaconChannel, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	if len(fields) > domain.NumPorts {
		return nil, fmt.Errorf("BEACON_CHANNELS: at most %d channels, got %d", domain.NumPorts, len(fields))
	}
	channels := make([]domain.BeaconChannel, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("BEACON_CHANNELS: %w", err)
		}
		ch := domain.BeaconChannel(n)
		if !ch.Valid() {
			return nil, fmt.Errorf("BEACON_CHANNELS: %w: %d", domain.ErrInvalidChannel, n)
		}
		channels[i] = ch
	}
	return channels, nil
}

// loadConfig reads configuration from environment variables
func loadConfig(getenv func(string) string) (Config, error) {
	modes, err := parseModes(getenv("SENSOR_MODES"))
	if err != nil {
		return Config{}, err
	}
	channels, err := parseChannels(getenv("BEACON_CHANNELS"))
	if err != nil {
		return Config{}, err
	}

	level := zerolog.InfoLevel
	if s := getenv("LOG_LEVEL"); s != "" {
		if level, err = zerolog.ParseLevel(s); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	regionType := withDefault(getenv, "REGION_TYPE", "mock")
	if regionType != "mock" && regionType != "lms" {
		return Config{}, fmt.Errorf("REGION_TYPE: unknown region %q", regionType)
	}

	return Config{
		Port:           withDefault(getenv, "PORT", "50051"),
		RegionType:     regionType,
		SensorModes:    modes,
		BeaconChannels: channels,
		RecordInterval: durationOr(getenv, "RECORD_INTERVAL", 5*time.Second),
		Retention:      durationOr(getenv, "RETENTION", 30*24*time.Hour),
		RepoType:       withDefault(getenv, "REPO_TYPE", "memory"),
		DBPath:         withDefault(getenv, "DB_PATH", "./sensors.db"),
		LogLevel:       level,
		TLSCert:        getenv("TLS_CERT"),
		TLSKey:         getenv("TLS_KEY"),
		TLSCA:          getenv("TLS_CA"),
	}, nil
}
