package main

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/mock"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/sensors"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := loadConfig(env(nil))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	want := Config{
		Port:           "50051",
		RegionType:     "mock",
		RecordInterval: 5 * time.Second,
		Retention:      30 * 24 * time.Hour,
		RepoType:       "memory",
		DBPath:         "./sensors.db",
		LogLevel:       zerolog.InfoLevel,
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	config, err := loadConfig(env(map[string]string{
		"PORT":            "6000",
		"REGION_TYPE":     "lms",
		"SENSOR_MODES":    "touch_press, COL_RGB,GYRO_ANG,IR_SEEK",
		"BEACON_CHANNELS": "0,0,0,2",
		"RECORD_INTERVAL": "250ms",
		"RETENTION":       "bogus",
		"LOG_LEVEL":       "debug",
	}))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	wantModes := []domain.SensorMode{domain.TouchPress, domain.ColorRGB, domain.GyroAngle, domain.IRSeek}
	if diff := cmp.Diff(wantModes, config.SensorModes); diff != "" {
		t.Errorf("modes mismatch (-want +got):\n%s", diff)
	}
	wantChannels := []domain.BeaconChannel{domain.BeaconCh1, domain.BeaconCh1, domain.BeaconCh1, domain.BeaconCh3}
	if diff := cmp.Diff(wantChannels, config.BeaconChannels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}
	if config.RecordInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms interval, got %v", config.RecordInterval)
	}
	if config.Retention != 30*24*time.Hour {
		t.Errorf("expected default retention for an invalid value, got %v", config.Retention)
	}
	if config.LogLevel != zerolog.DebugLevel || config.Port != "6000" || config.RegionType != "lms" {
		t.Errorf("unexpected config %+v", config)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want error
	}{
		{"unknown mode", map[string]string{"SENSOR_MODES": "TOUCH_PRESS,LASER,NO_SEN,NO_SEN"}, domain.ErrInvalidMode},
		{"three modes", map[string]string{"SENSOR_MODES": "TOUCH_PRESS,NO_SEN,NO_SEN"}, nil},
		{"bad channel", map[string]string{"BEACON_CHANNELS": "0,4"}, domain.ErrInvalidChannel},
		{"channel not a number", map[string]string{"BEACON_CHANNELS": "one"}, nil},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, nil},
		{"unknown region", map[string]string{"REGION_TYPE": "gpio"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(env(tt.vars))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigurePorts(t *testing.T) {
	region := mock.NewRegion(mock.WithSeed(1))
	s := sensors.New(region.Provider())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Shutdown() })

	config := Config{
		SensorModes:    []domain.SensorMode{domain.IRSeek, domain.ModeNone, domain.ModeNone, domain.USDistCM},
		BeaconChannels: []domain.BeaconChannel{domain.BeaconCh4},
	}
	if err := configurePorts(s, config); err != nil {
		t.Fatalf("configurePorts failed: %v", err)
	}

	status, err := s.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status[0].Mode != domain.IRSeek || status[0].Channel != domain.BeaconCh4 {
		t.Errorf("unexpected port 1 status %+v", status[0])
	}
	if status[3].Mode != domain.USDistCM {
		t.Errorf("unexpected port 4 status %+v", status[3])
	}

	if err := configurePorts(s, config); !errors.Is(err, domain.ErrAlreadyConfigured) {
		t.Errorf("expected ErrAlreadyConfigured on second startup configuration, got %v", err)
	}
}
