package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// Sampler captures a port once and returns the snapshot with its scalar decode
type Sampler interface {
	Sample(port domain.Port) (domain.Snapshot, int, error)
}

// RecorderStats counts recorder outcomes since start
type RecorderStats struct {
	Recorded uint64
	Failed   uint64
}

// Recorder handles periodic sensor polling and storage
type Recorder struct {
	sensors   Sampler
	repo      domain.ReadingRepository
	interval  time.Duration
	retention time.Duration

	recorded atomic.Uint64
	failed   atomic.Uint64
}

// NewRecorder creates a new background recorder
func NewRecorder(sensors Sampler, repo domain.ReadingRepository, interval, retention time.Duration) *Recorder {
	return &Recorder{
		sensors:   sensors,
		repo:      repo,
		interval:  interval,
		retention: retention,
	}
}

// Start begins periodic polling of every port
// This runs in a goroutine until context is cancelled
func (r *Recorder) Start(ctx context.Context) error {
	log.Info().
		Dur("interval", r.interval).
		Dur("retention", r.retention).
		Msg("starting background recorder")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()

	// Record immediately on start
	r.RecordOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.RecordOnce(ctx)

		case <-cleanupTicker.C:
			if err := r.repo.DeleteOldReadings(ctx, r.retention); err != nil {
				log.Error().Err(err).Msg("failed to delete old readings")
			}

		case <-ctx.Done():
			log.Info().Msg("stopping background recorder")
			return nil
		}
	}
}

// RecordOnce samples every configured port and saves the readings
func (r *Recorder) RecordOnce(ctx context.Context) {
	for _, port := range domain.Ports() {
		snap, value, err := r.sensors.Sample(port)
		if err != nil {
			r.failed.Inc()
			log.Error().Err(err).Stringer("port", port).Msg("failed to read sensor")
			continue
		}
		if snap.Mode == domain.ModeNone {
			continue
		}

		reading, err := domain.NewSensorReading(snap, value)
		if err != nil {
			r.failed.Inc()
			log.Error().Err(err).Stringer("port", port).Msg("failed to create reading")
			continue
		}

		if err := r.repo.SaveReading(ctx, reading); err != nil {
			r.failed.Inc()
			log.Error().Err(err).Stringer("port", port).Msg("failed to save reading")
			continue
		}
		r.recorded.Inc()

		log.Debug().
			Stringer("port", port).
			Stringer("mode", snap.Mode).
			Int("value", value).
			Bool("disconnected", reading.IsDisconnected()).
			Msg("recorded sensor reading")
	}
}

// Stats returns the recorder counters
func (r *Recorder) Stats() RecorderStats {
	return RecorderStats{
		Recorded: r.recorded.Load(),
		Failed:   r.failed.Load(),
	}
}
