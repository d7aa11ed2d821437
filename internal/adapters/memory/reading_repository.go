package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// ReadingRepository implements domain.ReadingRepository with in-memory storage
type ReadingRepository struct {
	mu       sync.RWMutex
	readings map[int64]*domain.SensorReading
	nextID   int64
}

// NewReadingRepository creates an empty in-memory repository
func NewReadingRepository() *ReadingRepository {
	return &ReadingRepository{
		readings: make(map[int64]*domain.SensorReading),
		nextID:   1,
	}
}

// SaveReading stores a reading in memory
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.SensorReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reading.ID == 0 {
		reading.ID = r.nextID
		r.nextID++
	}

	stored := *reading
	stored.Raw = append([]byte(nil), reading.Raw...)
	r.readings[reading.ID] = &stored
	return nil
}

// GetReading retrieves a reading by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.SensorReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, exists := r.readings[id]
	if !exists {
		return nil, domain.ErrReadingNotFound
	}

	out := *reading
	return &out, nil
}

// GetReadingsInRange returns the readings of port within [start, end)
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, port domain.Port, start, end time.Time) ([]*domain.SensorReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.SensorReading
	for _, reading := range r.readings {
		if reading.Port != port {
			continue
		}
		if !reading.Timestamp.Before(start) && reading.Timestamp.Before(end) {
			out := *reading
			results = append(results, &out)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].ID < results[j].ID
		}
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	return results, nil
}

// GetLatestReading returns the most recent reading of port
func (r *ReadingRepository) GetLatestReading(ctx context.Context, port domain.Port) (*domain.SensorReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.SensorReading
	for _, reading := range r.readings {
		if reading.Port != port {
			continue
		}
		if latest == nil || reading.Timestamp.After(latest.Timestamp) ||
			(reading.Timestamp.Equal(latest.Timestamp) && reading.ID > latest.ID) {
			latest = reading
		}
	}
	if latest == nil {
		return nil, domain.ErrReadingNotFound
	}

	out := *latest
	return &out, nil
}

// DeleteOldReadings removes readings older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	for id, reading := range r.readings {
		if reading.Timestamp.Before(cutoff) {
			delete(r.readings, id)
		}
	}

	return nil
}
