package domain

import (
	"context"
	"time"
)

// ReadingRepository defines operations for storing/retrieving sensor readings
// This is a PORT - adapters (SQLite, Memory) will implement it
type ReadingRepository interface {
	// SaveReading persists a reading and assigns its ID
	SaveReading(ctx context.Context, reading *SensorReading) error

	// GetReading retrieves a specific reading by ID
	GetReading(ctx context.Context, id int64) (*SensorReading, error)

	// GetReadingsInRange retrieves the readings of one port within a time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetReadingsInRange(ctx context.Context, port Port, start, end time.Time) ([]*SensorReading, error)

	// GetLatestReading retrieves the most recent reading of a port
	GetLatestReading(ctx context.Context, port Port) (*SensorReading, error)

	// DeleteOldReadings removes readings older than specified duration
	DeleteOldReadings(ctx context.Context, olderThan time.Duration) error
}
