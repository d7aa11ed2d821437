package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// ReadingRepository implements domain.ReadingRepository with SQLite
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository creates a SQLite-backed repository
func NewReadingRepository(dbPath string) (*ReadingRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Timestamps are stored as unix nanoseconds so range queries compare integers
	schema := `
	CREATE TABLE IF NOT EXISTS sensor_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		port INTEGER NOT NULL,
		mode INTEGER NOT NULL,
		value INTEGER NOT NULL,
		raw BLOB,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_port_timestamp ON sensor_readings(port, timestamp);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ReadingRepository{db: db}, nil
}

// SaveReading stores a reading in SQLite
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.SensorReading) error {
	query := `INSERT INTO sensor_readings (port, mode, value, raw, timestamp) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		int(reading.Port), int(reading.Mode), reading.Value, reading.Raw, reading.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}

	reading.ID = id
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(row scanner) (*domain.SensorReading, error) {
	var (
		reading    domain.SensorReading
		port, mode int
		ts         int64
	)
	if err := row.Scan(&reading.ID, &port, &mode, &reading.Value, &reading.Raw, &ts); err != nil {
		return nil, err
	}
	reading.Port = domain.Port(port)
	reading.Mode = domain.SensorMode(mode)
	reading.Timestamp = time.Unix(0, ts)
	return &reading, nil
}

// GetReading retrieves a reading by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.SensorReading, error) {
	query := `SELECT id, port, mode, value, raw, timestamp FROM sensor_readings WHERE id = ?`

	reading, err := scanReading(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}

	return reading, nil
}

// GetReadingsInRange returns the readings of port within [start, end)
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, port domain.Port, start, end time.Time) ([]*domain.SensorReading, error) {
	query := `
		SELECT id, port, mode, value, raw, timestamp
		FROM sensor_readings
		WHERE port = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, int(port), start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []*domain.SensorReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// GetLatestReading returns the most recent reading of port
func (r *ReadingRepository) GetLatestReading(ctx context.Context, port domain.Port) (*domain.SensorReading, error) {
	query := `
		SELECT id, port, mode, value, raw, timestamp
		FROM sensor_readings
		WHERE port = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`

	reading, err := scanReading(r.db.QueryRowContext(ctx, query, int(port)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}

	return reading, nil
}

// DeleteOldReadings removes readings older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	query := `DELETE FROM sensor_readings WHERE timestamp < ?`

	if _, err := r.db.ExecContext(ctx, query, cutoff.UnixNano()); err != nil {
		return fmt.Errorf("failed to delete old readings: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *ReadingRepository) Close() error {
	return r.db.Close()
}
