package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

func newTestRepo(t *testing.T) *ReadingRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewReadingRepository(dbPath)
	if err != nil {
		t.Fatalf("failed to create SQLite repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func makeReading(port domain.Port, value int, ts time.Time) *domain.SensorReading {
	return &domain.SensorReading{
		Port:      port,
		Mode:      domain.USDistMM,
		Value:     value,
		Raw:       []byte{byte(value), byte(value >> 8)},
		Timestamp: ts,
	}
}

func TestSaveAndGetReading(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	reading := makeReading(domain.Input2, 300, time.Now())
	if err := repo.SaveReading(ctx, reading); err != nil {
		t.Fatalf("SaveReading failed: %v", err)
	}
	if reading.ID == 0 {
		t.Fatal("expected ID to be set after save")
	}

	got, err := repo.GetReading(ctx, reading.ID)
	if err != nil {
		t.Fatalf("GetReading failed: %v", err)
	}
	if diff := cmp.Diff(reading, got, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("stored reading mismatch (-want +got):\n%s", diff)
	}
}

func TestGetLatestReading_Empty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetLatestReading(ctx, domain.Input1)
	if err != domain.ErrReadingNotFound {
		t.Errorf("expected ErrReadingNotFound, got %v", err)
	}
}

func TestGetLatestReading_PerPort(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	_ = repo.SaveReading(ctx, makeReading(domain.Input1, 100, now.Add(-time.Minute)))
	_ = repo.SaveReading(ctx, makeReading(domain.Input1, 200, now))
	_ = repo.SaveReading(ctx, makeReading(domain.Input2, 900, now.Add(time.Minute)))

	got, err := repo.GetLatestReading(ctx, domain.Input1)
	if err != nil {
		t.Fatalf("GetLatestReading failed: %v", err)
	}
	if got.Value != 200 {
		t.Errorf("expected latest value 200 on IN_1, got %d", got.Value)
	}
}

func TestGetReadingsInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	_ = repo.SaveReading(ctx, makeReading(domain.Input1, 100, now.Add(-2*time.Hour)))
	_ = repo.SaveReading(ctx, makeReading(domain.Input1, 200, now.Add(-1*time.Hour)))
	_ = repo.SaveReading(ctx, makeReading(domain.Input3, 250, now.Add(-1*time.Hour)))
	_ = repo.SaveReading(ctx, makeReading(domain.Input1, 300, now.Add(1*time.Hour)))

	// Range: [now-90m, now) on IN_1 — only the within reading should appear
	results, err := repo.GetReadingsInRange(ctx, domain.Input1, now.Add(-90*time.Minute), now)
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(results))
	}
	if results[0].Value != 200 {
		t.Errorf("expected value 200, got %d", results[0].Value)
	}
}

func TestGetReadingsInRange_HalfOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ts := time.Now().UTC().Truncate(time.Second)
	_ = repo.SaveReading(ctx, makeReading(domain.Input1, 100, ts))

	// start == timestamp: included
	results, err := repo.GetReadingsInRange(ctx, domain.Input1, ts, ts.Add(time.Second))
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result (inclusive start), got %d", len(results))
	}

	// end == timestamp: excluded
	results, err = repo.GetReadingsInRange(ctx, domain.Input1, ts.Add(-time.Second), ts)
	if err != nil {
		t.Fatalf("GetReadingsInRange failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results (exclusive end), got %d", len(results))
	}
}

func TestDeleteOldReadings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	old := makeReading(domain.Input1, 100, now.Add(-48*time.Hour))
	recent := makeReading(domain.Input1, 200, now.Add(-1*time.Hour))
	_ = repo.SaveReading(ctx, old)
	_ = repo.SaveReading(ctx, recent)

	if err := repo.DeleteOldReadings(ctx, 24*time.Hour); err != nil {
		t.Fatalf("DeleteOldReadings failed: %v", err)
	}

	if _, err := repo.GetReading(ctx, old.ID); err != domain.ErrReadingNotFound {
		t.Errorf("expected old reading to be deleted, got err: %v", err)
	}
	if _, err := repo.GetReading(ctx, recent.ID); err != nil {
		t.Errorf("expected recent reading to remain, got err: %v", err)
	}
}
