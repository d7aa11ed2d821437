package domain

import (
	"time"
)

// SensorReading is one recorded sample from a port
type SensorReading struct {
	ID        int64
	Port      Port
	Mode      SensorMode
	Value     int
	Raw       []byte
	Timestamp time.Time
}

// NewSensorReading creates a reading from a snapshot and its scalar decode
func NewSensorReading(snap Snapshot, value int) (*SensorReading, error) {
	if !snap.Port.Valid() {
		return nil, ErrInvalidPort
	}
	if !snap.Mode.Valid() || snap.Mode == ModeNone {
		return nil, ErrInvalidMode
	}

	ts := snap.Captured
	if ts.IsZero() {
		ts = time.Now()
	}

	return &SensorReading{
		Port:      snap.Port,
		Mode:      snap.Mode,
		Value:     value,
		Raw:       snap.Bytes(),
		Timestamp: ts,
	}, nil
}

// IsDisconnected reports whether the reading carried its mode's out-of-range sentinel.
// Modes whose whole integer range is meaningful (gyro, temperature, distance) never do.
func (r *SensorReading) IsDisconnected() bool {
	switch r.Mode {
	case IRSeek:
		return r.Value == IRSeekAbsentPosition
	case TouchPress, ColorReflect, ColorAmbient, ColorColor, USListen, IRProximity, IRRemote,
		NXTIRSeekerDC, NXTIRSeekerAC, NXTSoundDB, NXTSoundDBA, NXTCompassCompass:
		return r.Value == Disconnected
	}
	return false
}
