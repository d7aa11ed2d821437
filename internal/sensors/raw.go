package sensors

import (
	"fmt"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// captureInto copies the raw bytes of port into dst under the port's read lock
// and returns the mode and beacon channel they belong to. A port in ModeNone
// is not captured and dst is left zeroed.
func (s *Subsystem) captureInto(port domain.Port, dst *[domain.RawSize]byte) (domain.SensorMode, domain.BeaconChannel, error) {
	st, release, err := s.acquire(port)
	if err != nil {
		return domain.ModeNone, domain.BeaconCh1, err
	}
	defer release()

	st.mu.RLock()
	defer st.mu.RUnlock()

	l, ok := st.mode.Layout()
	if !ok {
		return domain.ModeNone, st.channel, nil
	}
	if err := s.region.Capture(port, l.Bus, dst); err != nil {
		return domain.ModeNone, st.channel, fmt.Errorf("capture %v: %w", port, err)
	}
	return st.mode, st.channel, nil
}

// ReadSensorData returns a snapshot of the port's raw bytes. The snapshot is a
// value; it never changes after it is returned.
func (s *Subsystem) ReadSensorData(port domain.Port) (domain.Snapshot, error) {
	snap := domain.Snapshot{Port: port}
	mode, _, err := s.captureInto(port, &snap.Data)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Mode = mode
	snap.Captured = s.now()
	return snap, nil
}

// ReadSensor decodes the first numeric field of the port's data according to
// its mode. Values outside a mode's range decode to domain.Disconnected, as
// does a port without a sensor.
func (s *Subsystem) ReadSensor(port domain.Port) (int, error) {
	var raw [domain.RawSize]byte
	mode, ch, err := s.captureInto(port, &raw)
	if err != nil {
		return domain.Disconnected, err
	}
	return mode.Scalar(&raw, ch), nil
}

// Sample captures port once and returns both the snapshot and its scalar decode
func (s *Subsystem) Sample(port domain.Port) (domain.Snapshot, int, error) {
	snap := domain.Snapshot{Port: port}
	mode, ch, err := s.captureInto(port, &snap.Data)
	if err != nil {
		return domain.Snapshot{}, domain.Disconnected, err
	}
	snap.Mode = mode
	snap.Captured = s.now()
	return snap, mode.Scalar(&snap.Data, ch), nil
}

// ReadValue decodes the port's data into the composite value of its mode
func (s *Subsystem) ReadValue(port domain.Port) (domain.Value, error) {
	var raw [domain.RawSize]byte
	mode, ch, err := s.captureInto(port, &raw)
	if err != nil {
		return nil, err
	}
	return domain.Decode(mode, &raw, ch), nil
}

// readKind captures port and checks that its mode decodes to kind
func (s *Subsystem) readKind(port domain.Port, kind domain.Kind, raw *[domain.RawSize]byte) error {
	mode, _, err := s.captureInto(port, raw)
	if err != nil {
		return err
	}
	if l, ok := mode.Layout(); !ok || l.Kind != kind {
		return fmt.Errorf("%v is in %v: %w", port, mode, domain.ErrInvalidMode)
	}
	return nil
}

// ReadRGB reads the three color channels of a port in COL_RGB mode
func (s *Subsystem) ReadRGB(port domain.Port) (domain.RGB, error) {
	var raw [domain.RawSize]byte
	if err := s.readKind(port, domain.KindRGB, &raw); err != nil {
		return domain.RGB{}, err
	}
	return domain.DecodeRGB(&raw), nil
}

// ReadGyro reads angle and rate of a port in a gyro mode
func (s *Subsystem) ReadGyro(port domain.Port) (domain.Gyro, error) {
	var raw [domain.RawSize]byte
	if err := s.readKind(port, domain.KindGyro, &raw); err != nil {
		return domain.Gyro{}, err
	}
	return domain.DecodeGyro(&raw), nil
}

// ReadIRSeekAllChannels reads position and strength of all four beacon
// channels of a port in IR_SEEK mode. Each call returns a new array.
func (s *Subsystem) ReadIRSeekAllChannels(port domain.Port) (domain.IRSeekChannels, error) {
	var raw [domain.RawSize]byte
	if err := s.readKind(port, domain.KindIRSeek, &raw); err != nil {
		return domain.IRSeekChannels{}, err
	}
	return domain.DecodeIRSeek(&raw), nil
}
