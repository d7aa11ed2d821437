package sensors

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// HiTechnic compass commands: I2C address, mode register, mode value
var (
	compassCalibrate = []byte{0x02, 0x41, 0x43}
	compassMeasure   = []byte{0x02, 0x41, 0x00}
)

// CalibrationSession is a running calibration on one port. It lasts until it
// is stopped or the subsystem shuts down; there is no timeout.
type CalibrationSession struct {
	Port    domain.Port
	Mode    domain.SensorMode
	Started time.Time
}

// StartCompassCalibration puts port into calibration. Mode changes on the
// port are refused until StopCompassCalibration. On a compass port the sensor
// is switched to its calibration mode. Starting twice keeps the first session.
func (s *Subsystem) StartCompassCalibration(port domain.Port) error {
	st, release, err := s.acquire(port)
	if err != nil {
		return err
	}
	defer release()

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.calibration != nil {
		return nil
	}

	if st.mode.IsCompass() {
		if err := s.region.Command(port, compassCalibrate); err != nil {
			return fmt.Errorf("start calibration on %v: %w", port, err)
		}
	}

	st.calibration = &CalibrationSession{
		Port:    port,
		Mode:    st.mode,
		Started: s.now(),
	}

	log.Info().
		Stringer("port", port).
		Stringer("mode", st.mode).
		Msg("calibration started")
	return nil
}

// StopCompassCalibration ends the calibration on port. It does nothing when no
// calibration is running. If the compass cannot be switched back the session
// stays active.
func (s *Subsystem) StopCompassCalibration(port domain.Port) error {
	st, release, err := s.acquire(port)
	if err != nil {
		return err
	}
	defer release()

	st.mu.Lock()
	defer st.mu.Unlock()

	session := st.calibration
	if session == nil {
		return nil
	}

	if st.mode.IsCompass() {
		if err := s.region.Command(port, compassMeasure); err != nil {
			return fmt.Errorf("stop calibration on %v: %w", port, err)
		}
	}
	st.calibration = nil

	log.Info().
		Stringer("port", port).
		Dur("elapsed", s.now().Sub(session.Started)).
		Msg("calibration stopped")
	return nil
}

// Calibration returns the running session of port, if any
func (s *Subsystem) Calibration(port domain.Port) (CalibrationSession, bool, error) {
	st, release, err := s.acquire(port)
	if err != nil {
		return CalibrationSession{}, false, err
	}
	defer release()

	st.mu.RLock()
	defer st.mu.RUnlock()

	if st.calibration == nil {
		return CalibrationSession{}, false, nil
	}
	return *st.calibration, true, nil
}
