package sensors

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

// SetSensorMode selects the mode of one port. ModeNone disconnects the port.
// The next read is decoded with the new mode even if the sensor has not settled yet.
func (s *Subsystem) SetSensorMode(port domain.Port, mode domain.SensorMode) error {
	st, release, err := s.acquire(port)
	if err != nil {
		return err
	}
	defer release()

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.calibration != nil {
		return fmt.Errorf("set mode on %v: %w", port, domain.ErrCalibrationInProgress)
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidMode, int(mode))
	}

	if err := s.region.Configure(ports.NewPortSetup(port, mode)); err != nil {
		return fmt.Errorf("configure %v: %w", port, err)
	}

	prev := st.mode
	st.mode = mode

	log.Debug().
		Stringer("port", port).
		Stringer("from", prev).
		Stringer("to", mode).
		Msg("sensor mode changed")
	return nil
}

// SetAllSensorModes configures all four ports with one control-region write.
// It succeeds once per Init; later calls fail with ErrAlreadyConfigured.
func (s *Subsystem) SetAllSensorModes(m1, m2, m3, m4 domain.SensorMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region == nil {
		return domain.ErrNotInitialized
	}
	if s.configured {
		return domain.ErrAlreadyConfigured
	}

	modes := [domain.NumPorts]domain.SensorMode{m1, m2, m3, m4}
	setups := make([]ports.PortSetup, 0, domain.NumPorts)
	for i, mode := range modes {
		port := domain.Port(i)
		if !mode.Valid() {
			return fmt.Errorf("%w: %d on %v", domain.ErrInvalidMode, int(mode), port)
		}
		if s.ports[i].calibration != nil {
			return fmt.Errorf("set mode on %v: %w", port, domain.ErrCalibrationInProgress)
		}
		setups = append(setups, ports.NewPortSetup(port, mode))
	}

	if err := s.region.Configure(setups...); err != nil {
		return fmt.Errorf("configure all ports: %w", err)
	}

	for i, mode := range modes {
		s.ports[i].mode = mode
	}
	s.configured = true

	log.Info().
		Stringer("in1", m1).
		Stringer("in2", m2).
		Stringer("in3", m3).
		Stringer("in4", m4).
		Msg("all sensor modes configured")
	return nil
}

// SetIRBeaconChannel selects the beacon channel followed by IR seek and
// remote reads on port. It can be changed at any time.
func (s *Subsystem) SetIRBeaconChannel(port domain.Port, channel domain.BeaconChannel) error {
	st, release, err := s.acquire(port)
	if err != nil {
		return err
	}
	defer release()

	if !channel.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidChannel, int(channel))
	}

	st.mu.Lock()
	st.channel = channel
	st.mu.Unlock()
	return nil
}

// ResetGyroSensor zeroes the gyro angle by cycling the device through rate
// mode and back. Raw reads are noisy for a short while afterwards.
func (s *Subsystem) ResetGyroSensor(port domain.Port) error {
	st, release, err := s.acquire(port)
	if err != nil {
		return err
	}
	defer release()

	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.mode.IsGyro() {
		return fmt.Errorf("reset %v in %v: %w", port, st.mode, domain.ErrInvalidModeForReset)
	}

	toggle := ports.NewPortSetup(port, st.mode)
	toggle.DeviceMode = domain.GyroDeviceRate
	if err := s.region.Configure(toggle); err != nil {
		return fmt.Errorf("reset gyro on %v: %w", port, err)
	}
	if err := s.region.Configure(ports.NewPortSetup(port, st.mode)); err != nil {
		return fmt.Errorf("reset gyro on %v: %w", port, err)
	}

	log.Debug().Stringer("port", port).Msg("gyro reset")
	return nil
}
