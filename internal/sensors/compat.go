package sensors

import "github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"

// InitSensors is the old name of Init.
//
// Deprecated: use Init.
func (s *Subsystem) InitSensors() error {
	return s.Init()
}

// SetAllSensorMode is the old name of SetAllSensorModes.
//
// Deprecated: use SetAllSensorModes.
func (s *Subsystem) SetAllSensorMode(m1, m2, m3, m4 domain.SensorMode) error {
	return s.SetAllSensorModes(m1, m2, m3, m4)
}

// SetIRBeaconCH is the old name of SetIRBeaconChannel.
//
// Deprecated: use SetIRBeaconChannel.
func (s *Subsystem) SetIRBeaconCH(port domain.Port, channel domain.BeaconChannel) error {
	return s.SetIRBeaconChannel(port, channel)
}
