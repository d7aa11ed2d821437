package sensors

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

type portState struct {
	mu          sync.RWMutex
	mode        domain.SensorMode
	channel     domain.BeaconChannel
	calibration *CalibrationSession
}

func (st *portState) reset() {
	st.mode = domain.ModeNone
	st.channel = domain.BeaconCh1
	st.calibration = nil
}

// PortStatus describes the registry entry of one port
type PortStatus struct {
	Port        domain.Port
	Mode        domain.SensorMode
	Channel     domain.BeaconChannel
	Calibrating bool
}

// Subsystem is the sensor port registry and the entry point of every sensor operation
type Subsystem struct {
	provider ports.RegionProvider
	now      func() time.Time

	mu     sync.RWMutex
	region ports.HardwareRegion
	// configured records that SetAllSensorModes succeeded since the last Init
	configured bool
	ports      [domain.NumPorts]portState
}

// New creates an uninitialized subsystem that maps its hardware through provider
func New(provider ports.RegionProvider) *Subsystem {
	s := &Subsystem{
		provider: provider,
		now:      time.Now,
	}
	for i := range s.ports {
		s.ports[i].reset()
	}
	return s
}

// Init maps the hardware region and resets every port to ModeNone, in the
// registry and in the control region.
// Calling Init on an initialized subsystem does nothing.
func (s *Subsystem) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region != nil {
		return nil
	}

	region, err := s.provider.Map()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrHardwareUnavailable, err)
	}
	if region == nil {
		return domain.ErrHardwareUnavailable
	}

	setups := make([]ports.PortSetup, 0, domain.NumPorts)
	for _, port := range domain.Ports() {
		setups = append(setups, ports.NewPortSetup(port, domain.ModeNone))
	}
	if err := region.Configure(setups...); err != nil {
		err = fmt.Errorf("%w: reset ports: %w", domain.ErrHardwareUnavailable, err)
		return multierr.Append(err, region.Close())
	}

	s.region = region
	s.configured = false
	for i := range s.ports {
		s.ports[i].reset()
	}

	log.Info().Msg("sensor subsystem initialized")
	return nil
}

// IsInitialized reports whether the hardware region is mapped
func (s *Subsystem) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region != nil
}

// Shutdown stops running compass calibrations, unmaps the hardware region and
// resets every port. A second call does nothing.
func (s *Subsystem) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region == nil {
		return nil
	}

	var err error
	for i := range s.ports {
		st := &s.ports[i]
		if st.calibration != nil && st.mode.IsCompass() {
			err = multierr.Append(err, s.region.Command(domain.Port(i), compassMeasure))
		}
		st.reset()
	}
	err = multierr.Append(err, s.region.Close())

	s.region = nil
	s.configured = false

	if err != nil {
		log.Warn().Err(err).Msg("sensor subsystem shut down with errors")
		return fmt.Errorf("shutdown sensors: %w", err)
	}
	log.Info().Msg("sensor subsystem shut down")
	return nil
}

// acquire validates port and holds the lifecycle read lock until release is called
func (s *Subsystem) acquire(port domain.Port) (*portState, func(), error) {
	if !port.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", domain.ErrInvalidPort, int(port))
	}

	s.mu.RLock()
	if s.region == nil {
		s.mu.RUnlock()
		return nil, nil, domain.ErrNotInitialized
	}
	return &s.ports[port], s.mu.RUnlock, nil
}

// SensorName returns the mode currently assigned to port
func (s *Subsystem) SensorName(port domain.Port) (domain.SensorMode, error) {
	st, release, err := s.acquire(port)
	if err != nil {
		return domain.ModeNone, err
	}
	defer release()

	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.mode, nil
}

// Status returns the registry entries of all ports
func (s *Subsystem) Status() ([domain.NumPorts]PortStatus, error) {
	var out [domain.NumPorts]PortStatus

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.region == nil {
		return out, domain.ErrNotInitialized
	}

	for i := range s.ports {
		st := &s.ports[i]
		st.mu.RLock()
		out[i] = PortStatus{
			Port:        domain.Port(i),
			Mode:        st.mode,
			Channel:     st.channel,
			Calibrating: st.calibration != nil,
		}
		st.mu.RUnlock()
	}
	return out, nil
}
