package ports

import (
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// PortSetup is the control-region entry for one port
type PortSetup struct {
	Port       domain.Port
	Mode       domain.SensorMode
	Bus        domain.Bus
	DeviceType int8
	DeviceMode int8
}

// NewPortSetup builds the control entry that selects mode on port.
// ModeNone produces a disconnected entry.
func NewPortSetup(port domain.Port, mode domain.SensorMode) PortSetup {
	setup := PortSetup{Port: port, Mode: mode}
	if l, ok := mode.Layout(); ok {
		setup.Bus = l.Bus
		setup.DeviceType = l.DeviceType
		setup.DeviceMode = l.DeviceMode
	}
	return setup
}

// HardwareRegion is the mapped sensor data and control region
// This is a PORT - adapters (lms, mock) will implement it
type HardwareRegion interface {
	// Capture copies the current bytes of port on bus into dst. The copy must be
	// coherent against the firmware's own refreshes of the buffer.
	Capture(port domain.Port, bus domain.Bus, dst *[domain.RawSize]byte) error

	// Configure writes the connection/type/mode of every given port in a single
	// control-region update
	Configure(setups ...PortSetup) error

	// Command writes bytes to the device register space behind an IIC port
	Command(port domain.Port, data []byte) error

	// Close unmaps the region and releases any resources
	Close() error
}

// RegionProvider maps a HardwareRegion
type RegionProvider interface {
	Map() (HardwareRegion, error)
}

// RegionProviderFunc adapts a function to RegionProvider
type RegionProviderFunc func() (HardwareRegion, error)

// Map implements RegionProvider
func (f RegionProviderFunc) Map() (HardwareRegion, error) {
	return f()
}
