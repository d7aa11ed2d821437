package domain

import "fmt"

// Port identifies one of the four physical input ports
type Port int

// Input ports, numbered like the firmware (INPUT_1 is 0)
const (
	Input1 Port = iota
	Input2
	Input3
	Input4
)

// NumPorts is the number of physical input ports
const NumPorts = 4

// Valid reports whether p names a physical input port
func (p Port) Valid() bool {
	return p >= Input1 && p <= Input4
}

func (p Port) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Port(%d)", int(p))
	}
	return fmt.Sprintf("IN_%d", int(p)+1)
}

// Ports returns all input ports in order
func Ports() [NumPorts]Port {
	return [NumPorts]Port{Input1, Input2, Input3, Input4}
}

// BeaconChannel selects which IR beacon channel a port's IR sensor follows
type BeaconChannel int

// Beacon channels
const (
	BeaconCh1 BeaconChannel = iota
	BeaconCh2
	BeaconCh3
	BeaconCh4
)

// IRChannels is the number of IR beacon channels
const IRChannels = 4

// Valid reports whether c is a supported beacon channel
func (c BeaconChannel) Valid() bool {
	return c >= BeaconCh1 && c <= BeaconCh4
}

// Beacon remote button codes reported in IR_REMOTE mode
const (
	BeaconOff = iota
	BeaconUpLeft
	BeaconDownLeft
	BeaconUpRight
	BeaconDownRight
	BeaconUp
	BeaconDiagUpLeft
	BeaconDiagUpRight
	BeaconDown
	BeaconOn
	BeaconLeft
	BeaconRight
)
