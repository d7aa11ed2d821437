// Package lms maps the EV3 firmware's input device files.
//
// The analog, UART and IIC drivers of the lms2012 firmware each export a
// shared-memory map. UART and IIC devices publish their samples into a ring
// of DEVICE_LOGBUF_SIZE slots per port together with the index of the slot
// written last; the analog driver publishes one ADC value per pin.
package lms

import (
	"encoding/binary"
	"errors"
	"unsafe"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

// Devices names the firmware device files
type Devices struct {
	Analog string
	UART   string
	IIC    string
}

// DefaultDevices returns the device paths of a stock EV3 brick
func DefaultDevices() Devices {
	return Devices{
		Analog: "/dev/lms_analog",
		UART:   "/dev/lms_uart",
		IIC:    "/dev/lms_iic",
	}
}

// Provider returns a RegionProvider that opens and maps dev
func Provider(dev Devices) ports.RegionProvider {
	return ports.RegionProviderFunc(func() (ports.HardwareRegion, error) {
		return open(dev)
	})
}

// ErrTornCapture is returned when the firmware kept moving the ring while a slot was copied
var ErrTornCapture = errors.New("device buffer changed during capture")

const (
	inputs         = domain.NumPorts
	maxDeviceModes = 8
	typeDataSize   = 56
	logBufSize     = 300
	dataLength     = domain.RawSize

	// UARTMAP and IICMAP share their leading layout:
	// TypeData[inputs][maxDeviceModes], Repeat[inputs][logBufSize] (uint16),
	// Raw[inputs][logBufSize][dataLength], Actual[inputs] (uint16).
	repeatOffset    = inputs * maxDeviceModes * typeDataSize
	rawOffset       = repeatOffset + inputs*logBufSize*2
	actualOffset    = rawOffset + inputs*logBufSize*dataLength
	deviceMapLength = actualOffset + inputs*2

	// ANALOG starts with InPin1[inputs] and InPin6[inputs] (int16)
	analogPin1Offset = 0
	analogPin6Offset = inputs * 2
	analogMapLength  = analogPin6Offset + inputs*2

	captureRetries = 4
)

// Connection and type codes of the DEVCON control block
const (
	connNXTDumb   int8 = 119
	connNXTIIC    int8 = 120
	connInputDumb int8 = 121
	connInputUART int8 = 122
	connNone      int8 = 126

	typeNone int8 = 126
)

// devcon is the argument of the UART and IIC SET_CONN ioctls
type devcon struct {
	Connection [inputs]int8
	Type       [inputs]int8
	Mode       [inputs]int8
}

// iicDat is the argument of the IIC_SETUP ioctl
type iicDat struct {
	Result int32
	Port   int8
	Repeat int8
	Time   int16
	WrLng  int8
	WrData [dataLength]byte
	RdLng  int8
	RdData [dataLength]byte
}

const iicBusy int32 = 1

const (
	iocWrite = 1
	iocRead  = 2
)

func iowr(typ byte, nr, size uintptr) uintptr {
	return (iocRead|iocWrite)<<30 | size<<16 | uintptr(typ)<<8 | nr
}

var (
	uartSetConn = iowr('u', 0, unsafe.Sizeof(devcon{}))
	iicSetConn  = iowr('i', 2, unsafe.Sizeof(devcon{}))
	iicSetup    = iowr('i', 5, unsafe.Sizeof(iicDat{}))
)

func connection(bus domain.Bus) int8 {
	switch bus {
	case domain.BusUART:
		return connInputUART
	case domain.BusIIC:
		return connNXTIIC
	case domain.BusAnalogPin6:
		return connInputDumb
	case domain.BusAnalogPin1:
		return connNXTDumb
	default:
		return connNone
	}
}

// buildDevcon returns the control block for the ports of setups attached to bus;
// every other port is disconnected
func buildDevcon(setups *[inputs]ports.PortSetup, bus domain.Bus) devcon {
	var dc devcon
	for i, s := range setups {
		if s.Bus != bus || s.Mode == domain.ModeNone {
			dc.Connection[i] = connNone
			dc.Type[i] = typeNone
			continue
		}
		dc.Connection[i] = connection(bus)
		dc.Type[i] = s.DeviceType
		dc.Mode[i] = s.DeviceMode
	}
	return dc
}

func slotOffset(port domain.Port, slot int) int {
	return rawOffset + (int(port)*logBufSize+slot)*dataLength
}

func actualSlot(m []byte, port domain.Port) int {
	return int(binary.LittleEndian.Uint16(m[actualOffset+2*int(port):])) % logBufSize
}

// captureDevice copies the last written ring slot of port, retrying while the
// firmware advances the ring underneath the copy
func captureDevice(m []byte, port domain.Port, dst *[domain.RawSize]byte) error {
	for i := 0; i < captureRetries; i++ {
		slot := actualSlot(m, port)
		copy(dst[:], m[slotOffset(port, slot):])
		if actualSlot(m, port) == slot {
			return nil
		}
	}
	return ErrTornCapture
}

// captureAnalog stores the ADC value of port as a little-endian int16
func captureAnalog(m []byte, bus domain.Bus, port domain.Port, dst *[domain.RawSize]byte) {
	off := analogPin1Offset
	if bus == domain.BusAnalogPin6 {
		off = analogPin6Offset
	}
	*dst = [domain.RawSize]byte{}
	copy(dst[:2], m[off+2*int(port):])
}

func newIICWrite(port domain.Port, data []byte) (iicDat, error) {
	if len(data) > dataLength {
		return iicDat{}, errors.New("iic write longer than device buffer")
	}
	d := iicDat{
		Port:   int8(port),
		Repeat: 1,
		WrLng:  int8(len(data)),
	}
	copy(d.WrData[:], data)
	return d, nil
}
