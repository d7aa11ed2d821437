//go:build linux

package lms

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

const iicPollInterval = 5 * time.Millisecond

type mapping struct {
	fd  int
	mem []byte
}

func mapDevice(path string, length int) (mapping, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return mapping{fd: -1}, fmt.Errorf("open %s: %w", path, err)
	}
	mem, err := unix.Mmap(fd, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return mapping{fd: -1}, fmt.Errorf("mmap %s: %w", path, err)
	}
	return mapping{fd: fd, mem: mem}, nil
}

func (m mapping) close() error {
	var err error
	if m.mem != nil {
		err = multierr.Append(err, unix.Munmap(m.mem))
	}
	if m.fd >= 0 {
		err = multierr.Append(err, unix.Close(m.fd))
	}
	return err
}

// Region is the mapped lms2012 input region
// This implements the ports.HardwareRegion interface
type Region struct {
	analog mapping
	uart   mapping
	iic    mapping

	mu     sync.Mutex
	setups [inputs]ports.PortSetup
}

func open(dev Devices) (ports.HardwareRegion, error) {
	r := &Region{
		analog: mapping{fd: -1},
		uart:   mapping{fd: -1},
		iic:    mapping{fd: -1},
	}
	var err error
	if r.analog, err = mapDevice(dev.Analog, analogMapLength); err != nil {
		return nil, multierr.Append(err, r.Close())
	}
	if r.uart, err = mapDevice(dev.UART, deviceMapLength); err != nil {
		return nil, multierr.Append(err, r.Close())
	}
	if r.iic, err = mapDevice(dev.IIC, deviceMapLength); err != nil {
		return nil, multierr.Append(err, r.Close())
	}
	for _, port := range domain.Ports() {
		r.setups[port] = ports.NewPortSetup(port, domain.ModeNone)
	}

	log.Info().
		Str("analog", dev.Analog).
		Str("uart", dev.UART).
		Str("iic", dev.IIC).
		Msg("mapped lms input devices")
	return r, nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Capture implements ports.HardwareRegion
func (r *Region) Capture(port domain.Port, bus domain.Bus, dst *[domain.RawSize]byte) error {
	if !port.Valid() {
		return domain.ErrInvalidPort
	}
	switch bus {
	case domain.BusAnalogPin1, domain.BusAnalogPin6:
		captureAnalog(r.analog.mem, bus, port, dst)
		return nil
	case domain.BusUART:
		return captureDevice(r.uart.mem, port, dst)
	case domain.BusIIC:
		return captureDevice(r.iic.mem, port, dst)
	default:
		*dst = [domain.RawSize]byte{}
		return nil
	}
}

// Configure implements ports.HardwareRegion
func (r *Region) Configure(setups ...ports.PortSetup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.setups
	for _, s := range setups {
		if !s.Port.Valid() {
			return domain.ErrInvalidPort
		}
		next[s.Port] = s
	}

	uart := buildDevcon(&next, domain.BusUART)
	if err := ioctl(r.uart.fd, uartSetConn, unsafe.Pointer(&uart)); err != nil {
		return fmt.Errorf("uart set connection: %w", err)
	}
	iic := buildDevcon(&next, domain.BusIIC)
	if err := ioctl(r.iic.fd, iicSetConn, unsafe.Pointer(&iic)); err != nil {
		return fmt.Errorf("iic set connection: %w", err)
	}
	r.setups = next
	return nil
}

// Command implements ports.HardwareRegion
func (r *Region) Command(port domain.Port, data []byte) error {
	if !port.Valid() {
		return domain.ErrInvalidPort
	}
	d, err := newIICWrite(port, data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < captureRetries*10; i++ {
		if err := ioctl(r.iic.fd, iicSetup, unsafe.Pointer(&d)); err != nil {
			return fmt.Errorf("iic setup on %v: %w", port, err)
		}
		if d.Result != iicBusy {
			return nil
		}
		time.Sleep(iicPollInterval)
	}
	return fmt.Errorf("iic setup on %v: device busy", port)
}

// Close implements ports.HardwareRegion
func (r *Region) Close() error {
	err := multierr.Combine(r.iic.close(), r.uart.close(), r.analog.close())
	r.analog, r.uart, r.iic = mapping{fd: -1}, mapping{fd: -1}, mapping{fd: -1}
	return err
}
