package lms

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

func TestMapOffsets(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"repeat", repeatOffset, 1792},
		{"raw", rawOffset, 4192},
		{"actual", actualOffset, 42592},
		{"analog pin6", analogPin6Offset, 8},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s offset: expected %d, got %d", tt.name, tt.want, tt.got)
		}
	}
}

func TestIoctlNumbers(t *testing.T) {
	if unsafe.Sizeof(devcon{}) != 12 {
		t.Fatalf("expected 12-byte devcon, got %d", unsafe.Sizeof(devcon{}))
	}
	if uartSetConn != 0xC00C7500 {
		t.Errorf("UART_SET_CONN: got %#x", uartSetConn)
	}
	if iicSetConn != 0xC00C6902 {
		t.Errorf("IIC_SET_CONN: got %#x", iicSetConn)
	}
	if iicSetup>>16&0x3FFF != uintptr(unsafe.Sizeof(iicDat{})) {
		t.Errorf("IIC_SETUP size field: got %d", iicSetup>>16&0x3FFF)
	}
}

func TestBuildDevcon(t *testing.T) {
	setups := [inputs]ports.PortSetup{
		ports.NewPortSetup(domain.Input1, domain.TouchPress),
		ports.NewPortSetup(domain.Input2, domain.ColorRGB),
		ports.NewPortSetup(domain.Input3, domain.NXTCompassCompass),
		ports.NewPortSetup(domain.Input4, domain.ModeNone),
	}

	uart := buildDevcon(&setups, domain.BusUART)
	want := devcon{
		Connection: [inputs]int8{connNone, connInputUART, connNone, connNone},
		Type:       [inputs]int8{typeNone, domain.TypeEV3Color, typeNone, typeNone},
		Mode:       [inputs]int8{0, 4, 0, 0},
	}
	if diff := cmp.Diff(want, uart); diff != "" {
		t.Errorf("uart devcon mismatch (-want +got):\n%s", diff)
	}

	iic := buildDevcon(&setups, domain.BusIIC)
	if iic.Connection[2] != connNXTIIC || iic.Type[2] != domain.TypeIICUnknown {
		t.Errorf("expected compass on IIC port 3, got %+v", iic)
	}
	if iic.Connection[1] != connNone {
		t.Errorf("expected UART port absent from IIC devcon, got %d", iic.Connection[1])
	}
}

func TestCaptureDevice_ActualSlot(t *testing.T) {
	m := make([]byte, deviceMapLength)
	port := domain.Input3
	slot := 42
	binary.LittleEndian.PutUint16(m[actualOffset+2*int(port):], uint16(slot))

	want := [domain.RawSize]byte{}
	for i := range want {
		want[i] = byte(i + 1)
	}
	copy(m[slotOffset(port, slot):], want[:])
	// a stale slot that must not be picked up
	copy(m[slotOffset(port, slot-1):], []byte{0xEE, 0xEE})

	var got [domain.RawSize]byte
	if err := captureDevice(m, port, &got); err != nil {
		t.Fatalf("captureDevice failed: %v", err)
	}
	if got != want {
		t.Errorf("expected slot %d bytes %v, got %v", slot, want, got)
	}
}

func TestCaptureAnalog(t *testing.T) {
	m := make([]byte, analogMapLength)
	binary.LittleEndian.PutUint16(m[analogPin6Offset+2:], 0x0F00)
	binary.LittleEndian.PutUint16(m[analogPin1Offset+2:], 0x0123)

	var dst [domain.RawSize]byte
	dst[5] = 0xFF
	captureAnalog(m, domain.BusAnalogPin6, domain.Input2, &dst)
	if dst[0] != 0x00 || dst[1] != 0x0F || dst[5] != 0 {
		t.Errorf("unexpected pin6 capture %v", dst[:6])
	}
	if got := domain.TouchPress.Scalar(&dst, domain.BeaconCh1); got != 1 {
		t.Errorf("expected pressed touch sensor, got %d", got)
	}

	captureAnalog(m, domain.BusAnalogPin1, domain.Input2, &dst)
	if dst[0] != 0x23 || dst[1] != 0x01 {
		t.Errorf("unexpected pin1 capture %v", dst[:2])
	}
}

func TestNewIICWrite(t *testing.T) {
	d, err := newIICWrite(domain.Input4, []byte{0x02, 0x41, 0x43})
	if err != nil {
		t.Fatalf("newIICWrite failed: %v", err)
	}
	if d.Port != 3 || d.WrLng != 3 || d.Repeat != 1 || d.WrData[2] != 0x43 {
		t.Errorf("unexpected iic request %+v", d)
	}

	if _, err := newIICWrite(domain.Input1, make([]byte, dataLength+1)); err == nil {
		t.Error("expected error for oversized write")
	}
}
