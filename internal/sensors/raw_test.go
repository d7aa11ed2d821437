package sensors

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/adapters/mock"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

func TestReadSensorData_NoSensor(t *testing.T) {
	s, region := newTestSubsystem(t)
	region.SetRaw(domain.Input1, []byte{1, 2, 3})

	snap, err := s.ReadSensorData(domain.Input1)
	if err != nil {
		t.Fatalf("ReadSensorData failed: %v", err)
	}
	if snap.Mode != domain.ModeNone {
		t.Errorf("expected ModeNone, got %v", snap.Mode)
	}
	if snap.Data != ([domain.RawSize]byte{}) {
		t.Errorf("expected empty snapshot, got %x", snap.Data)
	}
	if region.Captures() != 0 {
		t.Error("a port without a sensor must not be captured")
	}

	value, err := s.ReadSensor(domain.Input1)
	if err != nil {
		t.Fatalf("ReadSensor failed: %v", err)
	}
	if value != domain.Disconnected {
		t.Errorf("expected disconnected sentinel, got %d", value)
	}
}

func TestReadSensorData_SnapshotIsACopy(t *testing.T) {
	s, region := newTestSubsystem(t)

	if err := s.SetSensorMode(domain.Input2, domain.USDistMM); err != nil {
		t.Fatalf("SetSensorMode failed: %v", err)
	}
	region.SetRaw(domain.Input2, []byte{0x2C, 0x01})

	snap, err := s.ReadSensorData(domain.Input2)
	if err != nil {
		t.Fatalf("ReadSensorData failed: %v", err)
	}
	if snap.Port != domain.Input2 || snap.Mode != domain.USDistMM {
		t.Errorf("unexpected snapshot tag %v/%v", snap.Port, snap.Mode)
	}
	if diff := cmp.Diff([]byte{0x2C, 0x01}, snap.Bytes()); diff != "" {
		t.Errorf("meaningful bytes mismatch (-want +got):\n%s", diff)
	}

	region.SetRaw(domain.Input2, []byte{0xFF, 0x00})
	if snap.Data[0] != 0x2C {
		t.Error("snapshot changed after the hardware was updated")
	}
}

func TestReadSensor(t *testing.T) {
	tests := []struct {
		name string
		mode domain.SensorMode
		raw  []byte
		want int
	}{
		{name: "touch pressed", mode: domain.TouchPress, raw: []byte{0x00, 0x0F}, want: 1},
		{name: "reflect", mode: domain.ColorReflect, raw: []byte{64}, want: 64},
		{name: "ultrasonic cm", mode: domain.USDistCM, raw: []byte{0xE8, 0x03}, want: 100},
		{name: "gyro rate", mode: domain.GyroRate, raw: []byte{0x00, 0x00, 0xF6, 0xFF}, want: -10},
		{name: "temperature", mode: domain.NXTTempC, raw: []byte{0x14, 0x80}, want: 205},
		{name: "sound out of range", mode: domain.NXTSoundDB, raw: []byte{0xFF, 0xFF}, want: domain.Disconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, region := newTestSubsystem(t)
			if err := s.SetSensorMode(domain.Input1, tt.mode); err != nil {
				t.Fatalf("SetSensorMode failed: %v", err)
			}
			region.SetRaw(domain.Input1, tt.raw)

			got, err := s.ReadSensor(domain.Input1)
			if err != nil {
				t.Fatalf("ReadSensor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestReadSensor_CaptureError(t *testing.T) {
	s, region := newTestSubsystem(t)
	if err := s.SetSensorMode(domain.Input1, domain.ColorAmbient); err != nil {
		t.Fatalf("SetSensorMode failed: %v", err)
	}

	cause := errors.New("bus fault")
	region.SetCaptureError(cause)

	if _, err := s.ReadSensor(domain.Input1); !errors.Is(err, cause) {
		t.Errorf("expected capture error, got %v", err)
	}
}

func TestReadIRSeekAllChannels_NoBeacon(t *testing.T) {
	s, region := newTestSubsystem(t)
	if err := s.SetSensorMode(domain.Input3, domain.IRSeek); err != nil {
		t.Fatalf("SetSensorMode failed: %v", err)
	}
	raw := mock.NoBeacon()
	region.SetRaw(domain.Input3, raw[:])

	got, err := s.ReadIRSeekAllChannels(domain.Input3)
	if err != nil {
		t.Fatalf("ReadIRSeekAllChannels failed: %v", err)
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 entries, got %d", len(got))
	}
	for i := 0; i < len(got); i += 2 {
		if got[i] != domain.IRSeekAbsentPosition {
			t.Errorf("entry %d: expected position sentinel, got %d", i, got[i])
		}
		if got[i+1] != 128 {
			t.Errorf("entry %d: expected raw 128, got %d", i+1, got[i+1])
		}
	}
}

func TestReadIRSeekAllChannels_FreshPerCall(t *testing.T) {
	s, region := newTestSubsystem(t)
	if err := s.SetSensorMode(domain.Input3, domain.IRSeek); err != nil {
		t.Fatalf("SetSensorMode failed: %v", err)
	}
	region.SetRaw(domain.Input3, []byte{0x0A, 40, 0, 0x80, 0, 0x80, 0, 0x80})

	first, err := s.ReadIRSeekAllChannels(domain.Input3)
	if err != nil {
		t.Fatalf("ReadIRSeekAllChannels failed: %v", err)
	}

	region.SetRaw(domain.Input3, []byte{0xF1, 60, 0, 0x80, 0, 0x80, 0, 0x80})
	second, err := s.ReadIRSeekAllChannels(domain.Input3)
	if err != nil {
		t.Fatalf("ReadIRSeekAllChannels failed: %v", err)
	}

	if first.Position(domain.BeaconCh1) != 10 || first.Strength(domain.BeaconCh1) != 40 {
		t.Errorf("first result was overwritten: %v", first)
	}
	if second.Position(domain.BeaconCh1) != -15 || second.Strength(domain.BeaconCh1) != 60 {
		t.Errorf("unexpected second result: %v", second)
	}
}

func TestTypedReads_WrongMode(t *testing.T) {
	s, _ := newTestSubsystem(t)
	if err := s.SetSensorMode(domain.Input1, domain.TouchPress); err != nil {
		t.Fatalf("SetSensorMode failed: %v", err)
	}

	if _, err := s.ReadIRSeekAllChannels(domain.Input1); !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("ReadIRSeekAllChannels: expected ErrInvalidMode, got %v", err)
	}
	if _, err := s.ReadRGB(domain.Input1); !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("ReadRGB: expected ErrInvalidMode, got %v", err)
	}
	if _, err := s.ReadGyro(domain.Input1); !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("ReadGyro: expected ErrInvalidMode, got %v", err)
	}
}

func TestReadValue(t *testing.T) {
	s, region := newTestSubsystem(t)

	if err := s.SetAllSensorModes(domain.ColorRGB, domain.GyroAngle, domain.IRSeek, domain.ModeNone); err != nil {
		t.Fatalf("SetAllSensorModes failed: %v", err)
	}
	region.SetRaw(domain.Input1, []byte{0xFF, 0x03, 0xFF, 0x01, 0x00, 0x00})
	region.SetRaw(domain.Input2, []byte{0x5A, 0x00, 0x03, 0x00})
	noBeacon := mock.NoBeacon()
	region.SetRaw(domain.Input3, noBeacon[:])

	tests := []struct {
		port domain.Port
		want domain.Value
	}{
		{port: domain.Input1, want: domain.RGB{R: 255, G: 127, B: 0}},
		{port: domain.Input2, want: domain.Gyro{Angle: 90, Rate: 3}},
		{port: domain.Input3, want: domain.IRSeekChannels{-128, 128, -128, 128, -128, 128, -128, 128}},
		{port: domain.Input4, want: domain.Scalar(domain.Disconnected)},
	}

	for _, tt := range tests {
		t.Run(tt.port.String(), func(t *testing.T) {
			got, err := s.ReadValue(tt.port)
			if err != nil {
				t.Fatalf("ReadValue failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReadValue mismatch (-want +got):\n%s", diff)
			}
		})
	}

	rgb, err := s.ReadRGB(domain.Input1)
	if err != nil {
		t.Fatalf("ReadRGB failed: %v", err)
	}
	packed, _ := s.ReadSensor(domain.Input1)
	if domain.RedFromRGB(packed) != rgb.R || domain.GreenFromRGB(packed) != rgb.G || domain.BlueFromRGB(packed) != rgb.B {
		t.Errorf("packed scalar %#x does not match channels %+v", packed, rgb)
	}
}
