package domain

import "encoding/binary"

// RawSize is the fixed length of every raw snapshot
const RawSize = 32

// Disconnected is the scalar sentinel for raw bytes outside a mode's valid range,
// typically a sensor that is unplugged or still settling after a mode change.
const Disconnected = -1

// Bus names the part of the hardware region a port's data is mapped from
type Bus int

// Hardware buses
const (
	BusNone Bus = iota
	BusAnalogPin6
	BusAnalogPin1
	BusUART
	BusIIC
)

func (b Bus) String() string {
	switch b {
	case BusAnalogPin6:
		return "analog-pin6"
	case BusAnalogPin1:
		return "analog-pin1"
	case BusUART:
		return "uart"
	case BusIIC:
		return "iic"
	}
	return "none"
}

// Kind is the shape of a composite decode
type Kind int

// Value kinds
const (
	KindScalar Kind = iota
	KindRGB
	KindIRSeek
	KindGyro
)

var kindNames = [...]string{"scalar", "rgb", "ir_seek", "gyro"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Device type codes understood by the input drivers
const (
	TypeNXTSound   int8 = 3
	TypeNXTTemp    int8 = 6
	TypeEV3Touch   int8 = 16
	TypeEV3Color   int8 = 29
	TypeEV3US      int8 = 30
	TypeEV3Gyro    int8 = 32
	TypeEV3IR      int8 = 33
	TypeIICUnknown int8 = 100
)

// Gyro device modes. Both gyro sensor modes run the device in angle+rate mode
// so that angle and rate are decoded from the same bytes.
const (
	GyroDeviceAngle        int8 = 0
	GyroDeviceRate         int8 = 1
	GyroDeviceAngleAndRate int8 = 3
)

// Layout describes where a mode's data lives and how its bytes are interpreted
type Layout struct {
	Bus        Bus
	DeviceType int8
	DeviceMode int8
	// Width is the number of meaningful bytes at the start of the snapshot
	Width int
	Kind  Kind

	scalar func(raw *[RawSize]byte, ch BeaconChannel) int
}

var layouts = map[SensorMode]Layout{
	TouchPress: {BusAnalogPin6, TypeEV3Touch, 0, 2, KindScalar, decodeTouch},

	ColorReflect: {BusUART, TypeEV3Color, 0, 1, KindScalar, decodePercent},
	ColorAmbient: {BusUART, TypeEV3Color, 1, 1, KindScalar, decodePercent},
	ColorColor:   {BusUART, TypeEV3Color, 2, 1, KindScalar, decodeColorIndex},
	ColorRGB:     {BusUART, TypeEV3Color, 4, 6, KindRGB, decodePackedRGB},

	USDistCM: {BusUART, TypeEV3US, 0, 2, KindScalar, decodeTenths},
	USDistMM: {BusUART, TypeEV3US, 0, 2, KindScalar, decodeU16},
	USDistIn: {BusUART, TypeEV3US, 1, 2, KindScalar, decodeTenths},
	USListen: {BusUART, TypeEV3US, 2, 1, KindScalar, decodeListen},

	GyroAngle: {BusUART, TypeEV3Gyro, GyroDeviceAngleAndRate, 4, KindGyro, decodeGyroAngle},
	GyroRate:  {BusUART, TypeEV3Gyro, GyroDeviceAngleAndRate, 4, KindGyro, decodeGyroRate},

	IRProximity: {BusUART, TypeEV3IR, 0, 1, KindScalar, decodePercent},
	IRSeek:      {BusUART, TypeEV3IR, 1, 2 * IRChannels, KindIRSeek, decodeSeekPosition},
	IRRemote:    {BusUART, TypeEV3IR, 2, IRChannels, KindScalar, decodeRemoteButton},

	NXTIRSeekerDC:     {BusIIC, TypeIICUnknown, 0, 1, KindScalar, decodeSeekerDirection},
	NXTIRSeekerAC:     {BusIIC, TypeIICUnknown, 1, 1, KindScalar, decodeSeekerDirection},
	NXTTempC:          {BusIIC, TypeNXTTemp, 0, 2, KindScalar, decodeTempC},
	NXTTempF:          {BusIIC, TypeNXTTemp, 0, 2, KindScalar, decodeTempF},
	NXTSoundDB:        {BusAnalogPin1, TypeNXTSound, 0, 2, KindScalar, decodeSound},
	NXTSoundDBA:       {BusAnalogPin1, TypeNXTSound, 1, 2, KindScalar, decodeSound},
	NXTCompassCompass: {BusIIC, TypeIICUnknown, 0, 2, KindScalar, decodeCompass},
	NXTCompassAngle:   {BusIIC, TypeIICUnknown, 0, 2, KindScalar, decodeCompassAngle},
}

// Layout returns the raw layout of m. ModeNone and unknown modes have none.
func (m SensorMode) Layout() (Layout, bool) {
	l, ok := layouts[m]
	return l, ok
}

// Scalar decodes the first numeric field of raw as m defines it.
// ModeNone yields Disconnected.
func (m SensorMode) Scalar(raw *[RawSize]byte, ch BeaconChannel) int {
	l, ok := layouts[m]
	if !ok {
		return Disconnected
	}
	return l.scalar(raw, ch)
}

func le16(raw *[RawSize]byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(raw[off:]))
}

// decodeTouch maps the pin 6 ADC level: 0x0xx released, 0xFxx pressed, anything else Disconnected
func decodeTouch(raw *[RawSize]byte, _ BeaconChannel) int {
	adc := int(le16(raw, 0))
	if adc < 0 {
		return Disconnected
	}
	switch adc / 256 {
	case 0:
		return 0
	case 0xF:
		return 1
	}
	return Disconnected
}

func decodePercent(raw *[RawSize]byte, _ BeaconChannel) int {
	if raw[0] > 100 {
		return Disconnected
	}
	return int(raw[0])
}

func decodeColorIndex(raw *[RawSize]byte, _ BeaconChannel) int {
	if raw[0] > 7 {
		return Disconnected
	}
	return int(raw[0])
}

func decodeU16(raw *[RawSize]byte, _ BeaconChannel) int {
	return int(binary.LittleEndian.Uint16(raw[0:]))
}

func decodeTenths(raw *[RawSize]byte, ch BeaconChannel) int {
	return decodeU16(raw, ch) / 10
}

func decodeListen(raw *[RawSize]byte, _ BeaconChannel) int {
	if raw[0] > 1 {
		return Disconnected
	}
	return int(raw[0])
}

func decodeGyroAngle(raw *[RawSize]byte, _ BeaconChannel) int {
	return int(le16(raw, 0))
}

func decodeGyroRate(raw *[RawSize]byte, _ BeaconChannel) int {
	return int(le16(raw, 2))
}

func decodeSeekPosition(raw *[RawSize]byte, ch BeaconChannel) int {
	pos, _ := seekChannel(raw, ch)
	return pos
}

func decodeRemoteButton(raw *[RawSize]byte, ch BeaconChannel) int {
	b := raw[ch]
	if b > BeaconRight {
		return Disconnected
	}
	return int(b)
}

func decodeSeekerDirection(raw *[RawSize]byte, _ BeaconChannel) int {
	if raw[0] > 9 {
		return Disconnected
	}
	return int(raw[0])
}

// tempTenthsC reads the TMP275 register: 12-bit two's complement, left-justified, 1/16 °C
func tempTenthsC(raw *[RawSize]byte) int {
	v := int(int16(binary.BigEndian.Uint16(raw[0:])) >> 4)
	return v * 10 / 16
}

func decodeTempC(raw *[RawSize]byte, _ BeaconChannel) int {
	return tempTenthsC(raw)
}

func decodeTempF(raw *[RawSize]byte, _ BeaconChannel) int {
	return tempTenthsC(raw)*9/5 + 320
}

// decodeSound converts the inverted 12-bit pin 1 level to a 0..100 sound level
func decodeSound(raw *[RawSize]byte, _ BeaconChannel) int {
	adc := int(le16(raw, 0))
	if adc < 0 || adc > 4095 {
		return Disconnected
	}
	return (4095 - adc) * 100 / 4095
}

func compassHeading(raw *[RawSize]byte) int {
	return 2*int(raw[0]) + int(raw[1])
}

func decodeCompass(raw *[RawSize]byte, _ BeaconChannel) int {
	h := compassHeading(raw)
	if h >= 360 {
		return Disconnected
	}
	return h
}

func decodeCompassAngle(raw *[RawSize]byte, _ BeaconChannel) int {
	h := compassHeading(raw)
	if h >= 360 {
		return Disconnected
	}
	if h > 180 {
		h -= 360
	}
	return h
}
