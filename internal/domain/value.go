package domain

import "encoding/binary"

// Value is a decoded sensor value: Scalar, RGB, IRSeekChannels or Gyro.
// Every decode produces a fresh value owned by the caller.
type Value interface {
	Kind() Kind
}

// Scalar is a single integer reading
type Scalar int

// Kind implements Value
func (Scalar) Kind() Kind { return KindScalar }

// RGB holds three 0..255 color channels
type RGB struct {
	R, G, B int
}

// Kind implements Value
func (RGB) Kind() Kind { return KindRGB }

// Packed returns the channels packed as 0xRRGGBB
func (c RGB) Packed() int {
	return PackRGB(c.R, c.G, c.B)
}

// Gyro holds the angle (degrees) and rate (degrees/second) read together
type Gyro struct {
	Angle int
	Rate  int
}

// Kind implements Value
func (Gyro) Kind() Kind { return KindGyro }

// IR seek sentinels for a channel without a detectable beacon
const (
	IRSeekAbsentPosition = -128
	IRSeekAbsentStrength = 128
)

// IRSeekChannels holds, for each beacon channel c, the position at index 2c
// (-25..25, or IRSeekAbsentPosition) and the raw strength at index 2c+1.
// It is an array, so every read returns an independent copy.
type IRSeekChannels [2 * IRChannels]int

// Kind implements Value
func (IRSeekChannels) Kind() Kind { return KindIRSeek }

// Position returns the beacon position on channel ch
func (s IRSeekChannels) Position(ch BeaconChannel) int {
	return s[2*int(ch)]
}

// Strength returns the raw beacon strength on channel ch
func (s IRSeekChannels) Strength(ch BeaconChannel) int {
	return s[2*int(ch)+1]
}

// Present reports whether a beacon was detected on channel ch
func (s IRSeekChannels) Present(ch BeaconChannel) bool {
	return s.Position(ch) != IRSeekAbsentPosition
}

// seekChannel decodes the heading/strength byte pair of one beacon channel
func seekChannel(raw *[RawSize]byte, ch BeaconChannel) (position, strength int) {
	heading := int(int8(raw[2*int(ch)]))
	strength = int(raw[2*int(ch)+1])
	if strength == IRSeekAbsentStrength || heading < -25 || heading > 25 {
		return IRSeekAbsentPosition, IRSeekAbsentStrength
	}
	return heading, strength
}

// DecodeIRSeek decodes all four beacon channels of an IR_SEEK snapshot
func DecodeIRSeek(raw *[RawSize]byte) IRSeekChannels {
	var out IRSeekChannels
	for ch := BeaconCh1; ch <= BeaconCh4; ch++ {
		out[2*int(ch)], out[2*int(ch)+1] = seekChannel(raw, ch)
	}
	return out
}

// DecodeRGB scales the three 10-bit RGB-RAW channels to 0..255
func DecodeRGB(raw *[RawSize]byte) RGB {
	channel := func(off int) int {
		v := int(binary.LittleEndian.Uint16(raw[off:]))
		if v > 1023 {
			v = 1023
		}
		return v * 255 / 1023
	}
	return RGB{R: channel(0), G: channel(2), B: channel(4)}
}

func decodePackedRGB(raw *[RawSize]byte, _ BeaconChannel) int {
	return DecodeRGB(raw).Packed()
}

// DecodeGyro decodes angle and rate from a gyro snapshot
func DecodeGyro(raw *[RawSize]byte) Gyro {
	return Gyro{Angle: decodeGyroAngle(raw, BeaconCh1), Rate: decodeGyroRate(raw, BeaconCh1)}
}

// Decode interprets raw according to mode. ModeNone decodes to Scalar(Disconnected).
func Decode(mode SensorMode, raw *[RawSize]byte, ch BeaconChannel) Value {
	l, ok := mode.Layout()
	if !ok {
		return Scalar(Disconnected)
	}
	switch l.Kind {
	case KindRGB:
		return DecodeRGB(raw)
	case KindIRSeek:
		return DecodeIRSeek(raw)
	case KindGyro:
		return DecodeGyro(raw)
	}
	return Scalar(l.scalar(raw, ch))
}
