package mock

import (
	"encoding/binary"
	"math/rand"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
)

// around returns base +/- variation
func around(rng *rand.Rand, base, variation int) int {
	if variation == 0 {
		return base
	}
	return base + rng.Intn(2*variation+1) - variation
}

// Simulate returns realistic raw bytes for mode in the layout the firmware uses
func Simulate(mode domain.SensorMode, rng *rand.Rand) [domain.RawSize]byte {
	var raw [domain.RawSize]byte
	le := binary.LittleEndian

	switch mode {
	case domain.TouchPress:
		level := uint16(0x0040)
		if rng.Intn(4) == 0 {
			level = 0x0F80
		}
		le.PutUint16(raw[0:], level)

	case domain.ColorReflect, domain.ColorAmbient, domain.IRProximity:
		raw[0] = byte(around(rng, 50, 20))

	case domain.ColorColor:
		raw[0] = byte(rng.Intn(8))

	case domain.ColorRGB:
		for off := 0; off < 6; off += 2 {
			le.PutUint16(raw[off:], uint16(rng.Intn(1024)))
		}

	case domain.USDistCM, domain.USDistMM, domain.USDistIn:
		le.PutUint16(raw[0:], uint16(around(rng, 500, 100)))

	case domain.GyroAngle, domain.GyroRate:
		le.PutUint16(raw[0:], uint16(int16(around(rng, 0, 180))))
		le.PutUint16(raw[2:], uint16(int16(around(rng, 0, 5))))

	case domain.IRSeek:
		raw[0] = byte(int8(around(rng, 0, 25)))
		raw[1] = byte(around(rng, 50, 30))
		for ch := 1; ch < domain.IRChannels; ch++ {
			raw[2*ch+1] = domain.IRSeekAbsentStrength
		}

	case domain.IRRemote:
		raw[0] = byte(rng.Intn(domain.BeaconRight + 1))

	case domain.NXTIRSeekerDC, domain.NXTIRSeekerAC:
		raw[0] = byte(rng.Intn(10))

	case domain.NXTTempC, domain.NXTTempF:
		sixteenths := around(rng, 22*16, 16)
		binary.BigEndian.PutUint16(raw[0:], uint16(int16(sixteenths<<4)))

	case domain.NXTSoundDB, domain.NXTSoundDBA:
		le.PutUint16(raw[0:], uint16(around(rng, 3000, 500)))

	case domain.NXTCompassCompass, domain.NXTCompassAngle:
		heading := rng.Intn(360)
		raw[0] = byte(heading / 2)
		raw[1] = byte(heading % 2)
	}
	return raw
}

// NoBeacon returns IR_SEEK bytes with no beacon on any channel
func NoBeacon() [domain.RawSize]byte {
	var raw [domain.RawSize]byte
	for ch := 0; ch < domain.IRChannels; ch++ {
		raw[2*ch+1] = domain.IRSeekAbsentStrength
	}
	return raw
}
