package domain

import (
	"fmt"
	"strings"
)

// SensorMode is the interpretation assigned to a port's raw data.
// The numeric values match the sensor name codes of the EV3 firmware API.
type SensorMode int

// Sensor modes
const (
	ModeNone SensorMode = -1

	TouchPress SensorMode = 1

	ColorReflect SensorMode = 2
	ColorAmbient SensorMode = 3
	ColorColor   SensorMode = 4
	ColorRGB     SensorMode = 5

	USDistCM SensorMode = 6
	USDistMM SensorMode = 7
	USDistIn SensorMode = 8
	USListen SensorMode = 9

	GyroAngle SensorMode = 10
	GyroRate  SensorMode = 11

	IRProximity SensorMode = 12
	IRSeek      SensorMode = 13
	IRRemote    SensorMode = 14

	NXTIRSeekerDC     SensorMode = 20
	NXTIRSeekerAC     SensorMode = 21
	NXTTempC          SensorMode = 22
	NXTTempF          SensorMode = 23
	NXTSoundDB        SensorMode = 24
	NXTSoundDBA       SensorMode = 25
	NXTCompassCompass SensorMode = 26
	NXTCompassAngle   SensorMode = 27
)

var modeNames = map[SensorMode]string{
	ModeNone:          "NO_SEN",
	TouchPress:        "TOUCH_PRESS",
	ColorReflect:      "COL_REFLECT",
	ColorAmbient:      "COL_AMBIENT",
	ColorColor:        "COL_COLOR",
	ColorRGB:          "COL_RGB",
	USDistCM:          "US_DIST_CM",
	USDistMM:          "US_DIST_MM",
	USDistIn:          "US_DIST_IN",
	USListen:          "US_LISTEN",
	GyroAngle:         "GYRO_ANG",
	GyroRate:          "GYRO_RATE",
	IRProximity:       "IR_PROX",
	IRSeek:            "IR_SEEK",
	IRRemote:          "IR_REMOTE",
	NXTIRSeekerDC:     "NXT_IR_SEEKER_DC",
	NXTIRSeekerAC:     "NXT_IR_SEEKER_AC",
	NXTTempC:          "NXT_TEMP_C",
	NXTTempF:          "NXT_TEMP_F",
	NXTSoundDB:        "NXT_SOUND_DB",
	NXTSoundDBA:       "NXT_SOUND_DBA",
	NXTCompassCompass: "NXT_COMPASS_COMPASS",
	NXTCompassAngle:   "NXT_COMPASS_ANGLE",
}

func (m SensorMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SensorMode(%d)", int(m))
}

// Valid reports whether m is a member of the mode enumeration, ModeNone included
func (m SensorMode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// IsGyro reports whether m reads the EV3 gyro sensor
func (m SensorMode) IsGyro() bool {
	return m == GyroAngle || m == GyroRate
}

// IsCompass reports whether m reads the HiTechnic NXT compass
func (m SensorMode) IsCompass() bool {
	return m == NXTCompassCompass || m == NXTCompassAngle
}

// ParseMode resolves a firmware mode name such as "US_DIST_MM".
// Matching ignores case and surrounding whitespace.
func ParseMode(name string) (SensorMode, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for mode, n := range modeNames {
		if n == want {
			return mode, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// Modes returns every valid mode except ModeNone, in code order
func Modes() []SensorMode {
	var modes []SensorMode
	for code := TouchPress; code <= NXTCompassAngle; code++ {
		if code.Valid() {
			modes = append(modes, code)
		}
	}
	return modes
}
