//go:build !linux

package lms

import (
	"errors"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

func open(Devices) (ports.HardwareRegion, error) {
	return nil, errors.New("lms input devices are only available on linux")
}
