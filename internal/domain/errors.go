package domain

import "errors"

var (
	// ErrInvalidPort indicates a port outside Input1..Input4
	ErrInvalidPort = errors.New("invalid sensor port")

	// ErrInvalidMode indicates a value that is not a known sensor mode
	ErrInvalidMode = errors.New("invalid sensor mode")

	// ErrInvalidChannel indicates a beacon channel outside BEACON_CH_1..BEACON_CH_4
	ErrInvalidChannel = errors.New("invalid beacon channel")

	// ErrNotInitialized indicates the sensor subsystem has not been initialized
	ErrNotInitialized = errors.New("sensor subsystem not initialized")

	// ErrHardwareUnavailable indicates the hardware region could not be mapped
	ErrHardwareUnavailable = errors.New("sensor hardware unavailable")

	// ErrAlreadyConfigured indicates the one-shot bulk configuration was already used
	ErrAlreadyConfigured = errors.New("sensor ports already configured")

	// ErrInvalidModeForReset indicates a gyro reset on a port that is not in a gyro mode
	ErrInvalidModeForReset = errors.New("port is not in a gyro mode")

	// ErrCalibrationInProgress indicates a mode change on a port that is calibrating
	ErrCalibrationInProgress = errors.New("calibration in progress")

	// ErrReadingNotFound indicates requested reading doesn't exist
	ErrReadingNotFound = errors.New("reading not found")
)
