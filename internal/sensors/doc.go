// Package sensors is the EV3 input port driver core.
//
// A Subsystem owns the mapped hardware region of the four input ports and the
// per-port state that tells it how to interpret each port's raw bytes: the
// active sensor mode, the selected IR beacon channel and any running compass
// calibration.
//
// Locking: every operation holds the lifecycle lock for reading while it runs,
// so Init and Shutdown wait for in-flight calls. Each port has its own
// RWMutex; raw captures run under the read side and mode changes under the
// write side, so a snapshot is always tagged with the mode whose layout the
// hardware was configured for when it was copied. SetAllSensorModes takes the
// lifecycle lock exclusively and updates all four ports at once.
//
// A mode change only reconfigures the input drivers. The sensor itself needs
// a short while to settle, and reads during that window may still carry the
// previous mode's bytes. That is not hidden here.
package sensors
