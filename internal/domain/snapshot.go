package domain

import "time"

// Snapshot is a raw buffer captured from one port at a single instant,
// tagged with the mode the port was in at capture time
type Snapshot struct {
	Port     Port
	Mode     SensorMode
	Data     [RawSize]byte
	Captured time.Time
}

// Bytes returns a copy of the bytes that are meaningful for the snapshot's mode
func (s Snapshot) Bytes() []byte {
	l, ok := s.Mode.Layout()
	if !ok {
		return nil
	}
	out := make([]byte, l.Width)
	copy(out, s.Data[:l.Width])
	return out
}
