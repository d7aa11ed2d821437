package pb

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// RawData is a decoded ReadSensorData response
type RawData struct {
	Port     int
	Mode     string
	Data     []byte
	Captured time.Time
}

// PortStatus is one entry of a Status response
type PortStatus struct {
	Port        int
	Mode        string
	Channel     int
	Calibrating bool
}

// Reading is one stored sensor reading
type Reading struct {
	ID        int64
	Port      int
	Mode      string
	Value     int
	Timestamp time.Time
}

// History is a decoded GetHistory response
type History struct {
	Readings []Reading
	Average  float64
	Min      int
	Max      int
}

// SensorClient is a typed client for SensorService
type SensorClient struct {
	cc grpc.ClientConnInterface
}

// NewSensorClient creates a client on an established connection
func NewSensorClient(cc grpc.ClientConnInterface) *SensorClient {
	return &SensorClient{cc: cc}
}

// Call invokes method with a request built from fields
func (c *SensorClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SensorClient) portCall(ctx context.Context, method string, port int) (*structpb.Struct, error) {
	return c.Call(ctx, method, map[string]any{FieldPort: port})
}

// ReadSensor returns the scalar value of port
func (c *SensorClient) ReadSensor(ctx context.Context, port int) (int, error) {
	out, err := c.portCall(ctx, "ReadSensor", port)
	if err != nil {
		return 0, err
	}
	return Int(out, FieldValue)
}

// ReadSensorData returns the raw bytes of port in its current mode
func (c *SensorClient) ReadSensorData(ctx context.Context, port int) (RawData, error) {
	out, err := c.portCall(ctx, "ReadSensorData", port)
	if err != nil {
		return RawData{}, err
	}
	mode, err := String(out, FieldMode)
	if err != nil {
		return RawData{}, err
	}
	encoded, err := String(out, FieldData)
	if err != nil {
		return RawData{}, err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return RawData{}, fmt.Errorf("decode data: %w", err)
	}
	captured, err := String(out, FieldCaptured)
	if err != nil {
		return RawData{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, captured)
	if err != nil {
		return RawData{}, fmt.Errorf("parse captured: %w", err)
	}
	return RawData{Port: port, Mode: mode, Data: data, Captured: ts}, nil
}

// ReadValue returns the decoded value of port as a field map keyed by kind
func (c *SensorClient) ReadValue(ctx context.Context, port int) (map[string]any, error) {
	out, err := c.portCall(ctx, "ReadValue", port)
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// SetSensorMode configures a single port
func (c *SensorClient) SetSensorMode(ctx context.Context, port int, mode string) error {
	_, err := c.Call(ctx, "SetSensorMode", map[string]any{FieldPort: port, FieldMode: mode})
	return err
}

// SetAllSensorModes configures the four ports at once
func (c *SensorClient) SetAllSensorModes(ctx context.Context, modes [4]string) error {
	list := make([]any, len(modes))
	for i, m := range modes {
		list[i] = m
	}
	_, err := c.Call(ctx, "SetAllSensorModes", map[string]any{FieldModes: list})
	return err
}

// SetIRBeaconChannel selects the beacon channel of port
func (c *SensorClient) SetIRBeaconChannel(ctx context.Context, port, channel int) error {
	_, err := c.Call(ctx, "SetIRBeaconChannel", map[string]any{FieldPort: port, FieldChannel: channel})
	return err
}

// SensorName returns the mode name configured on port
func (c *SensorClient) SensorName(ctx context.Context, port int) (string, error) {
	out, err := c.portCall(ctx, "SensorName", port)
	if err != nil {
		return "", err
	}
	return String(out, FieldMode)
}

// ResetGyroSensor zeroes the accumulated angle of the gyro on port
func (c *SensorClient) ResetGyroSensor(ctx context.Context, port int) error {
	_, err := c.portCall(ctx, "ResetGyroSensor", port)
	return err
}

// ReadIRSeekAllChannels returns position/strength pairs for the four beacon channels
func (c *SensorClient) ReadIRSeekAllChannels(ctx context.Context, port int) ([8]int, error) {
	var channels [8]int
	out, err := c.portCall(ctx, "ReadIRSeekAllChannels", port)
	if err != nil {
		return channels, err
	}
	values, err := Ints(out, FieldChannels)
	if err != nil {
		return channels, err
	}
	if len(values) != len(channels) {
		return channels, fmt.Errorf("expected %d channel values, got %d", len(channels), len(values))
	}
	copy(channels[:], values)
	return channels, nil
}

// StartCompassCalibration begins a calibration session on port
func (c *SensorClient) StartCompassCalibration(ctx context.Context, port int) error {
	_, err := c.portCall(ctx, "StartCompassCalibration", port)
	return err
}

// StopCompassCalibration ends the calibration session on port
func (c *SensorClient) StopCompassCalibration(ctx context.Context, port int) error {
	_, err := c.portCall(ctx, "StopCompassCalibration", port)
	return err
}

// Status returns the registry state of every port
func (c *SensorClient) Status(ctx context.Context) ([]PortStatus, error) {
	out, err := c.Call(ctx, "Status", nil)
	if err != nil {
		return nil, err
	}
	entries, err := List(out, FieldPorts)
	if err != nil {
		return nil, err
	}
	statuses := make([]PortStatus, 0, len(entries))
	for _, e := range entries {
		s := e.GetStructValue()
		port, err := Int(s, FieldPort)
		if err != nil {
			return nil, err
		}
		mode, err := String(s, FieldMode)
		if err != nil {
			return nil, err
		}
		channel, err := Int(s, FieldChannel)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, PortStatus{
			Port:        port,
			Mode:        mode,
			Channel:     channel,
			Calibrating: Bool(s, FieldCalibrating),
		})
	}
	return statuses, nil
}

// GetHistory returns the stored readings of port within [start, end)
func (c *SensorClient) GetHistory(ctx context.Context, port int, start, end time.Time) (History, error) {
	out, err := c.Call(ctx, "GetHistory", map[string]any{
		FieldPort:  port,
		FieldStart: start.Unix(),
		FieldEnd:   end.Unix(),
	})
	if err != nil {
		return History{}, err
	}
	entries, err := List(out, FieldReadings)
	if err != nil {
		return History{}, err
	}

	var h History
	for _, e := range entries {
		r, err := parseReading(e.GetStructValue())
		if err != nil {
			return History{}, err
		}
		h.Readings = append(h.Readings, r)
	}
	if h.Average, err = Float(out, FieldAverage); err != nil {
		return History{}, err
	}
	if h.Min, err = Int(out, FieldMin); err != nil {
		return History{}, err
	}
	if h.Max, err = Int(out, FieldMax); err != nil {
		return History{}, err
	}
	return h, nil
}

// GetLatestReading returns the most recent stored reading of port. When
// nothing is stored yet the server samples the port and stores the result.
func (c *SensorClient) GetLatestReading(ctx context.Context, port int) (Reading, error) {
	out, err := c.portCall(ctx, "GetLatestReading", port)
	if err != nil {
		return Reading{}, err
	}
	return parseReading(out)
}

// GetReading returns a stored reading by ID
func (c *SensorClient) GetReading(ctx context.Context, id int64) (Reading, error) {
	out, err := c.Call(ctx, "GetReading", map[string]any{FieldID: id})
	if err != nil {
		return Reading{}, err
	}
	return parseReading(out)
}

func parseReading(s *structpb.Struct) (Reading, error) {
	id, err := Int(s, FieldID)
	if err != nil {
		return Reading{}, err
	}
	port, err := Int(s, FieldPort)
	if err != nil {
		return Reading{}, err
	}
	mode, err := String(s, FieldMode)
	if err != nil {
		return Reading{}, err
	}
	value, err := Int(s, FieldValue)
	if err != nil {
		return Reading{}, err
	}
	ts, err := Int(s, FieldTimestamp)
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		ID:        int64(id),
		Port:      port,
		Mode:      mode,
		Value:     value,
		Timestamp: time.Unix(int64(ts), 0),
	}, nil
}
