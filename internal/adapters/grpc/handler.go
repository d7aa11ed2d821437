package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/sensors"
	"github.com/quentinrf/robot-controller/services/sensor-service/pkg/pb"
)

// SensorAPI is the sensor subsystem surface served over gRPC
type SensorAPI interface {
	ReadSensor(port domain.Port) (int, error)
	ReadSensorData(port domain.Port) (domain.Snapshot, error)
	Sample(port domain.Port) (domain.Snapshot, int, error)
	ReadValue(port domain.Port) (domain.Value, error)
	SetSensorMode(port domain.Port, mode domain.SensorMode) error
	SetAllSensorModes(m1, m2, m3, m4 domain.SensorMode) error
	SetIRBeaconChannel(port domain.Port, channel domain.BeaconChannel) error
	SensorName(port domain.Port) (domain.SensorMode, error)
	ResetGyroSensor(port domain.Port) error
	ReadIRSeekAllChannels(port domain.Port) (domain.IRSeekChannels, error)
	StartCompassCalibration(port domain.Port) error
	StopCompassCalibration(port domain.Port) error
	Status() ([domain.NumPorts]sensors.PortStatus, error)
}

// SensorServiceHandler implements the gRPC SensorService
type SensorServiceHandler struct {
	pb.UnimplementedSensorServiceServer
	repo    domain.ReadingRepository
	sensors SensorAPI
}

// NewSensorServiceHandler creates a new gRPC handler
func NewSensorServiceHandler(repo domain.ReadingRepository, sensors SensorAPI) *SensorServiceHandler {
	return &SensorServiceHandler{
		repo:    repo,
		sensors: sensors,
	}
}

// toStatus maps a sensor error onto a gRPC status
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, domain.ErrInvalidPort),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidChannel):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrNotInitialized),
		errors.Is(err, domain.ErrAlreadyConfigured),
		errors.Is(err, domain.ErrInvalidModeForReset),
		errors.Is(err, domain.ErrCalibrationInProgress):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrHardwareUnavailable):
		code = codes.Unavailable
	case errors.Is(err, domain.ErrReadingNotFound):
		code = codes.NotFound
	}
	return status.Error(code, err.Error())
}

func portArg(req *structpb.Struct) (domain.Port, error) {
	n, err := pb.Int(req, pb.FieldPort)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, err.Error())
	}
	return domain.Port(n), nil
}

func modeArg(name string) (domain.SensorMode, error) {
	mode, err := domain.ParseMode(name)
	if err != nil {
		return domain.ModeNone, status.Error(codes.InvalidArgument, err.Error())
	}
	return mode, nil
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to build response")
		return nil, status.Error(codes.Internal, "failed to build response")
	}
	return s, nil
}

func empty() *structpb.Struct {
	return &structpb.Struct{}
}

// ReadSensor returns the scalar value of one port
func (h *SensorServiceHandler) ReadSensor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	value, err := h.sensors.ReadSensor(port)
	if err != nil {
		log.Error().Err(err).Stringer("port", port).Msg("failed to read sensor")
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{pb.FieldValue: value})
}

// ReadSensorData returns the raw bytes of one port in its current mode
func (h *SensorServiceHandler) ReadSensorData(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	snap, err := h.sensors.ReadSensorData(port)
	if err != nil {
		log.Error().Err(err).Stringer("port", port).Msg("failed to read sensor data")
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		pb.FieldPort:     int(snap.Port),
		pb.FieldMode:     snap.Mode.String(),
		pb.FieldData:     snap.Bytes(),
		pb.FieldCaptured: snap.Captured.UTC().Format(time.RFC3339Nano),
	})
}

// ReadValue returns the composite decode of one port
func (h *SensorServiceHandler) ReadValue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	value, err := h.sensors.ReadValue(port)
	if err != nil {
		log.Error().Err(err).Stringer("port", port).Msg("failed to read value")
		return nil, toStatus(err)
	}
	return newStruct(valueFields(value))
}

func valueFields(value domain.Value) map[string]any {
	fields := map[string]any{pb.FieldKind: value.Kind().String()}
	switch v := value.(type) {
	case domain.Scalar:
		fields[pb.FieldValue] = int(v)
	case domain.RGB:
		fields["r"] = v.R
		fields["g"] = v.G
		fields["b"] = v.B
		fields[pb.FieldValue] = v.Packed()
	case domain.Gyro:
		fields["angle"] = v.Angle
		fields["rate"] = v.Rate
	case domain.IRSeekChannels:
		fields[pb.FieldChannels] = intList(v[:])
	}
	return fields
}

func intList(values []int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// SetSensorMode configures one port
func (h *SensorServiceHandler) SetSensorMode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	name, err := pb.String(req, pb.FieldMode)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	mode, err := modeArg(name)
	if err != nil {
		return nil, err
	}

	log.Info().Stringer("port", port).Stringer("mode", mode).Msg("SetSensorMode called")
	if err := h.sensors.SetSensorMode(port, mode); err != nil {
		return nil, toStatus(err)
	}
	return empty(), nil
}

// SetAllSensorModes configures the four ports in a single batch
func (h *SensorServiceHandler) SetAllSensorModes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	names, err := pb.Strings(req, pb.FieldModes)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(names) != domain.NumPorts {
		return nil, status.Errorf(codes.InvalidArgument, "expected %d modes, got %d", domain.NumPorts, len(names))
	}

	var modes [domain.NumPorts]domain.SensorMode
	for i, name := range names {
		if modes[i], err = modeArg(name); err != nil {
			return nil, err
		}
	}

	log.Info().Strs("modes", names).Msg("SetAllSensorModes called")
	if err := h.sensors.SetAllSensorModes(modes[0], modes[1], modes[2], modes[3]); err != nil {
		return nil, toStatus(err)
	}
	return empty(), nil
}

// SetIRBeaconChannel selects the beacon channel of one port
func (h *SensorServiceHandler) SetIRBeaconChannel(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	channel, err := pb.Int(req, pb.FieldChannel)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := h.sensors.SetIRBeaconChannel(port, domain.BeaconChannel(channel)); err != nil {
		return nil, toStatus(err)
	}
	return empty(), nil
}

// SensorName returns the mode configured on one port
func (h *SensorServiceHandler) SensorName(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	mode, err := h.sensors.SensorName(port)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		pb.FieldMode: mode.String(),
		pb.FieldCode: int(mode),
	})
}

// ResetGyroSensor zeroes the accumulated gyro angle of one port
func (h *SensorServiceHandler) ResetGyroSensor(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	log.Info().Stringer("port", port).Msg("ResetGyroSensor called")
	if err := h.sensors.ResetGyroSensor(port); err != nil {
		return nil, toStatus(err)
	}
	return empty(), nil
}

// ReadIRSeekAllChannels returns the position/strength pairs of the four beacon channels
func (h *SensorServiceHandler) ReadIRSeekAllChannels(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	channels, err := h.sensors.ReadIRSeekAllChannels(port)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{pb.FieldChannels: intList(channels[:])})
}

// StartCompassCalibration opens a calibration session on one port
func (h *SensorServiceHandler) StartCompassCalibration(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	log.Info().Stringer("port", port).Msg("StartCompassCalibration called")
	if err := h.sensors.StartCompassCalibration(port); err != nil {
		return nil, toStatus(err)
	}
	return empty(), nil
}

// StopCompassCalibration closes the calibration session of one port
func (h *SensorServiceHandler) StopCompassCalibration(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	log.Info().Stringer("port", port).Msg("StopCompassCalibration called")
	if err := h.sensors.StopCompassCalibration(port); err != nil {
		return nil, toStatus(err)
	}
	return empty(), nil
}

// Status returns the registry state of every port
func (h *SensorServiceHandler) Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	statuses, err := h.sensors.Status()
	if err != nil {
		return nil, toStatus(err)
	}

	entries := make([]any, len(statuses))
	for i, st := range statuses {
		entries[i] = map[string]any{
			pb.FieldPort:        int(st.Port),
			pb.FieldMode:        st.Mode.String(),
			pb.FieldChannel:     int(st.Channel),
			pb.FieldCalibrating: st.Calibrating,
		}
	}
	return newStruct(map[string]any{pb.FieldPorts: entries})
}

// GetHistory returns the stored readings of one port within a time range with statistics
func (h *SensorServiceHandler) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	if !port.Valid() {
		return nil, toStatus(domain.ErrInvalidPort)
	}
	startSec, err := pb.Int(req, pb.FieldStart)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	endSec, err := pb.Int(req, pb.FieldEnd)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	log.Info().
		Stringer("port", port).
		Int("start", startSec).
		Int("end", endSec).
		Msg("GetHistory called")

	start := time.Unix(int64(startSec), 0)
	end := time.Unix(int64(endSec), 0)

	readings, err := h.repo.GetReadingsInRange(ctx, port, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get readings")
		return nil, status.Error(codes.Internal, "failed to get readings")
	}

	entries := make([]any, len(readings))
	for i, r := range readings {
		entries[i] = readingFields(r)
	}

	stats := calculateStatistics(readings)

	return newStruct(map[string]any{
		pb.FieldReadings: entries,
		pb.FieldAverage:  stats.average,
		pb.FieldMin:      stats.min,
		pb.FieldMax:      stats.max,
	})
}

// GetLatestReading returns the most recent stored reading of one port
func (h *SensorServiceHandler) GetLatestReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	port, err := portArg(req)
	if err != nil {
		return nil, err
	}
	if !port.Valid() {
		return nil, toStatus(domain.ErrInvalidPort)
	}
	log.Info().Stringer("port", port).Msg("GetLatestReading called")

	reading, err := h.repo.GetLatestReading(ctx, port)
	if errors.Is(err, domain.ErrReadingNotFound) {
		// Nothing recorded yet - sample the port now
		log.Info().Stringer("port", port).Msg("no readings in database, sampling port")

		reading, err = h.sampleReading(port)
		if err != nil {
			return nil, err
		}

		// Save for next time
		if err := h.repo.SaveReading(ctx, reading); err != nil {
			log.Error().Err(err).Msg("failed to save reading")
		}
	} else if err != nil {
		log.Error().Err(err).Msg("failed to get latest reading")
		return nil, status.Error(codes.Internal, "failed to get reading")
	}

	return newStruct(readingFields(reading))
}

func (h *SensorServiceHandler) sampleReading(port domain.Port) (*domain.SensorReading, error) {
	snap, value, err := h.sensors.Sample(port)
	if err != nil {
		log.Error().Err(err).Stringer("port", port).Msg("failed to read sensor")
		return nil, toStatus(err)
	}
	if snap.Mode == domain.ModeNone {
		return nil, status.Errorf(codes.NotFound, "no readings for %v: no sensor mode set", port)
	}
	reading, err := domain.NewSensorReading(snap, value)
	if err != nil {
		log.Error().Err(err).Msg("failed to create reading")
		return nil, status.Error(codes.Internal, "failed to create reading")
	}
	return reading, nil
}

// GetReading returns a stored reading by ID
func (h *SensorServiceHandler) GetReading(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := pb.Int(req, pb.FieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	reading, err := h.repo.GetReading(ctx, int64(id))
	if err != nil {
		if !errors.Is(err, domain.ErrReadingNotFound) {
			log.Error().Err(err).Int("id", id).Msg("failed to get reading")
		}
		return nil, toStatus(err)
	}
	return newStruct(readingFields(reading))
}

// readingFields converts a stored reading to message fields
func readingFields(r *domain.SensorReading) map[string]any {
	return map[string]any{
		pb.FieldID:        r.ID,
		pb.FieldPort:      int(r.Port),
		pb.FieldMode:      r.Mode.String(),
		pb.FieldValue:     r.Value,
		pb.FieldTimestamp: r.Timestamp.Unix(),
	}
}

// statistics holds calculated statistics
type statistics struct {
	average float64
	min     int
	max     int
}

// calculateStatistics computes stats over the connected readings of a set
func calculateStatistics(readings []*domain.SensorReading) statistics {
	var (
		sum      int
		count    int
		min, max int
	)
	for _, r := range readings {
		if r.IsDisconnected() {
			continue
		}
		if count == 0 || r.Value < min {
			min = r.Value
		}
		if count == 0 || r.Value > max {
			max = r.Value
		}
		sum += r.Value
		count++
	}
	if count == 0 {
		return statistics{}
	}

	return statistics{
		average: float64(sum) / float64(count),
		min:     min,
		max:     max,
	}
}
