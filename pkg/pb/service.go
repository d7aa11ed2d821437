// Package pb defines the SensorService gRPC contract.
//
// Messages are google.protobuf.Struct values so that the service needs no
// generated code; field names are listed on each method of SensorClient.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "sensor.v1.SensorService"

// SensorServiceServer is the server API for SensorService
type SensorServiceServer interface {
	ReadSensor(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReadSensorData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReadValue(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetSensorMode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetAllSensorModes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetIRBeaconChannel(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SensorName(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetGyroSensor(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReadIRSeekAllChannels(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartCompassCalibration(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StopCompassCalibration(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLatestReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryFunc func(SensorServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var unaryMethods = []struct {
	name string
	call unaryFunc
}{
	{"ReadSensor", SensorServiceServer.ReadSensor},
	{"ReadSensorData", SensorServiceServer.ReadSensorData},
	{"ReadValue", SensorServiceServer.ReadValue},
	{"SetSensorMode", SensorServiceServer.SetSensorMode},
	{"SetAllSensorModes", SensorServiceServer.SetAllSensorModes},
	{"SetIRBeaconChannel", SensorServiceServer.SetIRBeaconChannel},
	{"SensorName", SensorServiceServer.SensorName},
	{"ResetGyroSensor", SensorServiceServer.ResetGyroSensor},
	{"ReadIRSeekAllChannels", SensorServiceServer.ReadIRSeekAllChannels},
	{"StartCompassCalibration", SensorServiceServer.StartCompassCalibration},
	{"StopCompassCalibration", SensorServiceServer.StopCompassCalibration},
	{"Status", SensorServiceServer.Status},
	{"GetHistory", SensorServiceServer.GetHistory},
	{"GetLatestReading", SensorServiceServer.GetLatestReading},
	{"GetReading", SensorServiceServer.GetReading},
}

func methodDesc(name string, call unaryFunc) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SensorServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(SensorServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

func serviceDesc() grpc.ServiceDesc {
	methods := make([]grpc.MethodDesc, 0, len(unaryMethods))
	for _, m := range unaryMethods {
		methods = append(methods, methodDesc(m.name, m.call))
	}
	return grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*SensorServiceServer)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "sensor/v1/sensor_service",
	}
}

// SensorServiceDesc is the grpc.ServiceDesc for SensorService
var SensorServiceDesc = serviceDesc()

// RegisterSensorServiceServer registers srv with s
func RegisterSensorServiceServer(s grpc.ServiceRegistrar, srv SensorServiceServer) {
	s.RegisterService(&SensorServiceDesc, srv)
}

// UnimplementedSensorServiceServer can be embedded for forward compatibility
type UnimplementedSensorServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedSensorServiceServer) ReadSensor(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ReadSensor")
}
func (UnimplementedSensorServiceServer) ReadSensorData(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ReadSensorData")
}
func (UnimplementedSensorServiceServer) ReadValue(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ReadValue")
}
func (UnimplementedSensorServiceServer) SetSensorMode(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SetSensorMode")
}
func (UnimplementedSensorServiceServer) SetAllSensorModes(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SetAllSensorModes")
}
func (UnimplementedSensorServiceServer) SetIRBeaconChannel(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SetIRBeaconChannel")
}
func (UnimplementedSensorServiceServer) SensorName(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SensorName")
}
func (UnimplementedSensorServiceServer) ResetGyroSensor(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ResetGyroSensor")
}
func (UnimplementedSensorServiceServer) ReadIRSeekAllChannels(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ReadIRSeekAllChannels")
}
func (UnimplementedSensorServiceServer) StartCompassCalibration(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("StartCompassCalibration")
}
func (UnimplementedSensorServiceServer) StopCompassCalibration(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("StopCompassCalibration")
}
func (UnimplementedSensorServiceServer) Status(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Status")
}
func (UnimplementedSensorServiceServer) GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetHistory")
}
func (UnimplementedSensorServiceServer) GetLatestReading(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetLatestReading")
}
func (UnimplementedSensorServiceServer) GetReading(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetReading")
}
