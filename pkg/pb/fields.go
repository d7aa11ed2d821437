package pb

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// Message field names shared by server and client
const (
	FieldPort        = "port"
	FieldMode        = "mode"
	FieldModes       = "modes"
	FieldCode        = "code"
	FieldChannel     = "channel"
	FieldValue       = "value"
	FieldData        = "data"
	FieldCaptured    = "captured"
	FieldKind        = "kind"
	FieldChannels    = "channels"
	FieldCalibrating = "calibrating"
	FieldPorts       = "ports"
	FieldStart       = "start"
	FieldEnd         = "end"
	FieldReadings    = "readings"
	FieldID          = "id"
	FieldTimestamp   = "timestamp"
	FieldAverage     = "average"
	FieldMin         = "min"
	FieldMax         = "max"
)

// Int returns the integer field key of s
func Int(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return integral(key, n.NumberValue)
}

// integral converts f to an int, refusing fractions and values outside the int range
func integral(key string, f float64) (int, error) {
	if f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
		return 0, fmt.Errorf("field %q is not an integer: %v", key, f)
	}
	return int(f), nil
}

// Float returns the numeric field key of s
func Float(s *structpb.Struct, key string) (float64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return n.NumberValue, nil
}

// String returns the string field key of s
func String(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return str.StringValue, nil
}

// Bool returns the boolean field key of s, false when absent
func Bool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

// List returns the list field key of s
func List(s *structpb.Struct, key string) ([]*structpb.Value, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("field %q is not a list", key)
	}
	return l.ListValue.GetValues(), nil
}

// Strings returns the string list field key of s
func Strings(s *structpb.Struct, key string) ([]string, error) {
	values, err := List(s, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for i, v := range values {
		str, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("field %q[%d] is not a string", key, i)
		}
		out[i] = str.StringValue
	}
	return out, nil
}

// Ints returns the integer list field key of s
func Ints(s *structpb.Struct, key string) ([]int, error) {
	values, err := List(s, key)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, v := range values {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("field %q[%d] is not a number", key, i)
		}
		if out[i], err = integral(fmt.Sprintf("%s[%d]", key, i), n.NumberValue); err != nil {
			return nil, err
		}
	}
	return out, nil
}
