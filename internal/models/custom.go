package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type customKind uint8

const (
	kindString customKind = iota
	kindNumber
	kindBool
)

// CustomValue is an open custom-field value restricted to the scalar types
// string, number and bool. The zero value is the empty string.
type CustomValue struct {
	kind customKind
	str  string
	num  float64
	b    bool
}

// StringValue wraps a string custom field.
func StringValue(s string) CustomValue { return CustomValue{kind: kindString, str: s} }

// NumberValue wraps a numeric custom field.
func NumberValue(n float64) CustomValue { return CustomValue{kind: kindNumber, num: n} }

// BoolValue wraps a boolean custom field.
func BoolValue(b bool) CustomValue { return CustomValue{kind: kindBool, b: b} }

// String renders the value for display and text export.
func (v CustomValue) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// MarshalJSON encodes the underlying scalar.
func (v CustomValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return json.Marshal(v.num)
	case kindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts a JSON string, number or bool and rejects
// everything else.
func (v *CustomValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case string:
		*v = StringValue(val)
	case float64:
		*v = NumberValue(val)
	case bool:
		*v = BoolValue(val)
	default:
		return fmt.Errorf("custom field value must be a string, number or bool, got %T", raw)
	}
	return nil
}
