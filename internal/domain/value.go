package domain

import (
	"bytes"
	"encoding/json"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// NotAvailable is the display string for a missing or unusable value
const NotAvailable = "N/A"

// ValueKind tags the shape of a loosely-typed import value
type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueInteger
	ValueFloat
	ValueOther
)

// Value is a mixed-type import field (nutriments, image ids).
// The zero value is absent.
type Value struct {
	Kind  ValueKind
	Text  string
	Int   int64
	Float float64
}

// TextValue builds a textual Value
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// IntValue builds an integer Value
func IntValue(i int64) Value { return Value{Kind: ValueInteger, Int: i} }

// FloatValue builds a floating-point Value
func FloatValue(f float64) Value { return Value{Kind: ValueFloat, Float: f} }

// OtherValue builds a Value of an unsupported shape (bool, object, array)
func OtherValue() Value { return Value{Kind: ValueOther} }

// IsAbsent reports whether the value was missing or null
func (v Value) IsAbsent() bool { return v.Kind == ValueAbsent }

// DisplayString coerces the value into a display string. Coercion is total:
// absent and unsupported shapes yield NotAvailable.
func (v Value) DisplayString() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return NotAvailable
	}
}

// UnmarshalBSONValue decodes a Value from a Mongo document field
func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Null, bsontype.Undefined:
		*v = Value{}
	case bsontype.String:
		*v = TextValue(raw.StringValue())
	case bsontype.Int32:
		*v = IntValue(int64(raw.Int32()))
	case bsontype.Int64:
		*v = IntValue(raw.Int64())
	case bsontype.Double:
		*v = FloatValue(raw.Double())
	default:
		*v = OtherValue()
	}
	return nil
}

// UnmarshalJSON decodes a Value from JSON fixtures and CLI input
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if i, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			*v = IntValue(i)
			return nil
		}
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*v = FloatValue(f)
	default:
		// true, false, objects, arrays
		*v = OtherValue()
	}
	return nil
}
