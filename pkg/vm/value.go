package vm

import (
	"fmt"
	"math"
	"strconv"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged runtime value. It is immutable and copied by value;
// an object value is a non-owning handle into the heap.
type Value struct {
	typ     ValueType
	payload uint64
	str     string
	obj     Object
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeNumber, payload: math.Float64bits(value)}
}

func IntegerValue(value int32) Value {
	return NumberValue(float64(value))
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, str: value}
}

// ObjectValue wraps an object handle. The nil handle becomes Null.
func ObjectValue(o Object) Value {
	if o.IsNil() {
		return Null
	}
	return Value{typ: TypeObject, obj: o}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsObject() bool    { return v.typ == TypeObject }

// IsNullish reports whether the value is undefined or null.
func (v Value) IsNullish() bool {
	return v.typ == TypeUndefined || v.typ == TypeNull
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeNumber {
		panic("value is not a number")
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.payload == 1
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return v.str
}

func (v Value) AsObject() Object {
	if v.typ != TypeObject {
		panic("value is not an object")
	}
	return v.obj
}

// StrictlyEquals compares without coercion. Objects compare by identity,
// NaN is unequal to itself.
func (v Value) StrictlyEquals(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeNumber:
		return v.AsFloat() == other.AsFloat()
	case TypeString:
		return v.str == other.str
	case TypeObject:
		return v.obj == other.obj
	}
	return false
}

// Inspect returns a developer-friendly representation of the value. It does
// not call into script code.
func (v Value) Inspect() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeNumber:
		return NumberToString(v.AsFloat())
	case TypeString:
		return strconv.Quote(v.str)
	case TypeObject:
		return fmt.Sprintf("<object %s>", v.obj)
	}
	return fmt.Sprintf("<unknown type %d>", v.typ)
}

func (v Value) String() string { return v.Inspect() }
