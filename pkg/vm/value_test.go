package vm

import (
	"math"
	"testing"
)

func TestValueTypes(t *testing.T) {
	tests := []struct {
		v    Value
		want ValueType
		name string
	}{
		{Undefined, TypeUndefined, "undefined"},
		{Null, TypeNull, "null"},
		{True, TypeBoolean, "boolean"},
		{NumberValue(1.5), TypeNumber, "number"},
		{NewString("x"), TypeString, "string"},
	}
	for _, tt := range tests {
		if tt.v.Type() != tt.want {
			t.Errorf("%s: type = %v", tt.name, tt.v.Type())
		}
		if tt.v.Type().String() != tt.name {
			t.Errorf("type name = %q, want %q", tt.v.Type().String(), tt.name)
		}
	}
}

func TestObjectValueOfNilHandleIsNull(t *testing.T) {
	if v := ObjectValue(Object{}); !v.IsNull() {
		t.Errorf("nil handle wrapped as %s", v.Inspect())
	}
	if !(Object{}).IsNil() {
		t.Error("zero Object must be nil")
	}
}

func TestStrictlyEquals(t *testing.T) {
	if NaN.StrictlyEquals(NaN) {
		t.Error("NaN must not equal itself")
	}
	if !NumberValue(0).StrictlyEquals(NumberValue(math.Copysign(0, -1))) {
		t.Error("0 and -0 are equal")
	}
	if NewString("1").StrictlyEquals(NumberValue(1)) {
		t.Error("no coercion in strict equality")
	}
	if !Undefined.StrictlyEquals(Undefined) || Undefined.StrictlyEquals(Null) {
		t.Error("undefined/null strict equality broken")
	}
	if !IntegerValue(7).StrictlyEquals(NumberValue(7)) {
		t.Error("integer values are numbers")
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Undefined, "undefined"},
		{Null, "null"},
		{False, "false"},
		{NumberValue(0.5), "0.5"},
		{NewString("a\"b"), `"a\"b"`},
		{Value{typ: TypeObject, obj: Object{index: 3, gen: 1}}, "<object #3.1>"},
	}
	for _, tt := range tests {
		if got := tt.v.Inspect(); got != tt.want {
			t.Errorf("Inspect = %q, want %q", got, tt.want)
		}
	}
}

func TestAccessorPanicsOnWrongType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AsFloat on a string should panic")
		}
	}()
	NewString("1").AsFloat()
}
