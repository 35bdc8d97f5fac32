package vm

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	HintNumber = "number"
	HintString = "string"
)

// ToBoolean converts v following the legacy truthiness rules. Strings are
// tested by emptiness from SWF 7 on and numerically before that.
func ToBoolean(v Value, swfVersion uint8) bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.AsBoolean()
	case TypeNumber:
		f := v.AsFloat()
		return f != 0 && !math.IsNaN(f)
	case TypeString:
		if swfVersion >= 7 {
			return v.str != ""
		}
		f := StringToNumber(v.str, swfVersion)
		return f != 0 && !math.IsNaN(f)
	case TypeObject:
		return true
	}
	return false
}

// isLegacyWhitespace matches the characters the player strips around
// numeric strings.
func isLegacyWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// StringToNumber parses s with the legacy rules: surrounding whitespace is
// ignored, a 0x prefix selects a 32-bit wrapping hex literal, and anything
// malformed is NaN.
func StringToNumber(s string, swfVersion uint8) float64 {
	str := strings.TrimFunc(s, isLegacyWhitespace)
	if str == "" {
		if swfVersion >= 7 {
			return math.NaN()
		}
		return 0
	}

	neg := false
	body := str
	if body[0] == '+' || body[0] == '-' {
		neg = body[0] == '-'
		body = body[1:]
	}

	if len(body) >= 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		n, ok := parseHexWrapping(body[2:])
		if !ok {
			return math.NaN()
		}
		if neg {
			return -n
		}
		return n
	}

	if !isDecimalLiteral(body) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// parseHexWrapping reads hex digits modulo 2^32 and reinterprets the result
// as a signed 32-bit integer.
func parseHexWrapping(digits string) (float64, bool) {
	if digits == "" {
		return 0, false
	}
	var acc uint32
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, false
		}
		acc = acc<<4 | d
	}
	return float64(int32(acc)), true
}

// isDecimalLiteral accepts digits[.digits][e[+-]digits] with at least one
// mantissa digit. ParseFloat alone is too lenient (Inf, NaN, underscores).
func isDecimalLiteral(s string) bool {
	i := 0
	mantissa := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			mantissa++
		}
	}
	if mantissa == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

// Float64ToInt32 truncates f and wraps it modulo 2^32. NaN and the
// infinities map to 0.
func Float64ToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	const two32 = 4294967296.0
	m := math.Mod(math.Trunc(f), two32)
	if m < 0 {
		m += two32
	}
	return int32(uint32(m))
}

// NumberToString formats f the way the legacy player prints numbers: up to
// 15 significant digits, fixed notation for decimal exponents in [-5, 15),
// exponential notation with an explicit sign otherwise.
func NumberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	// d.dddddddddddddde±XX
	s := strconv.FormatFloat(f, 'e', 14, 64)
	neg := s[0] == '-'
	if neg {
		s = s[1:]
	}
	ePos := strings.IndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[ePos+1:])
	digits := strings.TrimRight(s[:1]+s[2:ePos], "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	switch {
	case exp < -5 || exp >= 15:
		b.WriteByte(digits[0])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if exp >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(exp))
	case exp < 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp-1))
		b.WriteString(digits)
	default:
		if len(digits) <= exp+1 {
			b.WriteString(digits)
			b.WriteString(strings.Repeat("0", exp+1-len(digits)))
		} else {
			b.WriteString(digits[:exp+1])
			b.WriteByte('.')
			b.WriteString(digits[exp+1:])
		}
	}
	return b.String()
}

// ToBoolean converts v using this activation's SWF version.
func (a *Activation) ToBoolean(v Value) bool {
	return ToBoolean(v, a.SWFVersion())
}

// ToPrimitive runs the script-overridable conversion hook of an object:
// valueOf for the number hint, toString for the string hint. Primitive
// values are returned unchanged, and so is an object without a callable
// hook. Failures raised by the hook propagate.
func (a *Activation) ToPrimitive(v Value, hint string) (Value, error) {
	if v.typ != TypeObject {
		return v, nil
	}
	method := "valueOf"
	if hint == HintString {
		method = "toString"
	}
	fn, err := v.obj.Get(a, method)
	if err != nil {
		return Undefined, err
	}
	if !fn.IsObject() || !fn.obj.IsFunction(a) {
		return v, nil
	}
	return a.Call(fn, v.obj, nil)
}

// ToNumber coerces v to a float64. Objects go through valueOf once; an
// object result of the hook is NaN.
func (a *Activation) ToNumber(v Value) (float64, error) {
	switch v.typ {
	case TypeNumber:
		return v.AsFloat(), nil
	case TypeUndefined:
		if a.SWFVersion() >= 7 {
			return math.NaN(), nil
		}
		return 0, nil
	case TypeNull:
		return 0, nil
	case TypeBoolean:
		if v.AsBoolean() {
			return 1, nil
		}
		return 0, nil
	case TypeString:
		return StringToNumber(v.str, a.SWFVersion()), nil
	case TypeObject:
		prim, err := a.ToPrimitive(v, HintNumber)
		if err != nil {
			return math.NaN(), err
		}
		if prim.typ == TypeObject {
			return math.NaN(), nil
		}
		return a.ToNumber(prim)
	}
	return math.NaN(), nil
}

// ToInt32 is ToNumber followed by the wrapping 32-bit conversion.
func (a *Activation) ToInt32(v Value) (int32, error) {
	f, err := a.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return Float64ToInt32(f), nil
}

// ToString coerces v to text. Objects go through toString once; when the
// hook yields another object the legacy "[type Object]" placeholder is used.
func (a *Activation) ToString(v Value) (string, error) {
	switch v.typ {
	case TypeString:
		return v.str, nil
	case TypeUndefined:
		if a.SWFVersion() >= 7 {
			return "undefined", nil
		}
		return "", nil
	case TypeNull:
		return "null", nil
	case TypeBoolean:
		if v.AsBoolean() {
			return "true", nil
		}
		return "false", nil
	case TypeNumber:
		return NumberToString(v.AsFloat()), nil
	case TypeObject:
		prim, err := a.ToPrimitive(v, HintString)
		if err != nil {
			return "", err
		}
		if prim.typ == TypeObject {
			if v.obj.IsFunction(a) {
				return "[type Function]", nil
			}
			return "[type Object]", nil
		}
		return a.ToString(prim)
	}
	return "", nil
}
