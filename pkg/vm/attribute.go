package vm

import "strings"

// Attribute is the per-slot flag set. The bit values match the ones scripts
// pass to ASSetPropFlags.
type Attribute uint8

const (
	DontEnum   Attribute = 1 << 0
	DontDelete Attribute = 1 << 1
	ReadOnly   Attribute = 1 << 2

	// NoAttributes is an ordinary, enumerable, writable, deletable slot.
	NoAttributes Attribute = 0
	// BuiltinAttributes is what built-in members are installed with.
	BuiltinAttributes = DontEnum | DontDelete | ReadOnly
	attributeMask     = DontEnum | DontDelete | ReadOnly
)

// Has reports whether every bit of flag is set.
func (a Attribute) Has(flag Attribute) bool { return a&flag == flag }

func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a.Has(DontEnum) {
		parts = append(parts, "DontEnum")
	}
	if a.Has(DontDelete) {
		parts = append(parts, "DontDelete")
	}
	if a.Has(ReadOnly) {
		parts = append(parts, "ReadOnly")
	}
	return strings.Join(parts, "|")
}
