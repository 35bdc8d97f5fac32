package vm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// NewStringFromBytes builds a string value from raw movie bytes. Movies
// before SWF 6 store text in the system code page, which is decoded as
// Windows-1252; later movies are UTF-8, with invalid sequences replaced.
func NewStringFromBytes(b []byte, swfVersion uint8) Value {
	if swfVersion >= 6 {
		if utf8.Valid(b) {
			return NewString(string(b))
		}
		return NewString(strings.ToValidUTF8(string(b), "\uFFFD"))
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return NewString(strings.ToValidUTF8(string(b), "\uFFFD"))
	}
	return NewString(string(decoded))
}
