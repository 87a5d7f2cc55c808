package hwp5

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeText decodes UTF-16LE bytes to a string. Trailing NULs are dropped and an
// odd trailing byte is ignored.
func DecodeText(data []byte) string {
	if len(data)%2 == 1 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return ""
	}
	out, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		// 디코더는 잘못된 서로게이트를 U+FFFD로 바꾸므로 여기 오지 않는다.
		return string(utf16.Decode(BytesToUnits(data)))
	}
	return strings.TrimRight(string(out), "\x00")
}

// EncodeText encodes a string as UTF-16LE without BOM or terminator.
func EncodeText(s string) []byte {
	if s == "" {
		return []byte{}
	}
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return UnitsToBytes(utf16.Encode([]rune(s)))
	}
	return out
}

// BytesToUnits reinterprets little-endian bytes as UTF-16 code units.
func BytesToUnits(data []byte) []uint16 {
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return units
}

// UnitsToBytes is the inverse of BytesToUnits.
func UnitsToBytes(units []uint16) []byte {
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}

// VisibleText renders paragraph code units as text: control characters are
// dropped, tabs, line breaks, hyphens and fixed spaces become their plain forms.
func VisibleText(chars []uint16) string {
	var units []uint16
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		switch {
		case c == CharTab:
			units = append(units, '\t')
			i += ControlCharWidth - 1
		case IsExtendedControl(c) || IsInlineControl(c):
			i += ControlCharWidth - 1
		case c == CharLineBreak:
			units = append(units, '\n')
		case c == CharParaBreak:
		case c == CharHyphen:
			units = append(units, '-')
		case c == CharBundleSpace || c == CharFixedSpace:
			units = append(units, ' ')
		case c < 0x20:
		default:
			units = append(units, c)
		}
	}
	return string(utf16.Decode(units))
}

// ControlPositions returns the offsets of extended control characters, in order.
func ControlPositions(chars []uint16) []int {
	var pos []int
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		if IsExtendedControl(c) {
			pos = append(pos, i)
			i += ControlCharWidth - 1
		} else if IsInlineControl(c) {
			i += ControlCharWidth - 1
		}
	}
	return pos
}

// readString reads a uint16 length-prefixed UTF-16LE string at off.
func readString(data []byte, off int) (string, int, bool) {
	if off+2 > len(data) {
		return "", off, false
	}
	n := int(binary.LittleEndian.Uint16(data[off:]))
	off += 2
	if off+n*2 > len(data) {
		return "", off, false
	}
	return DecodeText(data[off : off+n*2]), off + n*2, true
}

// appendString writes s with its uint16 length prefix.
func appendString(buf []byte, s string) []byte {
	enc := EncodeText(s)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(enc)/2))
	return append(buf, enc...)
}
