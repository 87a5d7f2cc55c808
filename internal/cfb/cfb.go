// Package cfb reads and writes Compound File Binary containers, the sector-addressed
// file system that stores the streams of an HWP 5.x document.
package cfb

import (
	"strings"
	"unicode/utf16"
)

// 참조: [MS-CFB] Compound File Binary File Format
const (
	headerSize       = 512
	dirEntrySize     = 128
	difatInHeader    = 109
	miniSectorSize   = 64
	miniStreamCutoff = 4096
	maxNameUnits     = 31

	freeSect   uint32 = 0xFFFFFFFF
	endOfChain uint32 = 0xFFFFFFFE
	fatSect    uint32 = 0xFFFFFFFD
	difSect    uint32 = 0xFFFFFFFC
	maxRegSect uint32 = 0xFFFFFFFA
	noStream   uint32 = 0xFFFFFFFF
)

var signature = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// EntryType is the object type of a directory entry.
type EntryType uint8

const (
	TypeUnused  EntryType = 0
	TypeStorage EntryType = 1
	TypeStream  EntryType = 2
	TypeRoot    EntryType = 5
)

// String returns the entry type name.
func (t EntryType) String() string {
	switch t {
	case TypeStorage:
		return "storage"
	case TypeStream:
		return "stream"
	case TypeRoot:
		return "root"
	default:
		return "unused"
	}
}

// Entry describes one storage or stream of a container.
type Entry struct {
	Path        string // "/" 로 구분된 전체 경로 (루트는 "")
	Name        string
	Type        EntryType
	Size        uint64
	StartSector uint32
}

// IsStream reports whether the entry holds stream data.
func (e Entry) IsStream() bool {
	return e.Type == TypeStream
}

// compareNames orders sibling names the way CFB red-black trees do:
// shorter names first, then by upper-cased UTF-16 code units.
func compareNames(a, b string) int {
	ua := utf16.Encode([]rune(strings.ToUpper(a)))
	ub := utf16.Encode([]rune(strings.ToUpper(b)))
	if len(ua) != len(ub) {
		if len(ua) < len(ub) {
			return -1
		}
		return 1
	}
	for i := range ua {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func cleanPath(p string) string {
	return strings.Trim(p, "/")
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
