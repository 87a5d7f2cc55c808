// Package parser defines the document parser interface shared by the HWP 5.x and
// HWPX readers, and format detection by magic bytes.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/roboco-io/hwpkit/internal/ir"
)

// ErrUnknownFormat is returned when neither HWP nor HWPX magic bytes are found.
var ErrUnknownFormat = errors.New("parser: unknown document format")

// Parser converts one document into the intermediate representation.
type Parser interface {
	Parse() (*ir.Document, error)
	Close() error
}

// Format is a document container format.
type Format int

const (
	FormatUnknown Format = iota
	FormatHWPX
	FormatHWP // HWP 5.x 복합 파일
)

func (f Format) String() string {
	switch f {
	case FormatHWPX:
		return "hwpx"
	case FormatHWP:
		return "hwp"
	default:
		return "unknown"
	}
}

// DetectFormat guesses the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hwpx":
		return FormatHWPX
	case ".hwp", ".hwp5":
		return FormatHWP
	default:
		return FormatUnknown
	}
}

// 매직 바이트
var (
	magicZIP = []byte("PK\x03\x04")
	magicCFB = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormatBytes detects the format from the first bytes of a file.
func DetectFormatBytes(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, magicZIP):
		return FormatHWPX
	case bytes.HasPrefix(head, magicCFB):
		return FormatHWP
	case bytes.HasPrefix(head, []byte("HWP Document File")):
		// 추출된 FileHeader 스트림
		return FormatHWP
	}
	return FormatUnknown
}

// DetectFormatFromReader reads up to 32 bytes from r and detects the format.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 32)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("%w: %d bytes", ErrUnknownFormat, n)
	}
	return DetectFormatBytes(buf[:n]), nil
}

// Options controls the conversion to the intermediate representation.
type Options struct {
	ExtractImages bool   // BinData 이미지 포함
	ImageDir      string // 이미지를 저장할 디렉터리, 비어 있으면 저장하지 않음
}

// DefaultOptions returns options without image extraction.
func DefaultOptions() Options {
	return Options{}
}
