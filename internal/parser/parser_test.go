package parser

import (
	"bytes"
	"errors"
	"testing"

	"github.com/roboco-io/hwpkit/internal/cfb"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"document.hwpx", FormatHWPX},
		{"DOCUMENT.HWPX", FormatHWPX},
		{"/path/to/document.hwp", FormatHWP},
		{"보고서.hwp5", FormatHWP},
		{"document.docx", FormatUnknown},
		{"document", FormatUnknown},
		{"archive.hwp.bak", FormatUnknown},
	}

	for _, tc := range tests {
		if got := DetectFormat(tc.path); got != tc.expected {
			t.Errorf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.expected)
		}
	}
}

func TestFormat_String(t *testing.T) {
	for f, want := range map[Format]string{
		FormatHWPX:    "hwpx",
		FormatHWP:     "hwp",
		FormatUnknown: "unknown",
		Format(999):   "unknown",
	} {
		if got := f.String(); got != want {
			t.Errorf("Format(%d).String() = %q, want %q", int(f), got, want)
		}
	}
}

func TestDetectFormatBytes(t *testing.T) {
	container, err := cfb.Build(map[string][]byte{"FileHeader": []byte("HWP Document File")})
	if err != nil {
		t.Fatalf("cfb.Build: %v", err)
	}

	tests := []struct {
		name     string
		head     []byte
		expected Format
	}{
		{"built container", container, FormatHWP},
		{"bare file header stream", []byte("HWP Document File\x00\x00"), FormatHWP},
		{"zip local header", []byte("PK\x03\x04\x14\x00"), FormatHWPX},
		{"empty zip (end of central directory)", []byte("PK\x05\x06"), FormatUnknown},
		{"truncated cfb magic", container[:5], FormatUnknown},
		{"plain text", []byte("HWP is a word processor"), FormatUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormatBytes(tc.head); got != tc.expected {
				t.Errorf("DetectFormatBytes() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectFormatFromReader(t *testing.T) {
	got, err := DetectFormatFromReader(bytes.NewReader([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != FormatHWP {
		t.Errorf("DetectFormatFromReader() = %v, want hwp", got)
	}

	// 4바이트 미만은 판별 불가
	_, err = DetectFormatFromReader(bytes.NewReader([]byte{0x50, 0x4B}))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	if opts := DefaultOptions(); opts.ExtractImages || opts.ImageDir != "" {
		t.Errorf("expected no image extraction by default, got %+v", opts)
	}
}
