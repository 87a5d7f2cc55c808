package hwp5

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FileHeader는 HWP 5.x 파일 헤더 구조체
// 참조: HWP 5.0 명세서 3.2.1 파일 인식 정보
type FileHeader struct {
	Signature   [32]byte  // 파일 시그니처 "HWP Document File"
	Version     Version   // 파일 버전
	Flags       uint32    // 속성 플래그
	License     uint32    // 라이선스 (CCL, 공공누리)
	EncryptVer  uint32    // 암호 버전
	KOGLCountry uint8     // 공공누리 라이선스 국가
	Reserved    [207]byte // 예약 영역
}

// Version은 HWP 파일 버전 (예: 5.0.3.0)
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

// String returns version string like "5.0.3.0"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// AtLeast reports whether v is the given version or newer.
func (v Version) AtLeast(major, minor, build, revision uint8) bool {
	a := uint32(v.Major)<<24 | uint32(v.Minor)<<16 | uint32(v.Build)<<8 | uint32(v.Revision)
	b := uint32(major)<<24 | uint32(minor)<<16 | uint32(build)<<8 | uint32(revision)
	return a >= b
}

// NewFileHeader returns a 5.0.3.0 header with the given flags.
func NewFileHeader(flags uint32) *FileHeader {
	h := &FileHeader{
		Version:    Version{Major: 5, Minor: 0, Build: 3, Revision: 0},
		Flags:      flags,
		EncryptVer: 4,
	}
	copy(h.Signature[:], Signature)
	return h
}

// ParseFileHeader parses the FileHeader from raw bytes.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("%w: file header too small: %d bytes", ErrMalformedRecord, len(data))
	}

	h := &FileHeader{}

	// 시그니처 (32 bytes)
	copy(h.Signature[:], data[0:32])

	sigStr := string(bytes.TrimRight(h.Signature[:], "\x00"))
	if sigStr != Signature {
		return nil, fmt.Errorf("%w: invalid HWP signature: %q", ErrUnsupportedVersion, sigStr)
	}

	// 버전 (4 bytes, little-endian)
	// 포맷: [Revision][Build][Minor][Major]
	h.Version.Revision = data[32]
	h.Version.Build = data[33]
	h.Version.Minor = data[34]
	h.Version.Major = data[35]

	h.Flags = binary.LittleEndian.Uint32(data[36:40])
	h.License = binary.LittleEndian.Uint32(data[40:44])
	h.EncryptVer = binary.LittleEndian.Uint32(data[44:48])
	h.KOGLCountry = data[48]
	copy(h.Reserved[:], data[49:256])

	return h, nil
}

// Encode serializes the header into its fixed 256-byte form.
func (h *FileHeader) Encode() []byte {
	out := make([]byte, FileHeaderSize)
	copy(out[0:32], h.Signature[:])
	out[32] = h.Version.Revision
	out[33] = h.Version.Build
	out[34] = h.Version.Minor
	out[35] = h.Version.Major
	binary.LittleEndian.PutUint32(out[36:], h.Flags)
	binary.LittleEndian.PutUint32(out[40:], h.License)
	binary.LittleEndian.PutUint32(out[44:], h.EncryptVer)
	out[48] = h.KOGLCountry
	copy(out[49:], h.Reserved[:])
	return out
}

// Validate rejects headers this package cannot decode.
func (h *FileHeader) Validate() error {
	if h.Version.Major != 5 {
		return fmt.Errorf("%w: version %s", ErrUnsupportedVersion, h.Version)
	}
	if h.IsEncrypted() {
		return fmt.Errorf("%w: password-encrypted document", ErrUnsupportedVersion)
	}
	if h.HasDRM() || h.Flags&FlagCertDRM != 0 {
		return fmt.Errorf("%w: DRM protected document", ErrUnsupportedVersion)
	}
	return nil
}

// IsCompressed returns true if the document is compressed.
func (h *FileHeader) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// IsEncrypted returns true if the document is password protected.
func (h *FileHeader) IsEncrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// IsDistributable returns true if this is a distribution document.
func (h *FileHeader) IsDistributable() bool {
	return h.Flags&FlagDistributable != 0
}

// HasScript returns true if the document contains scripts.
func (h *FileHeader) HasScript() bool {
	return h.Flags&FlagScript != 0
}

// HasDRM returns true if the document has DRM protection.
func (h *FileHeader) HasDRM() bool {
	return h.Flags&FlagDRM != 0
}

// HasHistory returns true if the document has revision history.
func (h *FileHeader) HasHistory() bool {
	return h.Flags&FlagHistory != 0
}

// HasSignature returns true if the document has a digital signature.
func (h *FileHeader) HasSignature() bool {
	return h.Flags&FlagSignature != 0
}

// IsCCL returns true if this is a CCL document.
func (h *FileHeader) IsCCL() bool {
	return h.Flags&FlagCCL != 0
}

// FlagNames lists the names of the set flags, for display.
func (h *FileHeader) FlagNames() []string {
	names := []struct {
		flag uint32
		name string
	}{
		{FlagCompressed, "compressed"},
		{FlagEncrypted, "encrypted"},
		{FlagDistributable, "distribution"},
		{FlagScript, "script"},
		{FlagDRM, "drm"},
		{FlagXMLTemplate, "xml-template"},
		{FlagHistory, "history"},
		{FlagSignature, "signature"},
		{FlagCertEncrypt, "cert-encrypted"},
		{FlagCertDRM, "cert-drm"},
		{FlagCCL, "ccl"},
		{FlagMobile, "mobile"},
	}
	var out []string
	for _, n := range names {
		if h.Flags&n.flag != 0 {
			out = append(out, n.name)
		}
	}
	return out
}
