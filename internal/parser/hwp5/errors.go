package hwp5

import (
	"errors"

	"github.com/roboco-io/hwpkit/internal/cfb"
)

var (
	ErrCorruptStream      = errors.New("hwp5: corrupt compressed stream")
	ErrTruncatedRecord    = errors.New("hwp5: truncated record")
	ErrUnsupportedVersion = errors.New("hwp5: unsupported document version")
	ErrDanglingReference  = errors.New("hwp5: dangling reference")
	ErrMalformedRecord    = errors.New("hwp5: malformed record")
	ErrUnsupportedFeature = errors.New("hwp5: unsupported feature")
	ErrMissingStream      = errors.New("hwp5: required stream missing")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{cfb.ErrBadMagic, "BadMagic"},
	{cfb.ErrCorruptChain, "CorruptChain"},
	{cfb.ErrSizeMismatch, "SizeMismatch"},
	{cfb.ErrFormat, "BadContainer"},
	{cfb.ErrNotFound, "MissingStream"},
	{ErrCorruptStream, "CorruptStream"},
	{ErrTruncatedRecord, "TruncatedRecord"},
	{ErrUnsupportedVersion, "UnsupportedVersion"},
	{ErrDanglingReference, "DanglingReference"},
	{ErrMalformedRecord, "MalformedRecord"},
	{ErrUnsupportedFeature, "UnsupportedFeature"},
	{ErrMissingStream, "MissingStream"},
}

// ErrorKind names the kind of a read or write failure, "" for nil and "IOError"
// for anything not produced by the codec.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "IOError"
}
