package cfb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
)

// ErrVerifyMismatch is returned when an independent reader disagrees with Open.
var ErrVerifyMismatch = errors.New("cfb: independent reader mismatch")

// Mismatch describes one stream the two readers disagree on.
type Mismatch struct {
	Path   string
	Reason string
}

// Verify decodes data with Open and with richardlehane/mscfb and compares every
// stream. Empty streams are skipped; mscfb reports them without content.
func Verify(data []byte) ([]Mismatch, error) {
	c, err := Open(data)
	if err != nil {
		return nil, err
	}
	r, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: mscfb: %v", ErrVerifyMismatch, err)
	}

	ours := c.Map()
	seen := make(map[string]bool, len(ours))
	var out []Mismatch

	for f, err := r.Next(); err == nil; f, err = r.Next() {
		path := mscfbPath(f)
		want, ok := ours[path]
		if !ok {
			// 스토리지는 Map에 없다
			if f.Size == 0 {
				continue
			}
			out = append(out, Mismatch{Path: path, Reason: "missing from container"})
			continue
		}
		seen[path] = true
		got, err := io.ReadAll(f)
		if err != nil {
			out = append(out, Mismatch{Path: path, Reason: err.Error()})
			continue
		}
		if len(want) > 0 && !bytes.Equal(want, got) {
			out = append(out, Mismatch{Path: path, Reason: fmt.Sprintf("content differs (%d vs %d bytes)", len(want), len(got))})
		}
	}

	for path, b := range ours {
		if !seen[path] && len(b) > 0 {
			out = append(out, Mismatch{Path: path, Reason: "not listed by mscfb"})
		}
	}
	if len(out) > 0 {
		return out, fmt.Errorf("%w: %d streams", ErrVerifyMismatch, len(out))
	}
	return nil, nil
}

// mscfbPath rebuilds the full stream path. mscfb moves a non-printable first
// character (\x05 in \x05HwpSummaryInformation) out of Name into Initial.
func mscfbPath(f *mscfb.File) string {
	name := f.Name
	if f.Initial != 0 && !unicode.IsPrint(rune(f.Initial)) {
		name = string(rune(f.Initial)) + name
	}
	return strings.Join(append(append([]string{}, f.Path...), name), "/")
}
