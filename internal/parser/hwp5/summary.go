package hwp5

import (
	"bytes"
	"fmt"

	"github.com/richardlehane/msoleps"
)

// SummaryInfo는 \x05HwpSummaryInformation 속성 집합.
// Raw는 다시 쓸 때 그대로 저장한다.
type SummaryInfo struct {
	Properties map[string]string
	Raw        []byte
}

// ParseSummaryInfo decodes an OLE property set stream.
func ParseSummaryInfo(data []byte) (*SummaryInfo, error) {
	r, err := msoleps.NewFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: summary information: %v", ErrMalformedRecord, err)
	}
	s := &SummaryInfo{Properties: make(map[string]string, len(r.Property)), Raw: clone(data)}
	for _, p := range r.Property {
		if p == nil || p.Name == "" {
			continue
		}
		s.Properties[p.Name] = p.String()
	}
	return s, nil
}

// Get returns a property value by name, "" when absent.
func (s *SummaryInfo) Get(name string) string {
	if s == nil {
		return ""
	}
	return s.Properties[name]
}

func (s *SummaryInfo) Title() string  { return s.Get("Title") }
func (s *SummaryInfo) Author() string { return s.Get("Author") }
