package hwp5

import (
	"encoding/binary"
	"fmt"
)

// Document is a decoded HWP 5.x document.
type Document struct {
	Header   *FileHeader
	DocInfo  *DocInfo
	Sections []*Section

	// BinData 스토리지 스트림 (압축 해제된 내용, 키는 "BIN0001.png")
	BinData      map[string][]byte
	PreviewText  string
	PreviewImage []byte
	Summary      *SummaryInfo
}

// Section은 본문 구역 (BodyText/SectionN)
type Section struct {
	Paragraphs []*Paragraph
}

// SectionDef returns the section definition control of the section's first paragraph.
func (s *Section) SectionDef() *SectionDefControl {
	if len(s.Paragraphs) == 0 {
		return nil
	}
	for _, c := range s.Paragraphs[0].Controls {
		if sd, ok := c.(*SectionDefControl); ok {
			return sd
		}
	}
	return nil
}

// PageDef returns the section's page definition, nil when absent.
func (s *Section) PageDef() *PageDef {
	if sd := s.SectionDef(); sd != nil {
		return sd.PageDef
	}
	return nil
}

// ParaHeader는 문단 헤더 (HWPTAG_PARA_HEADER)
type ParaHeader struct {
	NChars         uint32 // 글자 수 (최상위 비트는 플래그)
	ControlMask    uint32 // 컨트롤 마스크
	ParaShapeID    uint16 // 문단 모양 ID
	StyleID        uint8  // 스타일 ID
	BreakType      uint8  // 단 나누기 종류
	CharShapeCount uint16 // 글자 모양 정보 수
	RangeTagCount  uint16 // range tag 정보 수
	LineSegCount   uint16 // 각 줄에 대한 align 정보 수
	InstanceID     uint32 // 문단 Instance ID
	MergeFlag      uint16 // 변경 추적 병합 문단 여부 (5.0.3.2 이상)
	HasMergeFlag   bool
}

// CharRun marks the start of a character run and the char shape it uses.
type CharRun struct {
	Pos     uint32
	ShapeID uint32
}

// LineSeg는 한 줄의 레이아웃 정보 (HWPTAG_PARA_LINE_SEG)
type LineSeg struct {
	TextStart  uint32 // 텍스트 시작 위치
	VertPos    int32  // 줄의 세로 위치
	LineHeight int32  // 줄의 높이
	TextHeight int32  // 텍스트 부분의 높이
	Baseline   int32  // 베이스라인까지 거리
	Spacing    int32  // 줄 간격
	HorzStart  int32  // 컬럼에서의 시작 위치
	SegWidth   int32  // 세그먼트 폭
	Flags      uint32 // 태그 (페이지/컬럼 첫 줄 등)
}

// LineSeg 플래그
const (
	LineSegFirstInPage   uint32 = 1 << 0
	LineSegFirstInColumn uint32 = 1 << 1
)

// RangeTag는 영역 태그 (HWPTAG_PARA_RANGE_TAG)
type RangeTag struct {
	Start uint32
	End   uint32
	Tag   uint32 // 상위 8비트 종류, 하위 24비트 데이터
}

// Paragraph is one paragraph with its raw code units and anchored controls.
type Paragraph struct {
	Header    ParaHeader
	Chars     []uint16 // 컨트롤 문자 (8 WCHAR)와 끝의 0x000D 포함
	CharRuns  []CharRun
	LineSegs  []LineSeg
	RangeTags []RangeTag
	Controls  []Control
}

// Text returns the visible text of the paragraph.
func (p *Paragraph) Text() string {
	return VisibleText(p.Chars)
}

// Len returns the paragraph length in code units.
func (p *Paragraph) Len() int {
	return len(p.Chars)
}

// RunEnd returns the end offset of the i-th char run.
func (p *Paragraph) RunEnd(i int) int {
	if i+1 < len(p.CharRuns) {
		return int(p.CharRuns[i+1].Pos)
	}
	return len(p.Chars)
}

// ShapeAt returns the char shape id in effect at offset pos.
func (p *Paragraph) ShapeAt(pos int) uint32 {
	var id uint32
	for _, r := range p.CharRuns {
		if int(r.Pos) > pos {
			break
		}
		id = r.ShapeID
	}
	return id
}

// List is a paragraph list: a table cell body, caption, text box or sub list.
type List struct {
	Attr       uint32
	Rest       []byte // 공통 부분 뒤의 속성 (캡션 위치, 머리말 영역 폭 등). 셀은 Cell 필드로 해석한다.
	Paragraphs []*Paragraph
}

// 리스트 헤더 공통 부분 (문단 수, 예약, 속성)
const listHeaderPrefix = 8

func parseListHeader(data []byte) (*List, []byte, error) {
	if len(data) < 6 {
		return nil, nil, fmt.Errorf("%w: LIST_HEADER %d bytes", ErrMalformedRecord, len(data))
	}
	// 문단 수는 쓸 때 다시 계산한다.
	l := &List{}
	if len(data) >= listHeaderPrefix {
		l.Attr = binary.LittleEndian.Uint32(data[4:8])
		l.Rest = clone(data[listHeaderPrefix:])
		return l, data[listHeaderPrefix:], nil
	}
	l.Attr = uint32(binary.LittleEndian.Uint16(data[2:4]))
	return l, nil, nil
}

func (l *List) encodeHeader() []byte {
	return l.encodeHeaderWith(l.Rest)
}

func (l *List) encodeHeaderWith(rest []byte) []byte {
	buf := binary.LittleEndian.AppendUint16(nil, uint16(len(l.Paragraphs)))
	buf = binary.LittleEndian.AppendUint16(buf, 0)
	buf = binary.LittleEndian.AppendUint32(buf, l.Attr)
	return append(buf, rest...)
}

func parseParaHeader(data []byte) (ParaHeader, error) {
	if len(data) < 22 {
		return ParaHeader{}, fmt.Errorf("%w: PARA_HEADER %d bytes", ErrMalformedRecord, len(data))
	}
	le := binary.LittleEndian
	h := ParaHeader{
		NChars:         le.Uint32(data[0:4]),
		ControlMask:    le.Uint32(data[4:8]),
		ParaShapeID:    le.Uint16(data[8:10]),
		StyleID:        data[10],
		BreakType:      data[11],
		CharShapeCount: le.Uint16(data[12:14]),
		RangeTagCount:  le.Uint16(data[14:16]),
		LineSegCount:   le.Uint16(data[16:18]),
		InstanceID:     le.Uint32(data[18:22]),
	}
	if len(data) >= 24 {
		h.MergeFlag = le.Uint16(data[22:24])
		h.HasMergeFlag = true
	}
	return h, nil
}

// encodeHeader serializes the PARA_HEADER with counts taken from p.
func (p *Paragraph) encodeHeader() []byte {
	le := binary.LittleEndian
	h := p.Header
	nchars := uint32(len(p.Chars)) | h.NChars&0x80000000
	buf := make([]byte, 0, 24)
	buf = le.AppendUint32(buf, nchars)
	buf = le.AppendUint32(buf, h.ControlMask)
	buf = le.AppendUint16(buf, h.ParaShapeID)
	buf = append(buf, h.StyleID, h.BreakType)
	buf = le.AppendUint16(buf, uint16(len(p.CharRuns)))
	buf = le.AppendUint16(buf, uint16(len(p.RangeTags)))
	buf = le.AppendUint16(buf, uint16(len(p.LineSegs)))
	buf = le.AppendUint32(buf, h.InstanceID)
	if h.HasMergeFlag {
		buf = le.AppendUint16(buf, h.MergeFlag)
	}
	return buf
}

func parseCharRuns(data []byte) []CharRun {
	runs := make([]CharRun, len(data)/8)
	for i := range runs {
		runs[i] = CharRun{
			Pos:     binary.LittleEndian.Uint32(data[i*8:]),
			ShapeID: binary.LittleEndian.Uint32(data[i*8+4:]),
		}
	}
	return runs
}

func encodeCharRuns(runs []CharRun) []byte {
	buf := make([]byte, 0, len(runs)*8)
	for _, r := range runs {
		buf = binary.LittleEndian.AppendUint32(buf, r.Pos)
		buf = binary.LittleEndian.AppendUint32(buf, r.ShapeID)
	}
	return buf
}

const lineSegSize = 36

func parseLineSegs(data []byte) []LineSeg {
	le := binary.LittleEndian
	segs := make([]LineSeg, len(data)/lineSegSize)
	for i := range segs {
		b := data[i*lineSegSize:]
		segs[i] = LineSeg{
			TextStart:  le.Uint32(b[0:]),
			VertPos:    int32(le.Uint32(b[4:])),
			LineHeight: int32(le.Uint32(b[8:])),
			TextHeight: int32(le.Uint32(b[12:])),
			Baseline:   int32(le.Uint32(b[16:])),
			Spacing:    int32(le.Uint32(b[20:])),
			HorzStart:  int32(le.Uint32(b[24:])),
			SegWidth:   int32(le.Uint32(b[28:])),
			Flags:      le.Uint32(b[32:]),
		}
	}
	return segs
}

func encodeLineSegs(segs []LineSeg) []byte {
	le := binary.LittleEndian
	buf := make([]byte, 0, len(segs)*lineSegSize)
	for _, s := range segs {
		buf = le.AppendUint32(buf, s.TextStart)
		for _, v := range []int32{s.VertPos, s.LineHeight, s.TextHeight, s.Baseline, s.Spacing, s.HorzStart, s.SegWidth} {
			buf = le.AppendUint32(buf, uint32(v))
		}
		buf = le.AppendUint32(buf, s.Flags)
	}
	return buf
}

func parseRangeTags(data []byte) []RangeTag {
	tags := make([]RangeTag, len(data)/12)
	for i := range tags {
		b := data[i*12:]
		tags[i] = RangeTag{
			Start: binary.LittleEndian.Uint32(b[0:]),
			End:   binary.LittleEndian.Uint32(b[4:]),
			Tag:   binary.LittleEndian.Uint32(b[8:]),
		}
	}
	return tags
}

func encodeRangeTags(tags []RangeTag) []byte {
	buf := make([]byte, 0, len(tags)*12)
	for _, t := range tags {
		buf = binary.LittleEndian.AppendUint32(buf, t.Start)
		buf = binary.LittleEndian.AppendUint32(buf, t.End)
		buf = binary.LittleEndian.AppendUint32(buf, t.Tag)
	}
	return buf
}

// finish applies defaults, validates the run partition and assigns control anchors.
func (p *Paragraph) finish() error {
	if len(p.Chars) == 0 {
		p.Chars = []uint16{CharParaBreak}
	}
	if len(p.CharRuns) == 0 {
		p.CharRuns = []CharRun{{Pos: 0, ShapeID: 0}}
	}

	if p.CharRuns[0].Pos != 0 {
		return fmt.Errorf("%w: first char run starts at %d", ErrMalformedRecord, p.CharRuns[0].Pos)
	}
	for i := 1; i < len(p.CharRuns); i++ {
		if p.CharRuns[i].Pos <= p.CharRuns[i-1].Pos {
			return fmt.Errorf("%w: char run %d at %d does not follow %d",
				ErrMalformedRecord, i, p.CharRuns[i].Pos, p.CharRuns[i-1].Pos)
		}
		if int(p.CharRuns[i].Pos) >= len(p.Chars) {
			return fmt.Errorf("%w: char run %d at %d past text length %d",
				ErrMalformedRecord, i, p.CharRuns[i].Pos, len(p.Chars))
		}
	}

	anchors := ControlPositions(p.Chars)
	if len(p.Controls) > len(anchors) {
		return fmt.Errorf("%w: %d controls for %d control characters",
			ErrMalformedRecord, len(p.Controls), len(anchors))
	}
	for i, c := range p.Controls {
		c.setAnchor(anchors[i])
	}
	return nil
}

// AddParagraph appends a plain text paragraph using the given shapes and returns it.
// Line breaks in text become 0x000A and tabs become inline tab controls.
func (s *Section) AddParagraph(text string, charShapeID, paraShapeID uint16) *Paragraph {
	p := &Paragraph{
		Header:   ParaHeader{ParaShapeID: paraShapeID, HasMergeFlag: true},
		Chars:    textUnits(text),
		CharRuns: []CharRun{{Pos: 0, ShapeID: uint32(charShapeID)}},
	}
	p.Header.NChars = uint32(len(p.Chars))
	p.Header.CharShapeCount = 1
	p.Header.ControlMask = controlMask(p.Chars)
	s.Paragraphs = append(s.Paragraphs, p)
	return p
}

func textUnits(text string) []uint16 {
	var units []uint16
	for _, u := range BytesToUnits(EncodeText(text)) {
		switch u {
		case '\n':
			units = append(units, CharLineBreak)
		case '\r':
		case '\t':
			// 탭: 코드 + 너비 정보 + 코드
			units = append(units, CharTab, 0, 0, 0, 0, 0, 0, CharTab)
		default:
			units = append(units, u)
		}
	}
	return append(units, CharParaBreak)
}

func controlMask(chars []uint16) uint32 {
	var mask uint32
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		if c < 32 {
			mask |= 1 << c
		}
		if IsExtendedControl(c) || IsInlineControl(c) {
			i += ControlCharWidth - 1
		}
	}
	return mask
}
