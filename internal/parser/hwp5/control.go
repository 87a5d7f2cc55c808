package hwp5

import (
	"encoding/binary"
	"fmt"
)

// Control is an object anchored at an extended control character of a paragraph.
type Control interface {
	// CtrlID returns the four-character control id ("tbl ", "gso ", ...).
	CtrlID() uint32
	// Anchor returns the offset of the control character in Paragraph.Chars.
	Anchor() int

	setAnchor(pos int)
}

// ControlBase carries what every control has.
type ControlBase struct {
	ID  uint32
	Pos int
}

func (c *ControlBase) CtrlID() uint32    { return c.ID }
func (c *ControlBase) Anchor() int       { return c.Pos }
func (c *ControlBase) setAnchor(pos int) { c.Pos = pos }

// ObjectCommon은 개체 공통 속성 (표, 그리기 개체, 수식의 CTRL_HEADER)
type ObjectCommon struct {
	Attr             uint32
	VertOffset       int32
	HorzOffset       int32
	Width            uint32
	Height           uint32
	ZOrder           int32
	Margins          [4]int16 // 바깥 여백: 왼쪽, 오른쪽, 위, 아래
	InstanceID       uint32
	PreventPageBreak int32
	Description      string
	Tail             []byte

	// 구버전 레코드에 없던 필드: 다시 쓸 때도 생략한다
	noPageBreak   bool
	noDescription bool
}

// TreatAsChar reports whether the object flows with the text like a character.
func (o *ObjectCommon) TreatAsChar() bool {
	return o.Attr&0x01 != 0
}

// 개체 공통 속성의 고정 부분 (ctrl id 제외)
const objectCommonFixed = 36

func parseObjectCommon(data []byte) (ObjectCommon, error) {
	if len(data) < objectCommonFixed {
		return ObjectCommon{}, fmt.Errorf("%w: object header %d bytes", ErrMalformedRecord, len(data))
	}
	le := binary.LittleEndian
	o := ObjectCommon{
		Attr:       le.Uint32(data[0:]),
		VertOffset: int32(le.Uint32(data[4:])),
		HorzOffset: int32(le.Uint32(data[8:])),
		Width:      le.Uint32(data[12:]),
		Height:     le.Uint32(data[16:]),
		ZOrder:     int32(le.Uint32(data[20:])),
		InstanceID: le.Uint32(data[32:]),
	}
	for i := range 4 {
		o.Margins[i] = int16(le.Uint16(data[24+i*2:]))
	}
	off := objectCommonFixed
	o.noPageBreak, o.noDescription = true, true
	if off+4 <= len(data) {
		o.PreventPageBreak = int32(le.Uint32(data[off:]))
		o.noPageBreak = false
		off += 4
		if desc, next, ok := readString(data, off); ok {
			o.Description = desc
			o.noDescription = false
			off = next
		}
	}
	o.Tail = clone(data[off:])
	return o, nil
}

func (o *ObjectCommon) encode() []byte {
	le := binary.LittleEndian
	buf := make([]byte, 0, 48)
	buf = le.AppendUint32(buf, o.Attr)
	buf = le.AppendUint32(buf, uint32(o.VertOffset))
	buf = le.AppendUint32(buf, uint32(o.HorzOffset))
	buf = le.AppendUint32(buf, o.Width)
	buf = le.AppendUint32(buf, o.Height)
	buf = le.AppendUint32(buf, uint32(o.ZOrder))
	for _, m := range o.Margins {
		buf = le.AppendUint16(buf, uint16(m))
	}
	buf = le.AppendUint32(buf, o.InstanceID)
	if o.noPageBreak {
		return append(buf, o.Tail...)
	}
	buf = le.AppendUint32(buf, uint32(o.PreventPageBreak))
	if !o.noDescription {
		buf = appendString(buf, o.Description)
	}
	return append(buf, o.Tail...)
}

// TableControl은 표 ("tbl ")
type TableControl struct {
	ControlBase
	Common       ObjectCommon
	Attr         uint32
	Rows         uint16
	Cols         uint16
	CellSpacing  uint16
	Padding      [4]uint16 // 안쪽 여백: 왼쪽, 오른쪽, 위, 아래
	RowSizes     []uint16
	BorderFillID uint16 // 1부터, 0은 없음
	Zones        []byte // 영역 속성 (5.0.1.0 이상, 원본 그대로)
	Caption      *List
	Cells        []*Cell
	Extra        []*Record
}

// Cell은 표의 셀 (LIST_HEADER + 셀 속성)
type Cell struct {
	List
	Col          uint16
	Row          uint16
	ColSpan      uint16
	RowSpan      uint16
	Width        uint32
	Height       uint32
	Margins      [4]uint16
	BorderFillID uint16 // 1부터, 0은 없음
	Tail         []byte
}

func (t *TableControl) parseTable(data []byte) error {
	if len(data) < 18 {
		return fmt.Errorf("%w: TABLE %d bytes", ErrMalformedRecord, len(data))
	}
	le := binary.LittleEndian
	t.Attr = le.Uint32(data[0:])
	t.Rows = le.Uint16(data[4:])
	t.Cols = le.Uint16(data[6:])
	t.CellSpacing = le.Uint16(data[8:])
	for i := range 4 {
		t.Padding[i] = le.Uint16(data[10+i*2:])
	}
	off := 18
	if off+int(t.Rows)*2 > len(data) {
		return fmt.Errorf("%w: TABLE row sizes truncated", ErrMalformedRecord)
	}
	t.RowSizes = make([]uint16, t.Rows)
	for i := range t.RowSizes {
		t.RowSizes[i] = le.Uint16(data[off:])
		off += 2
	}
	if off+2 <= len(data) {
		t.BorderFillID = le.Uint16(data[off:])
		off += 2
	}
	t.Zones = clone(data[off:])
	return nil
}

func (t *TableControl) encodeTable() []byte {
	le := binary.LittleEndian
	buf := le.AppendUint32(nil, t.Attr)
	buf = le.AppendUint16(buf, t.Rows)
	buf = le.AppendUint16(buf, t.Cols)
	buf = le.AppendUint16(buf, t.CellSpacing)
	for _, p := range t.Padding {
		buf = le.AppendUint16(buf, p)
	}
	for i := range int(t.Rows) {
		var v uint16
		if i < len(t.RowSizes) {
			v = t.RowSizes[i]
		}
		buf = le.AppendUint16(buf, v)
	}
	buf = le.AppendUint16(buf, t.BorderFillID)
	return append(buf, t.Zones...)
}

// 셀 속성 크기 (LIST_HEADER 공통 부분 뒤)
const cellFieldsSize = 26

func parseCell(l *List, rest []byte) (*Cell, error) {
	if len(rest) < cellFieldsSize {
		return nil, fmt.Errorf("%w: cell header %d bytes", ErrMalformedRecord, len(rest))
	}
	le := binary.LittleEndian
	c := &Cell{
		List:    List{Attr: l.Attr},
		Col:     le.Uint16(rest[0:]),
		Row:     le.Uint16(rest[2:]),
		ColSpan: le.Uint16(rest[4:]),
		RowSpan: le.Uint16(rest[6:]),
		Width:   le.Uint32(rest[8:]),
		Height:  le.Uint32(rest[12:]),
	}
	for i := range 4 {
		c.Margins[i] = le.Uint16(rest[16+i*2:])
	}
	c.BorderFillID = le.Uint16(rest[24:])
	c.Tail = clone(rest[cellFieldsSize:])
	return c, nil
}

func (c *Cell) encode() []byte {
	le := binary.LittleEndian
	buf := le.AppendUint16(nil, c.Col)
	buf = le.AppendUint16(buf, c.Row)
	buf = le.AppendUint16(buf, c.ColSpan)
	buf = le.AppendUint16(buf, c.RowSpan)
	buf = le.AppendUint32(buf, c.Width)
	buf = le.AppendUint32(buf, c.Height)
	for _, m := range c.Margins {
		buf = le.AppendUint16(buf, m)
	}
	buf = le.AppendUint16(buf, c.BorderFillID)
	return c.List.encodeHeaderWith(append(buf, c.Tail...))
}

// CellAt returns the cell covering the grid position, nil if none.
func (t *TableControl) CellAt(row, col int) *Cell {
	for _, c := range t.Cells {
		if row >= int(c.Row) && row < int(c.Row)+max(int(c.RowSpan), 1) &&
			col >= int(c.Col) && col < int(c.Col)+max(int(c.ColSpan), 1) {
			return c
		}
	}
	return nil
}

// ShapeKind는 그리기 개체 종류
type ShapeKind int

const (
	ShapeOther ShapeKind = iota
	ShapeLine
	ShapeRectangle
	ShapeEllipse
	ShapeArc
	ShapePolygon
	ShapeCurve
	ShapeOLE
	ShapePicture
	ShapeContainer
	ShapeTextArt
)

var shapeKindTags = map[uint16]ShapeKind{
	TagShapeLine:      ShapeLine,
	TagShapeRectangle: ShapeRectangle,
	TagShapeEllipse:   ShapeEllipse,
	TagShapeArc:       ShapeArc,
	TagShapePolygon:   ShapePolygon,
	TagShapeCurve:     ShapeCurve,
	TagShapeOLE:       ShapeOLE,
	TagShapePicture:   ShapePicture,
	TagShapeContainer: ShapeContainer,
	TagShapeTextArt:   ShapeTextArt,
}

// String returns a short name for the kind.
func (k ShapeKind) String() string {
	return [...]string{"other", "line", "rectangle", "ellipse", "arc", "polygon", "curve",
		"ole", "picture", "container", "textart"}[k]
}

// ShapeControl은 그리기 개체 ("gso ")
type ShapeControl struct {
	ControlBase
	Common    ObjectCommon
	Caption   *List
	Component *ShapeComponent
	Extra     []*Record
}

// ShapeComponent는 SHAPE_COMPONENT와 그 하위 레코드
type ShapeComponent struct {
	Kind     ShapeKind
	Raw      []byte // SHAPE_COMPONENT 본문
	Tag      uint16 // 개체별 레코드 태그 (0이면 없음)
	Data     []byte // 개체별 레코드 본문
	TextBox  *List  // 글상자
	Children []*ShapeComponent
	Extra    []*Record
}

// 그림 개체에서 BinData ID 위치 (테두리, 사각형 좌표, 자르기, 여백 뒤)
const pictureBinIDOffset = 71

// BinDataID returns the 1-based BIN_DATA id of a picture, 0 for other shapes.
func (sc *ShapeComponent) BinDataID() uint16 {
	if sc.Kind != ShapePicture || len(sc.Data) < pictureBinIDOffset+2 {
		return 0
	}
	return binary.LittleEndian.Uint16(sc.Data[pictureBinIDOffset:])
}

// SetBinDataID rewrites the picture's BIN_DATA id.
func (sc *ShapeComponent) SetBinDataID(id uint16) {
	if sc.Kind == ShapePicture && len(sc.Data) >= pictureBinIDOffset+2 {
		binary.LittleEndian.PutUint16(sc.Data[pictureBinIDOffset:], id)
	}
}

// Walk visits sc and its group children depth-first.
func (sc *ShapeComponent) Walk(fn func(*ShapeComponent)) {
	if sc == nil {
		return
	}
	fn(sc)
	for _, ch := range sc.Children {
		ch.Walk(fn)
	}
}

// EquationControl은 수식 ("eqed")
type EquationControl struct {
	ControlBase
	Common  ObjectCommon
	Attr    uint32
	Script  string
	Tail    []byte // 글자 크기, 색, 베이스라인, 버전, 글꼴
	Caption *List
	Extra   []*Record
}

func (e *EquationControl) parseEqEdit(data []byte) error {
	if len(data) < 6 {
		return fmt.Errorf("%w: EQEDIT %d bytes", ErrMalformedRecord, len(data))
	}
	e.Attr = binary.LittleEndian.Uint32(data)
	script, off, ok := readString(data, 4)
	if !ok {
		return fmt.Errorf("%w: EQEDIT script truncated", ErrMalformedRecord)
	}
	e.Script = script
	e.Tail = clone(data[off:])
	return nil
}

func (e *EquationControl) encodeEqEdit() []byte {
	buf := binary.LittleEndian.AppendUint32(nil, e.Attr)
	buf = appendString(buf, e.Script)
	return append(buf, e.Tail...)
}

// PageDef는 용지 설정 (HWPTAG_PAGE_DEF), 단위 HWPUNIT
type PageDef struct {
	PaperWidth   uint32
	PaperHeight  uint32
	LeftMargin   uint32
	RightMargin  uint32
	TopMargin    uint32
	BottomMargin uint32
	HeaderMargin uint32
	FooterMargin uint32
	GutterMargin uint32
	Attr         uint32 // bit 0: 가로 방향
}

// A4 세로, 한글 기본 여백
var DefaultPageDef = PageDef{
	PaperWidth:   59528,
	PaperHeight:  84188,
	LeftMargin:   8504,
	RightMargin:  8504,
	TopMargin:    5668,
	BottomMargin: 4252,
	HeaderMargin: 4252,
	FooterMargin: 4252,
}

func parsePageDef(data []byte) (*PageDef, error) {
	if len(data) < 40 {
		return nil, fmt.Errorf("%w: PAGE_DEF %d bytes", ErrMalformedRecord, len(data))
	}
	v := make([]uint32, 10)
	for i := range v {
		v[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return &PageDef{v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8], v[9]}, nil
}

func (p *PageDef) encode() []byte {
	buf := make([]byte, 0, 40)
	for _, v := range []uint32{p.PaperWidth, p.PaperHeight, p.LeftMargin, p.RightMargin,
		p.TopMargin, p.BottomMargin, p.HeaderMargin, p.FooterMargin, p.GutterMargin, p.Attr} {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

// Landscape reports whether width and height are swapped on the page.
func (p *PageDef) Landscape() bool {
	return p.Attr&0x01 != 0
}

// ContentWidth returns the text area width: paper width minus side and gutter margins.
func (p *PageDef) ContentWidth() int32 {
	w := p.PaperWidth
	if p.Landscape() {
		w = p.PaperHeight
	}
	return int32(w) - int32(p.LeftMargin) - int32(p.RightMargin) - int32(p.GutterMargin)
}

// ContentTop returns the distance from the paper top to the body text.
func (p *PageDef) ContentTop() int32 {
	return int32(p.TopMargin) + int32(p.HeaderMargin)
}

// ContentHeight returns the body text area height.
func (p *PageDef) ContentHeight() int32 {
	h := p.PaperHeight
	if p.Landscape() {
		h = p.PaperWidth
	}
	return int32(h) - p.ContentTop() - int32(p.BottomMargin) - int32(p.FooterMargin)
}

// SectionDefControl은 구역 정의 ("secd")
type SectionDefControl struct {
	ControlBase
	Data    []byte // CTRL_HEADER 본문 (ctrl id 제외)
	PageDef *PageDef
	Extra   []*Record // 각주 모양, 쪽 테두리 등
}

// SubListControl은 문단 리스트를 가진 컨트롤: 머리말, 꼬리말, 각주, 미주, 숨은 설명
type SubListControl struct {
	ControlBase
	Data  []byte
	List  *List
	Extra []*Record
}

// IsHeaderFooter reports whether the control is a page header or footer.
func (s *SubListControl) IsHeaderFooter() bool {
	return s.ID == CtrlHeader || s.ID == CtrlFooter
}

// GenericControl은 그 밖의 컨트롤. 하위 레코드는 컨트롤 기준 상대 레벨로 보관한다.
type GenericControl struct {
	ControlBase
	Data     []byte
	Children []*Record
}

func isSubListCtrl(id uint32) bool {
	switch id {
	case CtrlHeader, CtrlFooter, CtrlFootnote, CtrlEndnote, CtrlHiddenComment:
		return true
	}
	return false
}
