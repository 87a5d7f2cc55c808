package hwp5

import (
	"encoding/binary"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// 글꼴 언어 그룹 (ID_MAPPINGS 순서)
const (
	LangHangul = iota
	LangLatin
	LangHanja
	LangJapanese
	LangOther
	LangSymbol
	LangUser
	LangCount
)

// DocInfo는 문서 정보 스트림에서 파싱된 서식 테이블.
// 각 테이블의 인덱스는 정의 레코드의 출현 순서이다.
type DocInfo struct {
	Properties  *DocumentProperties
	IDMappings  *IDMappings
	BinData     []*BinDataInfo
	FaceNames   []*FaceName
	BorderFills []*BorderFill
	CharShapes  []*CharShape
	TabDefs     [][]byte
	Numberings  [][]byte
	Bullets     [][]byte
	ParaShapes  []*ParaShape
	Styles      []*Style

	// 해석하지 않는 레코드 (DOC_DATA, COMPATIBLE_DOCUMENT 등). 순서와 레벨 유지.
	Extra []*Record
}

// DocumentProperties는 문서 속성 (HWPTAG_DOCUMENT_PROPERTIES)
type DocumentProperties struct {
	SectionCount  uint16 // 구역 개수
	PageStartNum  uint16 // 시작 페이지 번호
	FootnoteStart uint16 // 각주 시작 번호
	EndnoteStart  uint16 // 미주 시작 번호
	PictureStart  uint16 // 그림 시작 번호
	TableStart    uint16 // 표 시작 번호
	EquationStart uint16 // 수식 시작 번호
	ListID        uint32 // 캐럿 위치: 리스트 ID
	ParaID        uint32 // 캐럿 위치: 문단 ID
	CharPos       uint32 // 캐럿 위치: 글자 단위 위치
}

// IDMappings는 ID 매핑 테이블 크기 (HWPTAG_ID_MAPPINGS)
type IDMappings struct {
	BinData      int32
	FaceNames    [LangCount]int32
	BorderFill   int32
	CharShape    int32
	TabDef       int32
	Numbering    int32
	Bullet       int32
	ParaShape    int32
	Style        int32
	MemoShape    int32
	TrackChange  int32
	TrackAuthors int32

	fields int // 레코드에 실제로 있던 항목 수
}

// BinDataInfo는 바이너리 데이터 정보 (HWPTAG_BIN_DATA)
type BinDataInfo struct {
	Attr      uint16 // 하위 4비트: 0 LINK, 1 EMBEDDING, 2 STORAGE
	AbsPath   string // LINK 절대 경로
	RelPath   string // LINK 상대 경로
	BinDataID uint16 // BinData 스토리지 내 ID
	Extension string // 확장자
	Tail      []byte
}

const (
	BinDataLink      = 0
	BinDataEmbedding = 1
	BinDataStorage   = 2
)

// FaceName은 글꼴 (HWPTAG_FACE_NAME)
type FaceName struct {
	Attr uint8
	Name string
	Tail []byte // 대체 글꼴, 글꼴 유형 정보, 기본 글꼴
}

// Border는 한 방향의 테두리선
type Border struct {
	Type  uint8
	Width uint8
	Color uint32
}

// BorderFill은 테두리/배경 (HWPTAG_BORDER_FILL)
type BorderFill struct {
	Attr     uint16
	Borders  [4]Border // 왼쪽, 오른쪽, 위, 아래
	Diagonal Border
	Fill     []byte // 채우기 정보 (원본 그대로)
}

// CharShape는 글자 모양 (HWPTAG_CHAR_SHAPE)
type CharShape struct {
	FaceID       [LangCount]uint16 // 언어별 글꼴 ID
	Ratios       [LangCount]uint8  // 언어별 장평
	Spacings     [LangCount]int8   // 언어별 자간
	RelSizes     [LangCount]uint8  // 언어별 상대 크기
	Offsets      [LangCount]int8   // 언어별 오프셋
	Height       int32             // 기준 크기 (100분의 1pt)
	Attributes   uint32            // 속성 플래그
	ShadowGap1   int8              // 그림자 간격 1
	ShadowGap2   int8              // 그림자 간격 2
	TextColor    uint32            // 글자 색
	UnderColor   uint32            // 밑줄 색
	ShadeColor   uint32            // 음영 색
	ShadowColor  uint32            // 그림자 색
	BorderFillID uint16            // 글자 테두리/배경 ID (1부터, 0은 없음)
	StrikeColor  uint32            // 취소선 색
	Tail         []byte
}

// ParaShape는 문단 모양 (HWPTAG_PARA_SHAPE)
type ParaShape struct {
	Attributes1     uint32 // 속성 1
	LeftMargin      int32  // 왼쪽 여백
	RightMargin     int32  // 오른쪽 여백
	Indent          int32  // 들여쓰기
	ParaSpaceBefore int32  // 문단 위 간격
	ParaSpaceAfter  int32  // 문단 아래 간격
	LineSpacing     int32  // 줄 간격 (5.0.2.5 미만)
	TabDefID        uint16 // 탭 정의 ID
	NumberingID     uint16 // 문단 번호/글머리표 ID
	BorderFillID    uint16 // 테두리/배경 ID (1부터, 0은 없음)
	BorderOffsets   [4]int16
	Attributes2     uint32 // 속성 2
	Attributes3     uint32 // 속성 3 (줄 간격 종류)
	LineSpacing2    uint32 // 줄 간격 (5.0.2.5 이상)
	Tail            []byte
}

// 줄 간격 종류
const (
	LineSpacingPercent = 0 // 글자에 따라
	LineSpacingFixed   = 1 // 고정 값
	LineSpacingBetween = 2 // 여백만 지정
	LineSpacingAtLeast = 3 // 최소
)

// 문단 정렬
const (
	AlignJustify    = 0
	AlignLeft       = 1
	AlignRight      = 2
	AlignCenter     = 3
	AlignDistribute = 4
	AlignDivide     = 5
)

// Style은 스타일 정의 (HWPTAG_STYLE)
type Style struct {
	Name        string // 스타일 이름
	EngName     string // 영문 스타일 이름
	Type        uint8  // 스타일 타입 (0 문단, 1 글자)
	NextStyleID uint8  // 다음 스타일 ID
	LangID      int16  // 언어 ID
	ParaShapeID uint16 // 문단 모양 ID
	CharShapeID uint16 // 글자 모양 ID
	Tail        []byte
}

// ParseDocInfo parses the decompressed DocInfo stream.
func ParseDocInfo(data []byte, log *zap.Logger) (*DocInfo, error) {
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("DocInfo: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	info := &DocInfo{}
	for _, rec := range records {
		if err := info.add(rec); err != nil {
			return nil, fmt.Errorf("DocInfo %s: %w", TagName(rec.TagID), err)
		}
	}
	log.Debug("DocInfo parsed",
		zap.Int("records", len(records)),
		zap.Int("charShapes", len(info.CharShapes)),
		zap.Int("paraShapes", len(info.ParaShapes)),
		zap.Int("extra", len(info.Extra)))
	return info, nil
}

func (info *DocInfo) add(rec *Record) error {
	var err error
	switch rec.TagID {
	case TagDocumentProperties:
		info.Properties, err = parseDocumentProperties(rec.Data)
	case TagIDMappings:
		info.IDMappings = parseIDMappings(rec.Data)
	case TagBinData:
		var b *BinDataInfo
		if b, err = parseBinDataInfo(rec.Data); err == nil {
			info.BinData = append(info.BinData, b)
		}
	case TagFaceName:
		var f *FaceName
		if f, err = parseFaceName(rec.Data); err == nil {
			info.FaceNames = append(info.FaceNames, f)
		}
	case TagBorderFill:
		var b *BorderFill
		if b, err = parseBorderFill(rec.Data); err == nil {
			info.BorderFills = append(info.BorderFills, b)
		}
	case TagCharShape:
		var cs *CharShape
		if cs, err = parseCharShape(rec.Data); err == nil {
			info.CharShapes = append(info.CharShapes, cs)
		}
	case TagTabDef:
		info.TabDefs = append(info.TabDefs, clone(rec.Data))
	case TagNumbering:
		info.Numberings = append(info.Numberings, clone(rec.Data))
	case TagBullet:
		info.Bullets = append(info.Bullets, clone(rec.Data))
	case TagParaShape:
		var ps *ParaShape
		if ps, err = parseParaShape(rec.Data); err == nil {
			info.ParaShapes = append(info.ParaShapes, ps)
		}
	case TagStyle:
		var s *Style
		if s, err = parseStyle(rec.Data); err == nil {
			info.Styles = append(info.Styles, s)
		}
	default:
		info.Extra = append(info.Extra, NewRecord(rec.TagID, rec.Level, clone(rec.Data)))
	}
	return err
}

// FaceGroup returns the face names of one language group. Without ID_MAPPINGS the
// whole table is a single group.
func (info *DocInfo) FaceGroup(lang int) []*FaceName {
	if info.IDMappings == nil {
		return info.FaceNames
	}
	off := 0
	for i := range lang {
		off += int(info.IDMappings.FaceNames[i])
	}
	n := int(info.IDMappings.FaceNames[lang])
	if off >= len(info.FaceNames) || n <= 0 {
		return nil
	}
	return info.FaceNames[off:min(off+n, len(info.FaceNames))]
}

// Face resolves a char shape's face for a language group.
func (info *DocInfo) Face(cs *CharShape, lang int) *FaceName {
	group := info.FaceGroup(lang)
	id := int(cs.FaceID[lang])
	if id >= len(group) {
		return nil
	}
	return group[id]
}

func parseDocumentProperties(data []byte) (*DocumentProperties, error) {
	if len(data) < 26 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedRecord, len(data))
	}
	le := binary.LittleEndian
	return &DocumentProperties{
		SectionCount:  le.Uint16(data[0:2]),
		PageStartNum:  le.Uint16(data[2:4]),
		FootnoteStart: le.Uint16(data[4:6]),
		EndnoteStart:  le.Uint16(data[6:8]),
		PictureStart:  le.Uint16(data[8:10]),
		TableStart:    le.Uint16(data[10:12]),
		EquationStart: le.Uint16(data[12:14]),
		ListID:        le.Uint32(data[14:18]),
		ParaID:        le.Uint32(data[18:22]),
		CharPos:       le.Uint32(data[22:26]),
	}, nil
}

// Encode serializes the properties record payload.
func (p *DocumentProperties) Encode() []byte {
	buf := make([]byte, 0, 26)
	le := binary.LittleEndian
	for _, v := range []uint16{p.SectionCount, p.PageStartNum, p.FootnoteStart, p.EndnoteStart,
		p.PictureStart, p.TableStart, p.EquationStart} {
		buf = le.AppendUint16(buf, v)
	}
	buf = le.AppendUint32(buf, p.ListID)
	buf = le.AppendUint32(buf, p.ParaID)
	return le.AppendUint32(buf, p.CharPos)
}

func parseIDMappings(data []byte) *IDMappings {
	vals := make([]int32, 18)
	n := min(len(data)/4, len(vals))
	for i := range n {
		vals[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	m := &IDMappings{BinData: vals[0], fields: n}
	copy(m.FaceNames[:], vals[1:8])
	m.BorderFill = vals[8]
	m.CharShape = vals[9]
	m.TabDef = vals[10]
	m.Numbering = vals[11]
	m.Bullet = vals[12]
	m.ParaShape = vals[13]
	m.Style = vals[14]
	m.MemoShape = vals[15]
	m.TrackChange = vals[16]
	m.TrackAuthors = vals[17]
	return m
}

// Encode serializes the mappings with the field count they were read with
// (18 for new mappings).
func (m *IDMappings) Encode() []byte {
	vals := []int32{m.BinData}
	vals = append(vals, m.FaceNames[:]...)
	vals = append(vals, m.BorderFill, m.CharShape, m.TabDef, m.Numbering, m.Bullet,
		m.ParaShape, m.Style, m.MemoShape, m.TrackChange, m.TrackAuthors)
	n := m.fields
	if n <= 0 || n > len(vals) {
		n = len(vals)
	}
	buf := make([]byte, 0, n*4)
	for _, v := range vals[:n] {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
	}
	return buf
}

// Fields returns how many counters the record carries.
func (m *IDMappings) Fields() int {
	if m.fields == 0 {
		return 18
	}
	return m.fields
}

// SetFields fixes the counter count used by Encode.
func (m *IDMappings) SetFields(n int) {
	m.fields = n
}

func parseBinDataInfo(data []byte) (*BinDataInfo, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedRecord, len(data))
	}
	info := &BinDataInfo{Attr: binary.LittleEndian.Uint16(data[0:2])}
	off := 2
	ok := true

	switch info.Type() {
	case BinDataLink:
		info.AbsPath, off, ok = readString(data, off)
		if ok {
			info.RelPath, off, ok = readString(data, off)
		}
	case BinDataEmbedding, BinDataStorage:
		if off+2 > len(data) {
			ok = false
			break
		}
		info.BinDataID = binary.LittleEndian.Uint16(data[off:])
		off += 2
		if info.Type() == BinDataEmbedding {
			info.Extension, off, ok = readString(data, off)
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: truncated BIN_DATA", ErrMalformedRecord)
	}
	info.Tail = clone(data[off:])
	return info, nil
}

// Type returns the storage type (link, embedding or storage).
func (info *BinDataInfo) Type() int {
	return int(info.Attr & 0x0F)
}

// Compression returns bits 4-5: 0 follow the document, 1 compress, 2 store.
func (info *BinDataInfo) Compression() int {
	return int(info.Attr>>4) & 0x03
}

// Encode serializes the BIN_DATA payload.
func (info *BinDataInfo) Encode() []byte {
	buf := binary.LittleEndian.AppendUint16(nil, info.Attr)
	switch info.Type() {
	case BinDataLink:
		buf = appendString(buf, info.AbsPath)
		buf = appendString(buf, info.RelPath)
	case BinDataEmbedding:
		buf = binary.LittleEndian.AppendUint16(buf, info.BinDataID)
		buf = appendString(buf, info.Extension)
	case BinDataStorage:
		buf = binary.LittleEndian.AppendUint16(buf, info.BinDataID)
	}
	return append(buf, info.Tail...)
}

// StreamName returns the stream name inside the BinData storage ("BIN0001.png").
func (info *BinDataInfo) StreamName() string {
	if info.BinDataID == 0 {
		return ""
	}
	if info.Type() == BinDataStorage {
		return fmt.Sprintf("BIN%04X.OLE", info.BinDataID)
	}
	return fmt.Sprintf("BIN%04X.%s", info.BinDataID, strings.ToLower(info.Extension))
}

func parseFaceName(data []byte) (*FaceName, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedRecord, len(data))
	}
	name, off, ok := readString(data, 1)
	if !ok {
		return nil, fmt.Errorf("%w: truncated face name", ErrMalformedRecord)
	}
	return &FaceName{Attr: data[0], Name: name, Tail: clone(data[off:])}, nil
}

// Encode serializes the FACE_NAME payload.
func (f *FaceName) Encode() []byte {
	buf := appendString([]byte{f.Attr}, f.Name)
	return append(buf, f.Tail...)
}

func parseBorderFill(data []byte) (*BorderFill, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedRecord, len(data))
	}
	bf := &BorderFill{Attr: binary.LittleEndian.Uint16(data[0:2])}
	off := 2
	for i := range 4 {
		bf.Borders[i] = parseBorder(data[off:])
		off += 6
	}
	bf.Diagonal = parseBorder(data[off:])
	off += 6
	bf.Fill = clone(data[off:])
	return bf, nil
}

func parseBorder(b []byte) Border {
	return Border{Type: b[0], Width: b[1], Color: binary.LittleEndian.Uint32(b[2:6])}
}

func appendBorder(buf []byte, b Border) []byte {
	buf = append(buf, b.Type, b.Width)
	return binary.LittleEndian.AppendUint32(buf, b.Color)
}

// Encode serializes the BORDER_FILL payload.
func (bf *BorderFill) Encode() []byte {
	buf := binary.LittleEndian.AppendUint16(nil, bf.Attr)
	for _, b := range bf.Borders {
		buf = appendBorder(buf, b)
	}
	buf = appendBorder(buf, bf.Diagonal)
	fill := bf.Fill
	if len(fill) == 0 {
		// 채우기 없음
		fill = []byte{0, 0, 0, 0}
	}
	return append(buf, fill...)
}

func parseCharShape(data []byte) (*CharShape, error) {
	if len(data) < 68 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedRecord, len(data))
	}

	le := binary.LittleEndian
	cs := &CharShape{}

	// 언어별 글꼴 ID (7 * 2 = 14 bytes)
	for i := range LangCount {
		cs.FaceID[i] = le.Uint16(data[i*2:])
	}
	copy(cs.Ratios[:], data[14:21])
	for i := range LangCount {
		cs.Spacings[i] = int8(data[21+i])
	}
	copy(cs.RelSizes[:], data[28:35])
	for i := range LangCount {
		cs.Offsets[i] = int8(data[35+i])
	}

	cs.Height = int32(le.Uint32(data[42:46]))
	cs.Attributes = le.Uint32(data[46:50])
	cs.ShadowGap1 = int8(data[50])
	cs.ShadowGap2 = int8(data[51])
	cs.TextColor = le.Uint32(data[52:56])
	cs.UnderColor = le.Uint32(data[56:60])
	cs.ShadeColor = le.Uint32(data[60:64])
	cs.ShadowColor = le.Uint32(data[64:68])

	// 5.0.2.1 이상
	if len(data) >= 70 {
		cs.BorderFillID = le.Uint16(data[68:70])
	}
	// 5.0.3.0 이상
	if len(data) >= 74 {
		cs.StrikeColor = le.Uint32(data[70:74])
		cs.Tail = clone(data[74:])
	}

	return cs, nil
}

// Encode serializes the CHAR_SHAPE payload in its 5.0.3.0 form.
func (cs *CharShape) Encode() []byte {
	le := binary.LittleEndian
	buf := make([]byte, 0, 74+len(cs.Tail))
	for _, id := range cs.FaceID {
		buf = le.AppendUint16(buf, id)
	}
	buf = append(buf, cs.Ratios[:]...)
	for _, v := range cs.Spacings {
		buf = append(buf, byte(v))
	}
	buf = append(buf, cs.RelSizes[:]...)
	for _, v := range cs.Offsets {
		buf = append(buf, byte(v))
	}
	buf = le.AppendUint32(buf, uint32(cs.Height))
	buf = le.AppendUint32(buf, cs.Attributes)
	buf = append(buf, byte(cs.ShadowGap1), byte(cs.ShadowGap2))
	buf = le.AppendUint32(buf, cs.TextColor)
	buf = le.AppendUint32(buf, cs.UnderColor)
	buf = le.AppendUint32(buf, cs.ShadeColor)
	buf = le.AppendUint32(buf, cs.ShadowColor)
	buf = le.AppendUint16(buf, cs.BorderFillID)
	buf = le.AppendUint32(buf, cs.StrikeColor)
	return append(buf, cs.Tail...)
}

func parseParaShape(data []byte) (*ParaShape, error) {
	if len(data) < 42 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedRecord, len(data))
	}
	le := binary.LittleEndian
	ps := &ParaShape{
		Attributes1:     le.Uint32(data[0:4]),
		LeftMargin:      int32(le.Uint32(data[4:8])),
		RightMargin:     int32(le.Uint32(data[8:12])),
		Indent:          int32(le.Uint32(data[12:16])),
		ParaSpaceBefore: int32(le.Uint32(data[16:20])),
		ParaSpaceAfter:  int32(le.Uint32(data[20:24])),
		LineSpacing:     int32(le.Uint32(data[24:28])),
		TabDefID:        le.Uint16(data[28:30]),
		NumberingID:     le.Uint16(data[30:32]),
		BorderFillID:    le.Uint16(data[32:34]),
	}
	for i := range 4 {
		ps.BorderOffsets[i] = int16(le.Uint16(data[34+i*2:]))
	}
	if len(data) >= 46 {
		ps.Attributes2 = le.Uint32(data[42:46])
	}
	if len(data) >= 50 {
		ps.Attributes3 = le.Uint32(data[46:50])
	}
	if len(data) >= 54 {
		ps.LineSpacing2 = le.Uint32(data[50:54])
		ps.Tail = clone(data[54:])
	}
	return ps, nil
}

// Encode serializes the PARA_SHAPE payload in its 5.0.2.5 form.
func (ps *ParaShape) Encode() []byte {
	le := binary.LittleEndian
	buf := make([]byte, 0, 54+len(ps.Tail))
	buf = le.AppendUint32(buf, ps.Attributes1)
	for _, v := range []int32{ps.LeftMargin, ps.RightMargin, ps.Indent, ps.ParaSpaceBefore,
		ps.ParaSpaceAfter, ps.LineSpacing} {
		buf = le.AppendUint32(buf, uint32(v))
	}
	buf = le.AppendUint16(buf, ps.TabDefID)
	buf = le.AppendUint16(buf, ps.NumberingID)
	buf = le.AppendUint16(buf, ps.BorderFillID)
	for _, v := range ps.BorderOffsets {
		buf = le.AppendUint16(buf, uint16(v))
	}
	buf = le.AppendUint32(buf, ps.Attributes2)
	buf = le.AppendUint32(buf, ps.Attributes3)
	buf = le.AppendUint32(buf, ps.LineSpacing2)
	return append(buf, ps.Tail...)
}

// Alignment returns the horizontal alignment (AlignJustify..AlignDivide).
func (ps *ParaShape) Alignment() int {
	return int(ps.Attributes1>>2) & 0x07
}

// LineSpacingType returns the spacing kind. Attributes3 carries it from 5.0.2.5.
func (ps *ParaShape) LineSpacingType() int {
	if ps.LineSpacing2 != 0 {
		return int(ps.Attributes3 & 0x1F)
	}
	return int(ps.Attributes1 & 0x03)
}

// LineSpacingValue returns percent for LineSpacingPercent, HWPUNIT otherwise.
func (ps *ParaShape) LineSpacingValue() int32 {
	if ps.LineSpacing2 != 0 {
		return int32(ps.LineSpacing2)
	}
	return ps.LineSpacing
}

func parseStyle(data []byte) (*Style, error) {
	s := &Style{}
	var ok bool
	off := 0
	if s.Name, off, ok = readString(data, off); !ok {
		return nil, fmt.Errorf("%w: truncated style name", ErrMalformedRecord)
	}
	if s.EngName, off, ok = readString(data, off); !ok {
		return nil, fmt.Errorf("%w: truncated style name", ErrMalformedRecord)
	}
	if off+8 > len(data) {
		return nil, fmt.Errorf("%w: truncated style", ErrMalformedRecord)
	}
	s.Type = data[off]
	s.NextStyleID = data[off+1]
	s.LangID = int16(binary.LittleEndian.Uint16(data[off+2:]))
	s.ParaShapeID = binary.LittleEndian.Uint16(data[off+4:])
	s.CharShapeID = binary.LittleEndian.Uint16(data[off+6:])
	s.Tail = clone(data[off+8:])
	return s, nil
}

// Encode serializes the STYLE payload.
func (s *Style) Encode() []byte {
	buf := appendString(nil, s.Name)
	buf = appendString(buf, s.EngName)
	buf = append(buf, s.Type, s.NextStyleID)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(s.LangID))
	buf = binary.LittleEndian.AppendUint16(buf, s.ParaShapeID)
	buf = binary.LittleEndian.AppendUint16(buf, s.CharShapeID)
	return append(buf, s.Tail...)
}

// IsBold returns true if the character shape is bold.
func (cs *CharShape) IsBold() bool {
	return cs.Attributes&0x02 != 0
}

// IsItalic returns true if the character shape is italic.
func (cs *CharShape) IsItalic() bool {
	return cs.Attributes&0x01 != 0
}

// IsUnderline returns true if the character shape has underline.
func (cs *CharShape) IsUnderline() bool {
	return (cs.Attributes>>2)&0x03 != 0 // bits 2-3
}

// IsStrikeout returns true if the character shape has strikeout.
func (cs *CharShape) IsStrikeout() bool {
	return (cs.Attributes>>18)&0x07 != 0 // bits 18-20
}

// IsSuperscript reports bit 15 (위 첨자).
func (cs *CharShape) IsSuperscript() bool {
	return cs.Attributes&(1<<15) != 0
}

// IsSubscript reports bit 16 (아래 첨자).
func (cs *CharShape) IsSubscript() bool {
	return cs.Attributes&(1<<16) != 0
}

// FontSizePt returns the font size in points.
func (cs *CharShape) FontSizePt() float64 {
	return float64(cs.Height) / 100.0
}

// clone copies b; empty input yields nil so decoded models compare equal.
func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
