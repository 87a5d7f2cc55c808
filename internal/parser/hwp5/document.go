package hwp5

import "encoding/binary"

// 새 문서의 기본 글꼴
const defaultFace = "함초롬바탕"

// NewDocument returns a minimal valid document: one face name per language group,
// one char shape, para shape, style and border fill, and a single section whose
// first paragraph holds the section definition with an A4 page.
func NewDocument() *Document {
	info := &DocInfo{
		Properties: &DocumentProperties{SectionCount: 1, PageStartNum: 1, FootnoteStart: 1,
			EndnoteStart: 1, PictureStart: 1, TableStart: 1, EquationStart: 1},
		IDMappings: &IDMappings{},
	}
	for lang := range LangCount {
		info.FaceNames = append(info.FaceNames, &FaceName{Name: defaultFace})
		info.IDMappings.FaceNames[lang] = 1
	}
	info.BorderFills = []*BorderFill{{Fill: []byte{0, 0, 0, 0}}}

	cs := &CharShape{Height: 1000, ShadeColor: 0xFFFFFFFF, ShadowGap1: 10, ShadowGap2: 10}
	for lang := range LangCount {
		cs.Ratios[lang] = 100
		cs.RelSizes[lang] = 100
	}
	info.CharShapes = []*CharShape{cs}
	info.ParaShapes = []*ParaShape{{LineSpacing: 160, LineSpacing2: 160}}
	info.Styles = []*Style{{Name: "바탕글", EngName: "Normal", LangID: 1042}}
	info.IDMappings = info.mappings()
	info.IDMappings.SetFields(18)

	doc := &Document{Header: NewFileHeader(FlagCompressed), DocInfo: info}
	sec := &Section{}
	doc.Sections = []*Section{sec}

	p := sec.AddParagraph("", 0, 0)
	p.Chars = append(ctrlChar(CharSectionDef, CtrlSection), p.Chars...)
	p.Header.NChars = uint32(len(p.Chars))
	p.Header.ControlMask = controlMask(p.Chars)
	pd := DefaultPageDef
	p.Controls = []Control{&SectionDefControl{
		ControlBase: ControlBase{ID: CtrlSection, Pos: 0},
		Data:        defaultSectionDefData(),
		PageDef:     &pd,
	}}
	return doc
}

// ctrlChar encodes an extended control character carrying ctrl id.
func ctrlChar(code uint16, id uint32) []uint16 {
	return []uint16{code, uint16(id), uint16(id >> 16), 0, 0, 0, 0, code}
}

// 구역 정의 기본값: 단 간격 1134, 기본 탭 간격 8000, 시작 번호 모두 0
func defaultSectionDefData() []byte {
	le := binary.LittleEndian
	buf := le.AppendUint32(nil, 0)
	buf = le.AppendUint16(buf, 1134)
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint16(buf, 0)
	buf = le.AppendUint32(buf, 8000)
	buf = le.AppendUint16(buf, 1)
	for range 4 {
		buf = le.AppendUint16(buf, 0)
	}
	return append(buf, make([]byte, 4)...)
}
