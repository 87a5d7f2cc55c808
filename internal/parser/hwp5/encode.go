package hwp5

import (
	"bytes"
	"encoding/binary"
	"slices"
)

// EncodeDocInfo serializes the formatting tables in index order. ID_MAPPINGS is
// recomputed from the table lengths; Extra records follow verbatim.
func EncodeDocInfo(info *DocInfo, sectionCount int) []byte {
	var buf bytes.Buffer

	props := DocumentProperties{PageStartNum: 1, FootnoteStart: 1, EndnoteStart: 1,
		PictureStart: 1, TableStart: 1, EquationStart: 1}
	if info.Properties != nil {
		props = *info.Properties
	}
	props.SectionCount = uint16(sectionCount)
	writeRecord(&buf, TagDocumentProperties, 0, props.Encode())
	writeRecord(&buf, TagIDMappings, 0, info.mappings().Encode())

	for _, b := range info.BinData {
		writeRecord(&buf, TagBinData, 1, b.Encode())
	}
	for _, f := range info.FaceNames {
		writeRecord(&buf, TagFaceName, 1, f.Encode())
	}
	for _, bf := range info.BorderFills {
		writeRecord(&buf, TagBorderFill, 1, bf.Encode())
	}
	for _, cs := range info.CharShapes {
		writeRecord(&buf, TagCharShape, 1, cs.Encode())
	}
	for _, t := range info.TabDefs {
		writeRecord(&buf, TagTabDef, 1, t)
	}
	for _, n := range info.Numberings {
		writeRecord(&buf, TagNumbering, 1, n)
	}
	for _, b := range info.Bullets {
		writeRecord(&buf, TagBullet, 1, b)
	}
	for _, ps := range info.ParaShapes {
		writeRecord(&buf, TagParaShape, 1, ps.Encode())
	}
	for _, s := range info.Styles {
		writeRecord(&buf, TagStyle, 1, s.Encode())
	}
	for _, rec := range info.Extra {
		writeRecord(&buf, rec.TagID, rec.Level, rec.Data)
	}
	return buf.Bytes()
}

// mappings returns ID_MAPPINGS matching the current tables. Language group sizes
// are kept when they still add up to the face name count; otherwise every face
// belongs to the first group.
func (info *DocInfo) mappings() *IDMappings {
	m := &IDMappings{}
	if info.IDMappings != nil {
		*m = *info.IDMappings
	}
	var sum int32
	for _, n := range m.FaceNames {
		sum += n
	}
	if int(sum) != len(info.FaceNames) {
		m.FaceNames = [LangCount]int32{int32(len(info.FaceNames))}
	}
	m.BinData = int32(len(info.BinData))
	m.BorderFill = int32(len(info.BorderFills))
	m.CharShape = int32(len(info.CharShapes))
	m.TabDef = int32(len(info.TabDefs))
	m.Numbering = int32(len(info.Numberings))
	m.Bullet = int32(len(info.Bullets))
	m.ParaShape = int32(len(info.ParaShapes))
	m.Style = int32(len(info.Styles))
	return m
}

// EncodeSection serializes a section back into its flat record stream.
func EncodeSection(sec *Section) []byte {
	e := &sectionEncoder{}
	for _, p := range sec.Paragraphs {
		e.paragraph(p, 0)
	}
	return e.buf.Bytes()
}

type sectionEncoder struct {
	buf bytes.Buffer
}

func (e *sectionEncoder) rec(tag uint16, level int, data []byte) {
	writeRecord(&e.buf, tag, uint16(level), data)
}

// raw re-emits records stored with levels relative to base.
func (e *sectionEncoder) raw(records []*Record, base int) {
	for _, r := range records {
		e.rec(r.TagID, base+int(r.Level), r.Data)
	}
}

func (e *sectionEncoder) paragraph(p *Paragraph, level int) {
	e.rec(TagParaHeader, level, p.encodeHeader())
	if !slices.Equal(p.Chars, []uint16{CharParaBreak}) && len(p.Chars) > 0 {
		e.rec(TagParaText, level+1, UnitsToBytes(p.Chars))
	}
	if len(p.CharRuns) > 0 {
		e.rec(TagParaCharShape, level+1, encodeCharRuns(p.CharRuns))
	}
	if len(p.LineSegs) > 0 {
		e.rec(TagParaLineSeg, level+1, encodeLineSegs(p.LineSegs))
	}
	if len(p.RangeTags) > 0 {
		e.rec(TagParaRangeTag, level+1, encodeRangeTags(p.RangeTags))
	}
	for _, c := range p.Controls {
		e.control(c, level+1)
	}
}

// list writes LIST_HEADER and its paragraphs as siblings at level.
func (e *sectionEncoder) list(l *List, level int) {
	e.rec(TagListHeader, level, l.encodeHeader())
	for _, p := range l.Paragraphs {
		e.paragraph(p, level)
	}
}

func ctrlHeader(id uint32, body []byte) []byte {
	return append(binary.LittleEndian.AppendUint32(nil, id), body...)
}

func (e *sectionEncoder) control(c Control, level int) {
	switch c := c.(type) {
	case *TableControl:
		e.rec(TagCtrlHeader, level, ctrlHeader(c.ID, c.Common.encode()))
		if c.Caption != nil {
			e.list(c.Caption, level+1)
		}
		e.rec(TagTable, level+1, c.encodeTable())
		for _, cell := range c.Cells {
			e.rec(TagListHeader, level+1, cell.encode())
			for _, p := range cell.Paragraphs {
				e.paragraph(p, level+1)
			}
		}
		e.raw(c.Extra, level)
	case *ShapeControl:
		e.rec(TagCtrlHeader, level, ctrlHeader(c.ID, c.Common.encode()))
		if c.Caption != nil {
			e.list(c.Caption, level+1)
		}
		if c.Component != nil {
			e.component(c.Component, level+1)
		}
		e.raw(c.Extra, level)
	case *EquationControl:
		e.rec(TagCtrlHeader, level, ctrlHeader(c.ID, c.Common.encode()))
		if c.Caption != nil {
			e.list(c.Caption, level+1)
		}
		e.rec(TagEqEdit, level+1, c.encodeEqEdit())
		e.raw(c.Extra, level)
	case *SectionDefControl:
		e.rec(TagCtrlHeader, level, ctrlHeader(c.ID, c.Data))
		if c.PageDef != nil {
			e.rec(TagPageDef, level+1, c.PageDef.encode())
		}
		e.raw(c.Extra, level)
	case *SubListControl:
		e.rec(TagCtrlHeader, level, ctrlHeader(c.ID, c.Data))
		if c.List != nil {
			e.list(c.List, level+1)
		}
		e.raw(c.Extra, level)
	case *GenericControl:
		e.rec(TagCtrlHeader, level, ctrlHeader(c.ID, c.Data))
		e.raw(c.Children, level)
	}
}

func (e *sectionEncoder) component(sc *ShapeComponent, level int) {
	e.rec(TagShapeComponent, level, sc.Raw)
	if sc.Tag != 0 {
		e.rec(sc.Tag, level+1, sc.Data)
	}
	if sc.TextBox != nil {
		e.list(sc.TextBox, level+1)
	}
	for _, ch := range sc.Children {
		e.component(ch, level+1)
	}
	e.raw(sc.Extra, level)
}
