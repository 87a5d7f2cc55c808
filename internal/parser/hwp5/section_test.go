package hwp5

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionParser_PlainParagraphs(t *testing.T) {
	data := sectionBytes(plainPara(0, "첫 문단", 0), plainPara(0, "A\tB\nC", 1))

	sec, err := NewSectionParser(nil).Parse(data)
	require.NoError(t, err)
	require.Len(t, sec.Paragraphs, 2)

	assert.Equal(t, "첫 문단", sec.Paragraphs[0].Text())
	assert.Equal(t, "A\tB\nC", sec.Paragraphs[1].Text())
	assert.Equal(t, []CharRun{{Pos: 0, ShapeID: 1}}, sec.Paragraphs[1].CharRuns)
	// A + 탭(8) + B + 줄바꿈 + C + 문단 끝
	assert.Equal(t, 13, sec.Paragraphs[1].Len())
}

func TestSectionParser_Defaults(t *testing.T) {
	data := sectionBytes([]*Record{paraHeaderRec(0, 1, 0, 0)})

	sec, err := NewSectionParser(nil).Parse(data)
	require.NoError(t, err)
	require.Len(t, sec.Paragraphs, 1)

	p := sec.Paragraphs[0]
	assert.Equal(t, []uint16{CharParaBreak}, p.Chars)
	assert.Equal(t, []CharRun{{Pos: 0, ShapeID: 0}}, p.CharRuns)
	assert.Empty(t, p.Text())
}

func TestSectionParser_RunPartition(t *testing.T) {
	tests := []struct {
		name string
		runs []uint32
	}{
		{"first run not at zero", []uint32{1, 0}},
		{"not increasing", []uint32{0, 0, 2, 0, 2, 1}},
		{"past text end", []uint32{0, 0, 40, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := textUnits("abcd")
			data := sectionBytes([]*Record{
				paraHeaderRec(0, uint32(len(units)), 0, 0),
				textUnitsRec(1, units),
				charShapeRec(1, tt.runs...),
			})
			_, err := NewSectionParser(nil).Parse(data)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestSectionParser_Table(t *testing.T) {
	chars := tableChars()
	var recs []*Record
	recs = append(recs,
		paraHeaderRec(0, uint32(len(chars)), 0, 0),
		textUnitsRec(1, chars),
		ctrlHeaderRec(1, CtrlTable, objectBody()),
		tableRec(2, 1, 2, 1),
		cellRec(2, 1, 0, 0, 1),
	)
	recs = append(recs, plainPara(2, "왼쪽", 0)...)
	recs = append(recs, cellRec(2, 2, 0, 1, 0))
	recs = append(recs, plainPara(2, "오른쪽", 0)...)
	recs = append(recs, plainPara(2, "둘째 줄", 0)...)
	recs = append(recs, plainPara(0, "표 뒤", 0)...)

	sec, err := NewSectionParser(nil).Parse(EncodeRecords(recs))
	require.NoError(t, err)
	require.Len(t, sec.Paragraphs, 2)

	ctrls := sec.Paragraphs[0].Controls
	require.Len(t, ctrls, 1)
	tbl, ok := ctrls[0].(*TableControl)
	require.True(t, ok)
	assert.Equal(t, 0, tbl.Anchor())
	assert.Equal(t, uint16(1), tbl.Rows)
	assert.Equal(t, uint16(2), tbl.Cols)
	assert.Equal(t, uint16(1), tbl.BorderFillID)
	assert.Nil(t, tbl.Caption)
	require.Len(t, tbl.Cells, 2)

	assert.Equal(t, "왼쪽", tbl.Cells[0].Paragraphs[0].Text())
	require.Len(t, tbl.Cells[1].Paragraphs, 2)
	assert.Equal(t, "둘째 줄", tbl.Cells[1].Paragraphs[1].Text())
	assert.Equal(t, uint32(1000), tbl.Cells[1].Width)
	assert.Same(t, tbl.Cells[1], tbl.CellAt(0, 1))
	assert.Equal(t, "표 뒤", sec.Paragraphs[1].Text())
}

func TestSectionParser_TableCaption(t *testing.T) {
	chars := tableChars()
	var recs []*Record
	recs = append(recs,
		paraHeaderRec(0, uint32(len(chars)), 0, 0),
		textUnitsRec(1, chars),
		ctrlHeaderRec(1, CtrlTable, objectBody()),
		NewRecord(TagListHeader, 2, make([]byte, 8+14)),
	)
	recs = append(recs, plainPara(2, "표 1", 0)...)
	recs = append(recs, tableRec(2, 1, 1, 0), cellRec(2, 1, 0, 0, 0))
	recs = append(recs, plainPara(2, "셀", 0)...)

	sec, err := NewSectionParser(nil).Parse(EncodeRecords(recs))
	require.NoError(t, err)

	tbl := sec.Paragraphs[0].Controls[0].(*TableControl)
	require.NotNil(t, tbl.Caption)
	assert.Equal(t, "표 1", tbl.Caption.Paragraphs[0].Text())
	assert.Len(t, tbl.Caption.Rest, 14)
	require.Len(t, tbl.Cells, 1)
	assert.Equal(t, "셀", tbl.Cells[0].Paragraphs[0].Text())
}

func TestSectionParser_ParagraphBeforeListHeader(t *testing.T) {
	chars := tableChars()
	var recs []*Record
	recs = append(recs,
		paraHeaderRec(0, uint32(len(chars)), 0, 0),
		textUnitsRec(1, chars),
		ctrlHeaderRec(1, CtrlTable, objectBody()),
		tableRec(2, 1, 1, 0),
	)
	recs = append(recs, plainPara(2, "셀 밖", 0)...)

	_, err := NewSectionParser(nil).Parse(EncodeRecords(recs))
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestSectionParser_MoreControlsThanAnchors(t *testing.T) {
	units := textUnits("no anchors")
	recs := []*Record{
		paraHeaderRec(0, uint32(len(units)), 0, 0),
		textUnitsRec(1, units),
		ctrlHeaderRec(1, CtrlBookmark, nil),
	}

	_, err := NewSectionParser(nil).Parse(EncodeRecords(recs))
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestSectionParser_Anchors(t *testing.T) {
	// 문자 2개, 책갈피, 탭, 표
	units := []uint16{'a', 'b'}
	units = append(units, ctrlChar(CharBookmark, CtrlBookmark)...)
	units = append(units, CharTab, 0, 0, 0, 0, 0, 0, CharTab)
	units = append(units, ctrlChar(CharDrawingObj, CtrlTable)...)
	units = append(units, CharParaBreak)

	recs := []*Record{
		paraHeaderRec(0, uint32(len(units)), 0, 0),
		textUnitsRec(1, units),
		ctrlHeaderRec(1, CtrlBookmark, []byte{1, 2, 3}),
		NewRecord(TagCtrlData, 2, []byte{9, 9}),
		ctrlHeaderRec(1, CtrlTable, objectBody()),
		tableRec(2, 0, 0, 0),
	}

	sec, err := NewSectionParser(nil).Parse(EncodeRecords(recs))
	require.NoError(t, err)

	ctrls := sec.Paragraphs[0].Controls
	require.Len(t, ctrls, 2)
	assert.Equal(t, 2, ctrls[0].Anchor())
	assert.Equal(t, 18, ctrls[1].Anchor())

	g, ok := ctrls[0].(*GenericControl)
	require.True(t, ok)
	assert.Equal(t, "bokm", CtrlIDString(g.CtrlID()))
	require.Len(t, g.Children, 1)
	assert.Equal(t, uint16(1), g.Children[0].Level)
	assert.Equal(t, "ab\t", sec.Paragraphs[0].Text())
}

func TestSectionParser_SkipsUnknownSubtree(t *testing.T) {
	var recs []*Record
	recs = append(recs, plainPara(0, "앞", 0)...)
	recs = append(recs,
		NewRecord(0x3F0, 0, []byte{1}),
		paraHeaderRec(1, 1, 0, 0),
		NewRecord(0x3F1, 2, nil),
	)
	recs = append(recs, plainPara(0, "뒤", 0)...)

	sec, err := NewSectionParser(nil).Parse(EncodeRecords(recs))
	require.NoError(t, err)
	require.Len(t, sec.Paragraphs, 2)
	assert.Equal(t, "뒤", sec.Paragraphs[1].Text())
}

func TestSectionParser_SectionDefAndHeader(t *testing.T) {
	doc := NewDocument()
	p := doc.Sections[0].Paragraphs[0]

	pd, ok := p.Controls[0].(*SectionDefControl)
	require.True(t, ok)

	data := EncodeSection(doc.Sections[0])
	sec, err := NewSectionParser(nil).Parse(data)
	require.NoError(t, err)

	got := sec.PageDef()
	require.NotNil(t, got)
	assert.Equal(t, *pd.PageDef, *got)
	assert.Equal(t, int32(59528-2*8504), got.ContentWidth())
}
