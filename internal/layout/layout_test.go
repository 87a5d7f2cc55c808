package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// testDoc returns a document with a 600 wide, unpaginated-looking body starting at Y 0
// and 100 high characters (one cell = 50).
func testDoc() *hwp5.Document {
	doc := hwp5.NewDocument()
	doc.DocInfo.CharShapes[0].Height = 100
	second := *doc.DocInfo.CharShapes[0]
	doc.DocInfo.CharShapes = append(doc.DocInfo.CharShapes, &second)
	doc.Sections[0].SectionDef().PageDef = &hwp5.PageDef{
		PaperWidth: 800, PaperHeight: 2000, LeftMargin: 100, RightMargin: 100,
	}
	return doc
}

func lines(t *testing.T, res *Result, id ParagraphID) []LineBox {
	t.Helper()
	b, ok := res.Lookup(id)
	require.True(t, ok, id)
	return b.Lines
}

func TestLayout_NilDocument(t *testing.T) {
	_, err := Layout(nil)
	assert.ErrorIs(t, err, ErrNilDocument)
}

func TestLayout_WrapByRun(t *testing.T) {
	doc := testDoc()
	p := doc.Sections[0].AddParagraph("aaaaaaaabbbbbb", 0, 0)
	p.CharRuns = []hwp5.CharRun{{Pos: 0, ShapeID: 0}, {Pos: 8, ShapeID: 1}}

	res, err := Layout(doc)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	got := lines(t, res, "s0/p1")
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 8, got[0].End)
	assert.Equal(t, int32(400), got[0].Width)
	assert.Equal(t, int32(100), got[0].X)
	assert.Equal(t, 8, got[1].Start)
	assert.Equal(t, 15, got[1].End)
	assert.Equal(t, int32(300), got[1].Width)
	// 글자 높이 100, 줄 간격 160%
	assert.Equal(t, int32(160), got[1].Y-got[0].Y)
	assert.Equal(t, SourceEstimated, got[0].Source)
	require.Len(t, got[1].Runs, 1)
	assert.Equal(t, uint32(1), got[1].Runs[0].CharShapeID)
}

func TestLayout_WideRunPlacedAlone(t *testing.T) {
	doc := testDoc()
	p := doc.Sections[0].AddParagraph("aa"+strings.Repeat("b", 20)+"cc", 0, 0)
	p.CharRuns = []hwp5.CharRun{{Pos: 0}, {Pos: 2, ShapeID: 1}, {Pos: 22}}

	res, err := Layout(doc)
	require.NoError(t, err)

	got := lines(t, res, "s0/p1")
	require.Len(t, got, 3)
	assert.Equal(t, int32(100), got[0].Width)
	assert.Equal(t, int32(1000), got[1].Width)
	assert.Equal(t, int32(100), got[2].Width)
}

func TestLayout_ForcedLineBreak(t *testing.T) {
	doc := testDoc()
	doc.Sections[0].AddParagraph("ab\ncd", 0, 0)

	res, err := Layout(doc)
	require.NoError(t, err)

	got := lines(t, res, "s0/p1")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].End)
	assert.Equal(t, 3, got[1].Start)
	assert.Equal(t, int32(100), got[1].Width)
}

func TestLayout_Alignment(t *testing.T) {
	doc := testDoc()
	right := *doc.DocInfo.ParaShapes[0]
	right.Attributes1 = hwp5.AlignRight << 2
	center := right
	center.Attributes1 = hwp5.AlignCenter << 2
	doc.DocInfo.ParaShapes = append(doc.DocInfo.ParaShapes, &right, &center)

	doc.Sections[0].AddParagraph("aaaa", 0, 1)
	doc.Sections[0].AddParagraph("aaaa", 0, 2)

	res, err := Layout(doc)
	require.NoError(t, err)
	assert.Equal(t, int32(100+600-200), lines(t, res, "s0/p1")[0].X)
	assert.Equal(t, int32(100+200), lines(t, res, "s0/p2")[0].X)
}

func storedPara(sec *hwp5.Section, text string, declared int, segs ...hwp5.LineSeg) *hwp5.Paragraph {
	p := sec.AddParagraph(text, 0, 0)
	p.LineSegs = segs
	p.Header.LineSegCount = uint16(declared)
	return p
}

func seg(start uint32, vert int32) hwp5.LineSeg {
	return hwp5.LineSeg{TextStart: start, VertPos: vert, LineHeight: 100, TextHeight: 100,
		Baseline: 85, Spacing: 60, SegWidth: 600}
}

func TestLayout_StoredSegments(t *testing.T) {
	doc := testDoc()
	storedPara(doc.Sections[0], "hello world", 2, seg(0, 200), seg(6, 360))

	res, err := Layout(doc)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	got := lines(t, res, "s0/p1")
	require.Len(t, got, 2)
	assert.Equal(t, LineBox{Start: 0, End: 6, X: 100, Y: 200, Width: 600, Height: 100, Baseline: 85,
		Source: SourceStored, Runs: got[0].Runs}, got[0])
	assert.Equal(t, 12, got[1].End)
	assert.Equal(t, int32(360), got[1].Y)
}

func TestLayout_StoredPageBreak(t *testing.T) {
	doc := testDoc()
	next := seg(6, 0)
	next.Flags = hwp5.LineSegFirstInPage
	storedPara(doc.Sections[0], "hello world", 2, seg(0, 1800), next)
	storedPara(doc.Sections[0], "again", 1, seg(0, 160))

	res, err := Layout(doc)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	got := lines(t, res, "s0/p1")
	assert.Equal(t, 0, got[0].Page)
	assert.Equal(t, 1, got[1].Page)
	assert.Equal(t, int32(2000), got[1].Y)

	after := lines(t, res, "s0/p2")
	assert.Equal(t, 1, after[0].Page)
	assert.Equal(t, int32(2160), after[0].Y)
}

func TestLayout_InvalidSegmentsEstimated(t *testing.T) {
	tests := []struct {
		name string
		segs []hwp5.LineSeg
	}{
		{"first start not zero", []hwp5.LineSeg{seg(3, 0)}},
		{"start past text", []hwp5.LineSeg{seg(0, 0), seg(40, 100)}},
		{"moves up without page break", []hwp5.LineSeg{seg(0, 500), seg(6, 100)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDoc()
			storedPara(doc.Sections[0], "hello world", len(tt.segs), tt.segs...)

			res, err := Layout(doc, WithPartialPolicy(PartialEstimateParagraph))
			require.NoError(t, err)
			require.Len(t, res.Warnings, 1)
			assert.Equal(t, ParagraphID("s0/p1"), res.Warnings[0].Paragraph)

			for _, l := range lines(t, res, "s0/p1") {
				assert.Equal(t, SourceEstimated, l.Source)
			}
		})
	}
}

func TestLayout_PartialPolicy(t *testing.T) {
	build := func() *hwp5.Document {
		doc := testDoc()
		storedPara(doc.Sections[0], "aaaa bbbb cccc", 3, seg(0, 200), seg(5, 360))
		return doc
	}

	t.Run("remainder", func(t *testing.T) {
		res, err := Layout(build())
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)

		got := lines(t, res, "s0/p1")
		require.Len(t, got, 2)
		assert.Equal(t, SourceStored, got[0].Source)
		assert.Equal(t, 5, got[0].End)
		assert.Equal(t, SourceEstimated, got[1].Source)
		assert.Equal(t, 5, got[1].Start)
		assert.Equal(t, 15, got[1].End)
		assert.Equal(t, int32(360), got[1].Y)
		assert.Equal(t, int32(450), got[1].Width)
	})

	t.Run("paragraph", func(t *testing.T) {
		res, err := Layout(build(), WithPartialPolicy(PartialEstimateParagraph))
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)

		got := lines(t, res, "s0/p1")
		require.Len(t, got, 1)
		assert.Equal(t, SourceEstimated, got[0].Source)
		assert.Equal(t, 0, got[0].Start)
		assert.Equal(t, int32(700), got[0].Width)
	})
}

func TestLayout_TreatAsCharTable(t *testing.T) {
	doc := testDoc()
	var scratch hwp5.Section
	left := scratch.AddParagraph("x", 0, 0)
	right := scratch.AddParagraph("y", 0, 0)

	p := doc.Sections[0].AddParagraph("", 0, 0)
	id := hwp5.CtrlTable
	p.Chars = []uint16{hwp5.CharDrawingObj, uint16(id), uint16(id >> 16), 0, 0, 0, 0, hwp5.CharDrawingObj, hwp5.CharParaBreak}
	p.Controls = []hwp5.Control{&hwp5.TableControl{
		ControlBase: hwp5.ControlBase{ID: hwp5.CtrlTable},
		Common:      hwp5.ObjectCommon{Attr: 1, Width: 400, Height: 300},
		Rows:        1,
		Cols:        2,
		Padding:     [4]uint16{10, 10, 10, 10},
		Cells: []*hwp5.Cell{
			{List: hwp5.List{Paragraphs: []*hwp5.Paragraph{left}}, Col: 0, ColSpan: 1, RowSpan: 1, Width: 200, Height: 300},
			{List: hwp5.List{Paragraphs: []*hwp5.Paragraph{right}}, Col: 1, ColSpan: 1, RowSpan: 1, Width: 200, Height: 300},
		},
	}}

	res, err := Layout(doc)
	require.NoError(t, err)

	var ids []ParagraphID
	for _, b := range res.Paragraphs {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []ParagraphID{"s0/p0", "s0/p1", "s0/p1/c0/cell0/p0", "s0/p1/c0/cell1/p0"}, ids)

	anchor := lines(t, res, "s0/p1")
	require.Len(t, anchor, 1)
	assert.Equal(t, int32(300), anchor[0].Height)

	box, _ := res.Lookup("s0/p1")
	require.Len(t, box.Controls, 1)
	cb := box.Controls[0]
	assert.True(t, cb.InLine)
	assert.Equal(t, "tbl ", cb.CtrlID)
	assert.Equal(t, anchor[0].X, cb.X)
	assert.Equal(t, anchor[0].Y, cb.Y)

	cell, ok := res.Lookup("s0/p1/c0/cell1/p0")
	require.True(t, ok)
	assert.Equal(t, KindCell, cell.Kind)
	assert.Equal(t, cb.X+200+10, cell.Lines[0].X)
	assert.Equal(t, cb.Y+10, cell.Lines[0].Y)
}

func TestLayout_BodyYNonDecreasing(t *testing.T) {
	doc := testDoc()
	sec := doc.Sections[0]
	sec.AddParagraph(strings.Repeat("가나다라 ", 30), 0, 0)
	storedPara(sec, "stored", 1, seg(0, 100))
	storedPara(sec, "broken", 2, seg(0, 50), seg(2, 10))
	sec.AddParagraph("끝", 1, 0)

	res, err := Layout(doc)
	require.NoError(t, err)

	var prev int32 = -1
	for _, b := range res.Paragraphs {
		if b.Kind != KindBody {
			continue
		}
		for _, l := range b.Lines {
			assert.GreaterOrEqual(t, l.Y, prev, b.ID)
			prev = l.Y
		}
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name  string
		typ   uint32
		value uint32
		want  int32
	}{
		{"percent", hwp5.LineSpacingPercent, 160, 160},
		{"fixed", hwp5.LineSpacingFixed, 250, 250},
		{"between", hwp5.LineSpacingBetween, 30, 130},
		{"at least below", hwp5.LineSpacingAtLeast, 50, 100},
		{"at least above", hwp5.LineSpacingAtLeast, 180, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &hwp5.ParaShape{Attributes3: tt.typ, LineSpacing2: tt.value}
			assert.Equal(t, tt.want, advance(ps, 100))
		})
	}
}

func TestParsePartialPolicy(t *testing.T) {
	p, ok := ParsePartialPolicy("paragraph")
	assert.True(t, ok)
	assert.Equal(t, PartialEstimateParagraph, p)

	p, ok = ParsePartialPolicy("")
	assert.True(t, ok)
	assert.Equal(t, PartialEstimateRemainder, p)

	_, ok = ParsePartialPolicy("bogus")
	assert.False(t, ok)
}

func TestToPixels(t *testing.T) {
	assert.InDelta(t, 96.0, ToPixels(7200, 96), 1e-9)
	assert.InDelta(t, 0.0, ToPixels(0, 96), 1e-9)
}
