package layout

import (
	"fmt"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// flow is the vertical state of one paragraph list: the section body, a cell, a caption.
type flow struct {
	x, width int32
	top      int32 // origin of stored vertical positions
	pageH    int32 // 0이면 쪽 나눔 없음

	page   int
	lastV  int32
	hasV   bool
	lastY  int32 // Y of the last placed line
	cursor int32 // next free Y for estimated lines
}

func newFlow(x, y, width int32) *flow {
	if width < 1 {
		width = 1
	}
	return &flow{x: x, width: width, top: y, lastY: y, cursor: y}
}

// storedY maps a stored vertical position to an absolute Y. A position above the
// previous one starts a new page.
func (f *flow) storedY(v int32) int32 {
	if f.pageH > 0 && f.hasV && v < f.lastV {
		f.page++
	}
	f.lastV, f.hasV = v, true

	y := int32(f.page)*f.pageH + f.top + v
	for f.pageH > 0 && y < f.lastY {
		f.page++
		y += f.pageH
	}
	if y < f.lastY {
		y = f.lastY
	}
	return y
}

func (f *flow) placed(y, next int32) {
	f.lastY = y
	if next < y {
		next = y
	}
	f.cursor = next
}

// validSegs returns how many leading segments are consistent with the text and,
// when some are not, why.
func validSegs(p *hwp5.Paragraph) (int, string) {
	segs := p.LineSegs
	for i, s := range segs {
		switch {
		case i == 0 && s.TextStart != 0:
			return 0, fmt.Sprintf("first line segment starts at %d", s.TextStart)
		case i > 0 && s.TextStart <= segs[i-1].TextStart:
			return i, fmt.Sprintf("line segment %d does not advance (%d)", i, s.TextStart)
		case len(p.Chars) > 0 && int(s.TextStart) >= len(p.Chars):
			return i, fmt.Sprintf("line segment %d starts past the text (%d >= %d)", i, s.TextStart, len(p.Chars))
		case s.LineHeight < 0:
			return i, fmt.Sprintf("line segment %d has negative height", i)
		case i > 0 && s.VertPos < segs[i-1].VertPos &&
			s.Flags&(hwp5.LineSegFirstInPage|hwp5.LineSegFirstInColumn) == 0:
			return i, fmt.Sprintf("line segment %d moves up without a page break", i)
		}
	}
	return len(segs), ""
}

func (e *engine) paragraph(id ParagraphID, kind Kind, p *hwp5.Paragraph, f *flow) *ParagraphBox {
	box := &ParagraphBox{ID: id, Kind: kind, Section: e.secIndex}
	ps := e.paraShape(p.Header.ParaShapeID)
	segs := p.LineSegs
	n, reason := validSegs(p)
	declared := int(p.Header.LineSegCount)

	switch {
	case len(segs) == 0:
		e.estimate(box, p, ps, f, 0)
	case n == len(segs) && n >= declared:
		e.storedLines(box, p, segs, n, f)
	default:
		if reason == "" {
			reason = fmt.Sprintf("%d of %d line segments stored", len(segs), declared)
		}
		if n == 0 || e.opts.partial == PartialEstimateParagraph {
			e.warn(id, "%s; estimating paragraph", reason)
			e.estimate(box, p, ps, f, 0)
			break
		}
		// 마지막 유효 줄은 끝 위치를 모르므로 그 줄부터 추정한다.
		open := segs[n-1]
		e.warn(id, "%s; estimating from offset %d", reason, open.TextStart)
		e.storedLines(box, p, segs, n-1, f)
		y := f.storedY(open.VertPos)
		f.placed(y, y)
		e.estimate(box, p, ps, f, int(open.TextStart))
	}

	e.add(box)
	e.controls(box, p, f)
	return box
}

// storedLines converts the first closed segments into lines. Segment i ends where
// segment i+1 starts, the last one at the paragraph end.
func (e *engine) storedLines(box *ParagraphBox, p *hwp5.Paragraph, segs []hwp5.LineSeg, closed int, f *flow) {
	for i := 0; i < closed; i++ {
		s := segs[i]
		end := len(p.Chars)
		if i+1 < len(segs) {
			end = int(segs[i+1].TextStart)
		}
		y := f.storedY(s.VertPos)
		line := LineBox{
			Start:    int(s.TextStart),
			End:      end,
			X:        f.x + s.HorzStart,
			Y:        y,
			Width:    s.SegWidth,
			Height:   s.LineHeight,
			Baseline: s.Baseline,
			Page:     f.page,
			Source:   SourceStored,
		}
		line.Runs = placeRuns(e.pieces(p, line.Start, end), line.X)
		box.Lines = append(box.Lines, line)
		f.placed(y, y+s.LineHeight+s.Spacing)
	}
}

func (e *engine) paraShape(id uint16) *hwp5.ParaShape {
	if int(id) < len(e.info.ParaShapes) && e.info.ParaShapes[id] != nil {
		return e.info.ParaShapes[id]
	}
	return &hwp5.ParaShape{LineSpacing: 160}
}

func (e *engine) charHeight(id uint32) int32 {
	if int(id) < len(e.info.CharShapes) {
		if cs := e.info.CharShapes[id]; cs != nil && cs.Height > 0 {
			return cs.Height
		}
	}
	return 1000
}

// advance returns the distance from one line's top to the next.
func advance(ps *hwp5.ParaShape, h int32) int32 {
	v := int64(ps.LineSpacingValue())
	switch ps.LineSpacingType() {
	case hwp5.LineSpacingFixed:
		if v > 0 {
			return int32(v)
		}
	case hwp5.LineSpacingBetween:
		return h + int32(v)
	case hwp5.LineSpacingAtLeast:
		if int32(v) > h {
			return int32(v)
		}
	default:
		if v <= 0 {
			v = 100
		}
		return int32(int64(h) * v / 100)
	}
	return h
}
