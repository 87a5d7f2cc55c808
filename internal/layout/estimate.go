package layout

import (
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// piece is an unbreakable span: text of one char shape up to a forced line break,
// or a treat-as-char object.
type piece struct {
	start, end int
	shape      uint32
	width      int32
	height     int32
	brk        bool // 강제 줄 나눔으로 끝남
}

// tabCells is the advance of a tab in display cells.
const tabCells = 2

type pieceBuilder struct {
	e      *engine
	out    []piece
	shape  uint32
	height int32
	start  int
	units  []uint16
	cells  int
}

func (b *pieceBuilder) begin(pos int) {
	b.start = pos
	b.units = b.units[:0]
	b.cells = 0
}

func (b *pieceBuilder) flush(end int, brk bool) {
	if end > b.start || brk {
		cells := b.cells + runewidth.StringWidth(hwp5.VisibleText(b.units))
		b.out = append(b.out, piece{
			start:  b.start,
			end:    end,
			shape:  b.shape,
			width:  int32(math.Round(float64(cells) * float64(b.height) * b.e.opts.advanceRatio)),
			height: b.height,
			brk:    brk,
		})
	}
	b.begin(end)
}

// pieces splits chars[from:to] at run boundaries, forced line breaks and
// treat-as-char objects.
func (e *engine) pieces(p *hwp5.Paragraph, from, to int) []piece {
	runs := p.CharRuns
	if len(runs) == 0 {
		runs = []hwp5.CharRun{{}}
	}
	if to > len(p.Chars) {
		to = len(p.Chars)
	}

	b := &pieceBuilder{e: e}
	for ri := range runs {
		rs, re := int(runs[ri].Pos), len(p.Chars)
		if ri+1 < len(runs) {
			re = int(runs[ri+1].Pos)
		}
		if re <= from || rs >= to {
			continue
		}
		rs, re = max(rs, from), min(re, to)

		b.shape = runs[ri].ShapeID
		b.height = e.charHeight(b.shape)
		b.begin(rs)
		for j := rs; j < re; {
			c := p.Chars[j]
			switch {
			case c == hwp5.CharLineBreak:
				j++
				b.flush(j, true)
			case c == hwp5.CharParaBreak:
				j++
			case c == hwp5.CharTab:
				b.cells += tabCells
				j += hwp5.ControlCharWidth
			case hwp5.IsExtendedControl(c) || hwp5.IsInlineControl(c):
				if obj := objectAt(p, j); obj != nil && obj.TreatAsChar() {
					b.flush(j, false)
					b.out = append(b.out, piece{
						start:  j,
						end:    min(j+hwp5.ControlCharWidth, re),
						shape:  b.shape,
						width:  int32(obj.Width),
						height: max(int32(obj.Height), b.height),
					})
					b.begin(min(j+hwp5.ControlCharWidth, re))
				}
				j += hwp5.ControlCharWidth
			default:
				b.units = append(b.units, c)
				j++
			}
		}
		b.flush(max(re, b.start), false)
	}
	return b.out
}

// objectAt returns the common object properties of the control anchored at pos.
func objectAt(p *hwp5.Paragraph, pos int) *hwp5.ObjectCommon {
	for _, c := range p.Controls {
		if c.Anchor() == pos {
			return objectCommon(c)
		}
	}
	return nil
}

func objectCommon(c hwp5.Control) *hwp5.ObjectCommon {
	switch ctl := c.(type) {
	case *hwp5.TableControl:
		return &ctl.Common
	case *hwp5.ShapeControl:
		return &ctl.Common
	case *hwp5.EquationControl:
		return &ctl.Common
	}
	return nil
}

// wrap groups pieces into lines greedily. A piece wider than an empty line is
// placed alone.
func wrap(pieces []piece, avail func(line int) int32) [][]piece {
	var (
		lines [][]piece
		cur   []piece
		w     int32
	)
	for _, pc := range pieces {
		if len(cur) > 0 && pc.width > 0 && w+pc.width > avail(len(lines)) {
			lines = append(lines, cur)
			cur, w = nil, 0
		}
		cur = append(cur, pc)
		w += pc.width
		if pc.brk {
			lines = append(lines, cur)
			cur, w = nil, 0
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

func placeRuns(pieces []piece, x int32) []RunBox {
	if len(pieces) == 0 {
		return nil
	}
	runs := make([]RunBox, 0, len(pieces))
	for _, pc := range pieces {
		runs = append(runs, RunBox{
			Start:       pc.start,
			End:         pc.end,
			CharShapeID: pc.shape,
			X:           x,
			Width:       pc.width,
			Height:      pc.height,
		})
		x += pc.width
	}
	return runs
}

// estimate lays out chars[from:] below f.cursor. A paragraph estimated from
// offset 0 gets its space before and first-line indent.
func (e *engine) estimate(box *ParagraphBox, p *hwp5.Paragraph, ps *hwp5.ParaShape, f *flow, from int) {
	first := from == 0
	y := max(f.cursor, f.lastY)
	if first && ps.ParaSpaceBefore > 0 {
		y += ps.ParaSpaceBefore
	}

	indent := func(line int) int32 {
		switch {
		case line == 0 && first && ps.Indent > 0:
			return ps.Indent
		case (line > 0 || !first) && ps.Indent < 0:
			return -ps.Indent
		}
		return 0
	}
	avail := func(line int) int32 {
		return max(f.width-ps.LeftMargin-ps.RightMargin-indent(line), 1)
	}

	groups := wrap(e.pieces(p, from, len(p.Chars)), avail)
	start := from
	for i, g := range groups {
		line := LineBox{Start: start, End: start, Page: f.page, Source: SourceEstimated}
		for _, pc := range g {
			line.Width += pc.width
			line.Height = max(line.Height, pc.height)
			line.End = pc.end
		}
		if i == len(groups)-1 {
			line.End = len(p.Chars)
		}
		if line.Height == 0 {
			line.Height = e.charHeight(p.ShapeAt(start))
		}

		line.X = f.x + ps.LeftMargin + indent(i)
		switch ps.Alignment() {
		case hwp5.AlignRight:
			line.X += avail(i) - line.Width
		case hwp5.AlignCenter:
			line.X += (avail(i) - line.Width) / 2
		}
		line.Y = y
		line.Baseline = line.Height * 85 / 100
		line.Runs = placeRuns(g, line.X)
		box.Lines = append(box.Lines, line)

		next := y + advance(ps, line.Height)
		f.placed(y, next)
		y = next
		start = line.End
	}
	if ps.ParaSpaceAfter > 0 {
		f.cursor += ps.ParaSpaceAfter
	}
}
