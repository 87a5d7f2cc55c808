package layout

import (
	"fmt"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// lineAt returns the line containing offset pos, the last line when pos is past them.
func lineAt(lines []LineBox, pos int) LineBox {
	for _, l := range lines {
		if pos >= l.Start && pos < l.End {
			return l
		}
	}
	if len(lines) == 0 {
		return LineBox{}
	}
	return lines[len(lines)-1]
}

func (e *engine) controls(box *ParagraphBox, p *hwp5.Paragraph, f *flow) {
	for ci, c := range p.Controls {
		prefix := fmt.Sprintf("%s/c%d", box.ID, ci)
		line := lineAt(box.Lines, c.Anchor())

		switch ctl := c.(type) {
		case *hwp5.TableControl:
			cb := e.objectBox(box, ci, c, &ctl.Common, line, f)
			e.table(prefix, ctl, cb)
			e.caption(prefix, ctl.Caption, cb)
		case *hwp5.ShapeControl:
			cb := e.objectBox(box, ci, c, &ctl.Common, line, f)
			if ctl.Component != nil {
				k := 0
				ctl.Component.Walk(func(sc *hwp5.ShapeComponent) {
					if sc.TextBox == nil {
						return
					}
					inner := newFlow(cb.X, cb.Y, cb.Width)
					e.list(fmt.Sprintf("%s/textbox%d", prefix, k), KindTextBox, sc.TextBox, inner)
					k++
				})
			}
			e.caption(prefix, ctl.Caption, cb)
		case *hwp5.EquationControl:
			cb := e.objectBox(box, ci, c, &ctl.Common, line, f)
			e.caption(prefix, ctl.Caption, cb)
		case *hwp5.SubListControl:
			e.subList(prefix, ctl, line, f)
		}
	}
}

// objectBox places an object. Treat-as-char objects sit on their anchor line at the
// run that represents them; others are offset from the paragraph.
func (e *engine) objectBox(box *ParagraphBox, ci int, c hwp5.Control, o *hwp5.ObjectCommon, line LineBox, f *flow) ControlBox {
	cb := ControlBox{
		Paragraph: box.ID,
		Index:     ci,
		CtrlID:    hwp5.CtrlIDString(c.CtrlID()),
		Anchor:    c.Anchor(),
		Width:     int32(o.Width),
		Height:    int32(o.Height),
	}
	if o.TreatAsChar() {
		cb.InLine = true
		cb.X, cb.Y = line.X, line.Y
		for _, r := range line.Runs {
			if r.Start == c.Anchor() {
				cb.X = r.X
				break
			}
		}
	} else {
		cb.X = f.x + o.HorzOffset
		cb.Y = line.Y + o.VertOffset
	}
	box.Controls = append(box.Controls, cb)
	return cb
}

func (e *engine) list(prefix string, kind Kind, l *hwp5.List, f *flow) {
	if l == nil {
		return
	}
	for i, p := range l.Paragraphs {
		e.paragraph(ParagraphID(fmt.Sprintf("%s/p%d", prefix, i)), kind, p, f)
	}
}

func (e *engine) caption(prefix string, l *hwp5.List, cb ControlBox) {
	if l == nil {
		return
	}
	e.list(prefix+"/caption", KindCaption, l, newFlow(cb.X, cb.Y+cb.Height, cb.Width))
}

// table lays out each cell inside the grid given by the cell sizes. Columns and rows
// with no single-span cell share the table size evenly.
func (e *engine) table(prefix string, t *hwp5.TableControl, cb ControlBox) {
	cols, rows := int(t.Cols), int(t.Rows)
	if cols == 0 || rows == 0 {
		return
	}
	colW := make([]int32, cols)
	rowH := make([]int32, rows)
	for _, c := range t.Cells {
		if c.ColSpan <= 1 && int(c.Col) < cols {
			colW[c.Col] = max(colW[c.Col], int32(c.Width))
		}
		if c.RowSpan <= 1 && int(c.Row) < rows {
			rowH[c.Row] = max(rowH[c.Row], int32(c.Height))
		}
	}
	for i := range colW {
		if colW[i] == 0 {
			colW[i] = cb.Width / int32(cols)
		}
	}
	for i := range rowH {
		if rowH[i] == 0 {
			rowH[i] = cb.Height / int32(rows)
		}
	}
	offsets := func(sizes []int32) []int32 {
		out := make([]int32, len(sizes)+1)
		for i, s := range sizes {
			out[i+1] = out[i] + s
		}
		return out
	}
	colX, rowY := offsets(colW), offsets(rowH)

	for k, c := range t.Cells {
		col, row := min(int(c.Col), cols-1), min(int(c.Row), rows-1)
		end := min(col+max(int(c.ColSpan), 1), cols)

		m := c.Margins
		if m == ([4]uint16{}) {
			m = t.Padding
		}
		x := cb.X + colX[col] + int32(m[0])
		y := cb.Y + rowY[row] + int32(m[2])
		w := colX[end] - colX[col] - int32(m[0]) - int32(m[1])
		e.list(fmt.Sprintf("%s/cell%d", prefix, k), KindCell, &c.List, newFlow(x, y, w))
	}
}

// subList places headers and footers in their page areas and notes below the anchor line.
func (e *engine) subList(prefix string, s *hwp5.SubListControl, line LineBox, f *flow) {
	if s.List == nil {
		return
	}
	pd := &e.page
	paperH := int32(pd.PaperHeight)
	if pd.Landscape() {
		paperH = int32(pd.PaperWidth)
	}

	var y int32
	switch s.ID {
	case hwp5.CtrlHeader:
		y = int32(pd.TopMargin)
	case hwp5.CtrlFooter:
		y = paperH - int32(pd.BottomMargin) - int32(pd.FooterMargin)
	default:
		y = line.Y + line.Height
	}
	e.list(prefix+"/list", KindSubList, s.List, newFlow(f.x, y, f.width))
}
